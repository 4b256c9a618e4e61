package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	today := NewDate(2025, time.June, 1)

	t.Run("fills everything on an empty payload", func(t *testing.T) {
		n := NewApplication{Company: "Initech", Role: "Engineer", InterestLevel: 2}
		n.ApplyDefaults(today)

		assert.Equal(t, StatusApplied, n.Status)
		assert.Equal(t, today, n.AppliedDate)
		assert.Equal(t, today, n.StatusDate)
		require.NotNil(t, n.Notes)
		assert.Empty(t, n.Notes)
	})

	t.Run("keeps provided values", func(t *testing.T) {
		applied := NewDate(2025, time.May, 20)
		n := NewApplication{
			Status:      StatusInterview,
			AppliedDate: applied,
			StatusDate:  applied,
			Notes:       []Note{{OccurDate: applied, Description: "phone screen"}},
		}
		n.ApplyDefaults(today)

		assert.Equal(t, StatusInterview, n.Status)
		assert.Equal(t, applied, n.AppliedDate)
		assert.Equal(t, applied, n.StatusDate)
		assert.Len(t, n.Notes, 1)
	})
}

func TestNewApplicationValidate(t *testing.T) {
	valid := func() NewApplication {
		n := NewApplication{Company: "Initech", Role: "Engineer", InterestLevel: 2}
		n.ApplyDefaults(Today())
		return n
	}

	t.Run("valid payload", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing company", func(t *testing.T) {
		n := valid()
		n.Company = ""
		assert.Error(t, n.Validate())
	})

	t.Run("company too long", func(t *testing.T) {
		n := valid()
		n.Company = strings.Repeat("x", 256)
		assert.Error(t, n.Validate())
	})

	t.Run("missing role", func(t *testing.T) {
		n := valid()
		n.Role = ""
		assert.Error(t, n.Validate())
	})

	t.Run("salary too long", func(t *testing.T) {
		n := valid()
		n.Salary = strings.Repeat("9", 101)
		assert.Error(t, n.Validate())
	})

	t.Run("interest level out of range", func(t *testing.T) {
		for _, lvl := range []int{0, 4, -1} {
			n := valid()
			n.InterestLevel = lvl
			assert.Error(t, n.Validate(), "level %d", lvl)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		n := valid()
		n.Status = "PENDING"
		assert.Error(t, n.Validate())
	})

	t.Run("note without description", func(t *testing.T) {
		n := valid()
		n.Notes = []Note{{OccurDate: Today()}}
		assert.Error(t, n.Validate())
	})
}

func TestPatch(t *testing.T) {
	str := func(s string) *string { return &s }

	t.Run("empty", func(t *testing.T) {
		assert.True(t, Patch{}.IsEmpty())
	})

	t.Run("not empty with one field", func(t *testing.T) {
		assert.False(t, Patch{Company: str("Initech")}.IsEmpty())
	})

	t.Run("validates only set fields", func(t *testing.T) {
		assert.NoError(t, Patch{Company: str("Initech")}.Validate())
	})

	t.Run("rejects empty company", func(t *testing.T) {
		assert.Error(t, Patch{Company: str("")}.Validate())
	})

	t.Run("rejects bad interest level", func(t *testing.T) {
		lvl := 5
		assert.Error(t, Patch{InterestLevel: &lvl}.Validate())
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		st := Status("PENDING")
		assert.Error(t, Patch{Status: &st}.Validate())
	})
}
