package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		d, err := ParseDate("2025-03-09")
		require.NoError(t, err)
		assert.Equal(t, "2025-03-09", d.String())
	})

	t.Run("rejects time component", func(t *testing.T) {
		_, err := ParseDate("2025-03-09T10:00:00Z")
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseDate("not-a-date")
		assert.Error(t, err)
	})
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2025, time.March, 9, 23, 59, 58, 123, time.UTC)
	assert.Equal(t, "2025-03-09", DateOf(ts).String())
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.December, 31)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-12-31"`, string(data))

	var parsed Date
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, d, parsed)
}

func TestDateIsZero(t *testing.T) {
	assert.True(t, Date{}.IsZero())
	assert.False(t, Today().IsZero())
}
