package store

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumetry/backend/internal/model"
)

func samplePayload() model.NewApplication {
	return model.NewApplication{
		Company:       "Initech",
		Role:          "Software Engineer",
		Description:   "backend role",
		Salary:        "120k-140k",
		InterestLevel: 3,
		Status:        model.StatusInterview,
		SourcePage:    "https://jobs.example.com/123",
		ReviewPage:    "https://reviews.example.com/initech",
		LoginHints:    "sso via google",
		AppliedDate:   model.NewDate(2025, time.May, 20),
		StatusDate:    model.NewDate(2025, time.June, 1),
		Notes: []model.Note{
			{OccurDate: model.NewDate(2025, time.May, 21), Description: "recruiter reached out"},
			{OccurDate: model.NewDate(2025, time.May, 28), Description: "phone screen booked"},
		},
	}
}

func TestEncodeRecord(t *testing.T) {
	item, err := encodeRecord(samplePayload())
	require.NoError(t, err)

	t.Run("scalars", func(t *testing.T) {
		assert.Equal(t, strAV("Initech"), item["company"])
		assert.Equal(t, strAV("INTERVIEW"), item["status"])
		assert.Equal(t, strAV("2025-05-20"), item["applied_date"])
		assert.Equal(t, &types.AttributeValueMemberN{Value: "3"}, item["interest_level"])
	})

	t.Run("notes are a list of maps", func(t *testing.T) {
		l, ok := item["notes"].(*types.AttributeValueMemberL)
		require.True(t, ok)
		require.Len(t, l.Value, 2)

		first, ok := l.Value[0].(*types.AttributeValueMemberM)
		require.True(t, ok)
		assert.Equal(t, strAV("2025-05-21"), first.Value["occur_date"])
		assert.Equal(t, strAV("recruiter reached out"), first.Value["description"])
	})

	t.Run("no key or bookkeeping attributes", func(t *testing.T) {
		assert.NotContains(t, item, PartitionKeyAttr)
		assert.NotContains(t, item, SortKeyAttr)
		assert.NotContains(t, item, attrCreatedAt)
		assert.NotContains(t, item, attrUpdatedAt)
	})
}

func TestDecodeItemRoundTrip(t *testing.T) {
	payload := samplePayload()
	item, err := encodeRecord(payload)
	require.NoError(t, err)

	item[PartitionKeyAttr] = strAV("JOB_APPS")
	item[SortKeyAttr] = strAV("APP#abc-123")
	item[attrCreatedAt] = strAV("2025-06-01T10:00:00.5Z")
	item[attrUpdatedAt] = strAV("2025-06-02T11:30:00Z")

	app, err := decodeItem(item)
	require.NoError(t, err)

	assert.Equal(t, "abc-123", app.ID)
	assert.Equal(t, payload.Company, app.Company)
	assert.Equal(t, payload.Role, app.Role)
	assert.Equal(t, payload.Salary, app.Salary)
	assert.Equal(t, payload.InterestLevel, app.InterestLevel)
	assert.Equal(t, payload.Status, app.Status)
	assert.Equal(t, payload.AppliedDate, app.AppliedDate)
	assert.Equal(t, payload.StatusDate, app.StatusDate)
	assert.Equal(t, payload.Notes, app.Notes)
	assert.Equal(t, time.Date(2025, time.June, 1, 10, 0, 0, 500000000, time.UTC), app.CreatedAt)
	assert.Equal(t, time.Date(2025, time.June, 2, 11, 30, 0, 0, time.UTC), app.UpdatedAt)
}

func TestDecodeItem(t *testing.T) {
	t.Run("missing sort key errors", func(t *testing.T) {
		_, err := decodeItem(Item{"company": strAV("Initech")})
		assert.Error(t, err)
	})

	t.Run("missing notes decode as empty list", func(t *testing.T) {
		app, err := decodeItem(Item{
			SortKeyAttr: strAV("APP#x"),
			"company":   strAV("Initech"),
		})
		require.NoError(t, err)
		require.NotNil(t, app.Notes)
		assert.Empty(t, app.Notes)
	})

	t.Run("malformed date errors", func(t *testing.T) {
		_, err := decodeItem(Item{
			SortKeyAttr:    strAV("APP#x"),
			"applied_date": strAV("June 1st"),
		})
		assert.Error(t, err)
	})
}

func TestPatchFields(t *testing.T) {
	str := func(s string) *string { return &s }

	t.Run("empty patch yields no fields", func(t *testing.T) {
		fields, err := patchFields(model.Patch{})
		require.NoError(t, err)
		assert.Empty(t, fields)
	})

	t.Run("only set fields, in schema order", func(t *testing.T) {
		st := model.StatusOffer
		sd := model.NewDate(2025, time.June, 5)
		fields, err := patchFields(model.Patch{
			StatusDate: &sd,
			Company:    str("Globex"),
			Status:     &st,
		})
		require.NoError(t, err)
		require.Len(t, fields, 3)

		assert.Equal(t, "company", fields[0].Name)
		assert.Equal(t, "status", fields[1].Name)
		assert.Equal(t, "status_date", fields[2].Name)
		assert.Equal(t, strAV("OFFER"), fields[1].Value)
		assert.Equal(t, strAV("2025-06-05"), fields[2].Value)
	})

	t.Run("notes replacement", func(t *testing.T) {
		notes := []model.Note{{OccurDate: model.NewDate(2025, time.June, 3), Description: "onsite"}}
		fields, err := patchFields(model.Patch{Notes: &notes})
		require.NoError(t, err)
		require.Len(t, fields, 1)
		assert.Equal(t, "notes", fields[0].Name)
	})
}
