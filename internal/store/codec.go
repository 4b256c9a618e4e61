package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/resumetry/backend/internal/model"
)

// Item is a raw DynamoDB item.
type Item = map[string]types.AttributeValue

// Field is one store-encoded attribute. Partial updates carry an
// ordered field slice so the update expression comes out stable.
type Field struct {
	Name  string
	Value types.AttributeValue
}

const (
	attrCreatedAt = "created_at"
	attrUpdatedAt = "updated_at"

	noteOccurDateAttr   = "occur_date"
	noteDescriptionAttr = "description"
)

// fieldKind is the coercion rule applied at the serialization boundary.
// The store has no native date, enum or integer types; each kind says
// how a field crosses that boundary in both directions.
type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindStatus
	kindDate
	kindNotes
)

type attrSpec struct {
	name string
	kind fieldKind
}

// recordSchema is the closed set of persisted fields and their rules.
// A new field needs one row here plus its accessor cases below.
var recordSchema = []attrSpec{
	{"company", kindString},
	{"role", kindString},
	{"description", kindString},
	{"salary", kindString},
	{"interest_level", kindInt},
	{"status", kindStatus},
	{"source_page", kindString},
	{"review_page", kindString},
	{"login_hints", kindString},
	{"applied_date", kindDate},
	{"status_date", kindDate},
	{"notes", kindNotes},
}

// encodeRecord converts a full create payload to the store item shape.
// Keys and timestamps are added by the repository.
func encodeRecord(n model.NewApplication) (Item, error) {
	item := make(Item, len(recordSchema))
	for _, spec := range recordSchema {
		av, err := encodeValue(spec.kind, recordValue(n, spec.name))
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", spec.name, err)
		}
		item[spec.name] = av
	}
	return item, nil
}

// patchFields converts the set fields of a partial update, in schema
// order. Absent (nil) fields are omitted; absence is the skip signal.
func patchFields(p model.Patch) ([]Field, error) {
	var fields []Field
	for _, spec := range recordSchema {
		v, set := patchValue(p, spec.name)
		if !set {
			continue
		}
		av, err := encodeValue(spec.kind, v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", spec.name, err)
		}
		fields = append(fields, Field{Name: spec.name, Value: av})
	}
	return fields, nil
}

// decodeItem converts a store item back to a record. The id comes from
// the sort key, never from a raw id attribute; the key and timestamp
// bookkeeping attributes are dropped from the API-visible fields.
func decodeItem(item Item) (*model.Application, error) {
	sk, ok := item[SortKeyAttr].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("item has no string sort key %q", SortKeyAttr)
	}
	app := &model.Application{ID: IDFromSortKey(sk.Value)}

	for _, spec := range recordSchema {
		av, ok := item[spec.name]
		if !ok {
			continue
		}
		if err := decodeValue(app, spec, av); err != nil {
			return nil, fmt.Errorf("decode %s: %w", spec.name, err)
		}
	}
	if app.Notes == nil {
		app.Notes = []model.Note{}
	}

	app.CreatedAt = decodeTimestamp(item[attrCreatedAt])
	app.UpdatedAt = decodeTimestamp(item[attrUpdatedAt])
	return app, nil
}

func encodeValue(kind fieldKind, v any) (types.AttributeValue, error) {
	switch kind {
	case kindStatus:
		return &types.AttributeValueMemberS{Value: string(v.(model.Status))}, nil
	case kindDate:
		return &types.AttributeValueMemberS{Value: v.(model.Date).String()}, nil
	case kindNotes:
		return encodeNotes(v.([]model.Note)), nil
	default:
		// Plain scalars pass through the SDK marshaler unchanged.
		return attributevalue.Marshal(v)
	}
}

func decodeValue(app *model.Application, spec attrSpec, av types.AttributeValue) error {
	switch spec.kind {
	case kindString:
		s, err := stringValue(av)
		if err != nil {
			return err
		}
		setString(app, spec.name, s)
	case kindInt:
		// The store reports numbers in arbitrary precision; coerce to int.
		n, ok := av.(*types.AttributeValueMemberN)
		if !ok {
			return fmt.Errorf("want N attribute, got %T", av)
		}
		i, err := strconv.Atoi(n.Value)
		if err != nil {
			return fmt.Errorf("parse number %q: %w", n.Value, err)
		}
		app.InterestLevel = i
	case kindStatus:
		s, err := stringValue(av)
		if err != nil {
			return err
		}
		app.Status = model.Status(s)
	case kindDate:
		d, err := decodeDate(av)
		if err != nil {
			return err
		}
		setDate(app, spec.name, d)
	case kindNotes:
		notes, err := decodeNotes(av)
		if err != nil {
			return err
		}
		app.Notes = notes
	}
	return nil
}

func encodeNotes(notes []model.Note) types.AttributeValue {
	l := make([]types.AttributeValue, 0, len(notes))
	for _, n := range notes {
		l = append(l, &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			noteOccurDateAttr:   &types.AttributeValueMemberS{Value: n.OccurDate.String()},
			noteDescriptionAttr: &types.AttributeValueMemberS{Value: n.Description},
		}})
	}
	return &types.AttributeValueMemberL{Value: l}
}

func decodeNotes(av types.AttributeValue) ([]model.Note, error) {
	l, ok := av.(*types.AttributeValueMemberL)
	if !ok {
		return nil, fmt.Errorf("want L attribute, got %T", av)
	}
	notes := make([]model.Note, 0, len(l.Value))
	for i, el := range l.Value {
		m, ok := el.(*types.AttributeValueMemberM)
		if !ok {
			return nil, fmt.Errorf("notes[%d]: want M attribute, got %T", i, el)
		}
		var note model.Note
		if av, ok := m.Value[noteOccurDateAttr]; ok {
			d, err := decodeDate(av)
			if err != nil {
				return nil, fmt.Errorf("notes[%d]: %w", i, err)
			}
			note.OccurDate = d
		}
		if av, ok := m.Value[noteDescriptionAttr]; ok {
			s, err := stringValue(av)
			if err != nil {
				return nil, fmt.Errorf("notes[%d]: %w", i, err)
			}
			note.Description = s
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func decodeDate(av types.AttributeValue) (model.Date, error) {
	s, err := stringValue(av)
	if err != nil {
		return model.Date{}, err
	}
	return model.ParseDate(s)
}

func decodeTimestamp(av types.AttributeValue) time.Time {
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.Value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func stringValue(av types.AttributeValue) (string, error) {
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("want S attribute, got %T", av)
	}
	return s.Value, nil
}

func recordValue(n model.NewApplication, name string) any {
	switch name {
	case "company":
		return n.Company
	case "role":
		return n.Role
	case "description":
		return n.Description
	case "salary":
		return n.Salary
	case "interest_level":
		return n.InterestLevel
	case "status":
		return n.Status
	case "source_page":
		return n.SourcePage
	case "review_page":
		return n.ReviewPage
	case "login_hints":
		return n.LoginHints
	case "applied_date":
		return n.AppliedDate
	case "status_date":
		return n.StatusDate
	case "notes":
		return n.Notes
	default:
		panic(fmt.Sprintf("no accessor for attribute %q", name))
	}
}

func patchValue(p model.Patch, name string) (any, bool) {
	switch name {
	case "company":
		if p.Company != nil {
			return *p.Company, true
		}
	case "role":
		if p.Role != nil {
			return *p.Role, true
		}
	case "description":
		if p.Description != nil {
			return *p.Description, true
		}
	case "salary":
		if p.Salary != nil {
			return *p.Salary, true
		}
	case "interest_level":
		if p.InterestLevel != nil {
			return *p.InterestLevel, true
		}
	case "status":
		if p.Status != nil {
			return *p.Status, true
		}
	case "status_date":
		if p.StatusDate != nil {
			return *p.StatusDate, true
		}
	case "source_page":
		if p.SourcePage != nil {
			return *p.SourcePage, true
		}
	case "review_page":
		if p.ReviewPage != nil {
			return *p.ReviewPage, true
		}
	case "login_hints":
		if p.LoginHints != nil {
			return *p.LoginHints, true
		}
	case "notes":
		if p.Notes != nil {
			return *p.Notes, true
		}
	}
	return nil, false
}

func setString(app *model.Application, name, v string) {
	switch name {
	case "company":
		app.Company = v
	case "role":
		app.Role = v
	case "description":
		app.Description = v
	case "salary":
		app.Salary = v
	case "source_page":
		app.SourcePage = v
	case "review_page":
		app.ReviewPage = v
	case "login_hints":
		app.LoginHints = v
	}
}

func setDate(app *model.Application, name string, d model.Date) {
	switch name {
	case "applied_date":
		app.AppliedDate = d
	case "status_date":
		app.StatusDate = d
	}
}
