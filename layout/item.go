package layout

import (
	"fmt"
	"strings"
	"time"
)

// Built-in field names understood by Item.Field and GroupByField.
const (
	FieldID    = "id"
	FieldName  = "name"
	FieldStart = "startDate"
	FieldEnd   = "endDate"
)

// Item is a single dated entity. Fields holds caller-defined extension
// values (team, status, progress...). The engine never modifies an Item.
type Item struct {
	ID     string
	Name   string
	Start  time.Time
	End    time.Time
	Fields map[string]any
}

// Field returns the value of a built-in or extension field.
func (it Item) Field(name string) (any, bool) {
	switch name {
	case FieldID:
		return it.ID, true
	case FieldName:
		return it.Name, true
	case FieldStart:
		return it.Start, true
	case FieldEnd:
		return it.End, true
	}
	v, ok := it.Fields[name]
	if ok && v == nil {
		return nil, false
	}
	return v, ok
}

// FieldString returns the string form of a field, or "" when unset.
func (it Item) FieldString(name string) string {
	v, ok := it.Field(name)
	if !ok {
		return ""
	}
	return stringify(v)
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

// Validate checks the invariants every item must hold before layout.
func (it Item) Validate() error {
	if strings.TrimSpace(it.ID) == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, FieldID)
	}
	if it.Start.IsZero() {
		return fmt.Errorf("%w: %s", ErrMissingField, FieldStart)
	}
	if it.End.IsZero() {
		return fmt.Errorf("%w: %s", ErrMissingField, FieldEnd)
	}
	if it.Start.After(it.End) {
		return ErrInvalidRange
	}
	return nil
}

// Group is a titled, ordered bucket of items rendered as one band.
type Group struct {
	Title string
	Items []Item
}

// SortedData is the canonical grouped form every stage consumes.
// SortKey names the field the groups were built from ("" when ungrouped).
type SortedData struct {
	SortKey string
	Groups  []Group
}

// Items flattens the data back into a single slice, group by group.
func (d SortedData) Items() []Item {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Items)
	}
	out := make([]Item, 0, n)
	for _, g := range d.Groups {
		out = append(out, g.Items...)
	}
	return out
}

// Len returns the total number of items across groups.
func (d SortedData) Len() int {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Items)
	}
	return n
}
