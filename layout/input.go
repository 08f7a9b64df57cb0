package layout

import (
	"fmt"
	"time"
)

// Input is the data handed to a layout pass: either RawItems or Grouped.
type Input interface {
	normalize() SortedData
	// railed reports whether the side rail with group titles is shown.
	railed() bool
}

// RawItems is a flat item list, grouped by GroupBy when it is set.
type RawItems struct {
	Items   []Item
	GroupBy string
}

func (r RawItems) normalize() SortedData {
	return GroupByField(r.Items, r.GroupBy)
}

func (r RawItems) railed() bool {
	return r.GroupBy != ""
}

// Grouped is data the caller already partitioned.
type Grouped struct {
	Data SortedData
}

func (g Grouped) normalize() SortedData {
	groups := make([]Group, len(g.Data.Groups))
	for i, grp := range g.Data.Groups {
		groups[i] = Group{Title: grp.Title, Items: append([]Item(nil), grp.Items...)}
	}
	return SortedData{SortKey: g.Data.SortKey, Groups: groups}
}

func (g Grouped) railed() bool {
	return len(g.Data.Groups) > 1 || (len(g.Data.Groups) == 1 && g.Data.Groups[0].Title != "")
}

// Normalize converts any Input into SortedData.
func Normalize(in Input) SortedData {
	return in.normalize()
}

// Window restricts a pass to items whose start falls in [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Filter keeps the items whose start is inside w and drops groups left empty.
// Items without a start date are kept so that Validate can report them.
func Filter(data SortedData, w Window) SortedData {
	out := SortedData{SortKey: data.SortKey}
	for _, g := range data.Groups {
		var kept []Item
		for _, it := range g.Items {
			if it.Start.IsZero() || w.Contains(it.Start) {
				kept = append(kept, it)
			}
		}
		if len(kept) > 0 {
			out.Groups = append(out.Groups, Group{Title: g.Title, Items: kept})
		}
	}
	return out
}

// InvalidPolicy selects what happens to malformed items.
type InvalidPolicy int

const (
	// DropInvalid removes malformed items and reports them as diagnostics.
	DropInvalid InvalidPolicy = iota
	// RejectInvalid fails the whole pass on the first malformed item.
	RejectInvalid
)

func (p InvalidPolicy) String() string {
	switch p {
	case DropInvalid:
		return "drop"
	case RejectInvalid:
		return "reject"
	default:
		return fmt.Sprintf("InvalidPolicy(%d)", int(p))
	}
}

// ParseInvalidPolicy maps "drop" and "reject" to a policy.
func ParseInvalidPolicy(s string) (InvalidPolicy, error) {
	switch s {
	case "", "drop":
		return DropInvalid, nil
	case "reject":
		return RejectInvalid, nil
	}
	return DropInvalid, fmt.Errorf("unknown invalid item policy %q", s)
}

// Validate applies policy to every item. Under DropInvalid it returns the
// surviving data (groups emptied by validation are removed) together with
// one ItemError per dropped item. Under RejectInvalid the first malformed
// item aborts with its *ItemError.
func Validate(data SortedData, policy InvalidPolicy) (SortedData, []*ItemError, error) {
	seen := make(map[string]struct{}, data.Len())
	out := SortedData{SortKey: data.SortKey}
	var dropped []*ItemError

	for _, g := range data.Groups {
		var kept []Item
		for _, it := range g.Items {
			err := it.Validate()
			if err == nil {
				if _, dup := seen[it.ID]; dup {
					err = ErrDuplicateID
				}
			}
			if err != nil {
				ierr := &ItemError{ID: it.ID, Group: g.Title, Err: err}
				if policy == RejectInvalid {
					return SortedData{}, nil, ierr
				}
				dropped = append(dropped, ierr)
				continue
			}
			seen[it.ID] = struct{}{}
			kept = append(kept, it)
		}
		if len(kept) > 0 {
			out.Groups = append(out.Groups, Group{Title: g.Title, Items: kept})
		}
	}

	return out, dropped, nil
}
