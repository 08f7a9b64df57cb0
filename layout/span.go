package layout

import "time"

// Span is the calendar range rendered on the axis: every month of every
// year in Years, except that the first year starts at StartMonth (0-11).
type Span struct {
	Years      []int
	StartMonth int
}

// ComputeSpan returns the smallest span covering all items. Items may come
// from any number of groups since the axis is shared. An empty slice
// returns ErrEmptyDataset.
func ComputeSpan(items []Item) (Span, error) {
	if len(items) == 0 {
		return Span{}, ErrEmptyDataset
	}

	first := items[0].Start
	last := items[0].End
	for _, it := range items[1:] {
		if it.Start.Before(first) {
			first = it.Start
		}
		if it.End.After(last) {
			last = it.End
		}
	}

	fromYear, toYear := first.Year(), last.Year()
	if toYear < fromYear {
		toYear = fromYear
	}
	years := make([]int, 0, toYear-fromYear+1)
	for y := fromYear; y <= toYear; y++ {
		years = append(years, y)
	}

	return Span{Years: years, StartMonth: int(first.Month()) - 1}, nil
}

// Origin is the first rendered day: day 1 of StartMonth in the first year.
func (s Span) Origin() time.Time {
	if len(s.Years) == 0 {
		return time.Time{}
	}
	return time.Date(s.Years[0], time.Month(s.StartMonth+1), 1, 0, 0, 0, 0, time.UTC)
}

// Limit is the day after the last rendered day (January 1 after the last year).
func (s Span) Limit() time.Time {
	if len(s.Years) == 0 {
		return time.Time{}
	}
	return time.Date(s.Years[len(s.Years)-1]+1, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// Days is the number of rendered days.
func (s Span) Days() int {
	if len(s.Years) == 0 {
		return 0
	}
	return daysBetween(s.Origin(), s.Limit())
}

// ContainsYear reports whether t's year is one of the rendered years.
func (s Span) ContainsYear(t time.Time) bool {
	if len(s.Years) == 0 {
		return false
	}
	y := t.Year()
	return y >= s.Years[0] && y <= s.Years[len(s.Years)-1]
}

// Month is one ruler cell.
type Month struct {
	Year  int
	Month time.Month
	Days  int
	// Offset is the number of rendered days before this month.
	Offset int
}

// Months lists the rendered months in order.
func (s Span) Months() []Month {
	var out []Month
	offset := 0
	for i, y := range s.Years {
		from := time.January
		if i == 0 {
			from = time.Month(s.StartMonth + 1)
		}
		for m := from; m <= time.December; m++ {
			d := DaysIn(y, m)
			out = append(out, Month{Year: y, Month: m, Days: d, Offset: offset})
			offset += d
		}
	}
	return out
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// civil drops the clock and zone, keeping the calendar date t shows in its
// own location.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from a to b (negative if b is earlier).
func daysBetween(a, b time.Time) int {
	return int(civil(b).Sub(civil(a)) / (24 * time.Hour))
}
