/*
Package layout places dated items on a horizontal time axis.

A layout pass runs in four stages over one snapshot of input:

  - grouping: raw items are partitioned into ordered groups (GroupByField),
    or a pre-grouped SortedData is taken as is;
  - span: the calendar years and first month that cover every item (ComputeSpan);
  - placement: each group is packed into tracks so that items sharing a
    track never overlap in time (Place);
  - geometry: dates, tracks and groups are mapped to pixels for the active
    day width (Geometry).

Grouping, span and placement do not depend on the zoom level, so an Engine
splits a pass into a Plan (scale independent) and a Frame (the plan plus
geometry at one day width). Switching zoom only rebuilds the Frame.

Every function in this package is synchronous and side effect free. The
only state carried between passes is the active level held by a Zoom.
*/
package layout
