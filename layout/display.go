package layout

import (
	"math"
	"strconv"
)

// DisplayType is the visual encoding of a field.
type DisplayType string

const (
	DisplayProgress DisplayType = "progress"
	DisplayIcon     DisplayType = "icon"
	DisplayTag      DisplayType = "tag"
)

func (t DisplayType) String() string {
	return string(t)
}

// Visual is what a renderer draws for one field of one item. Which members
// matter depends on the DisplayType: Value/ShowText for progress, Icon for
// icons, Text/Variant for tags. Color applies to all.
type Visual struct {
	Text     string
	Color    string
	Icon     string
	Variant  string
	Value    float64
	ShowText bool
}

// Mapper turns a raw field value into a Visual.
type Mapper func(value any) Visual

// FieldDisplay configures how one item field is shown. The layout engine
// does not read it; it travels unchanged from Options to Frame for the
// renderer. When both are set, Mapper wins over Lookup.
type FieldDisplay struct {
	Field   string
	Type    DisplayType
	Mapper  Mapper
	Lookup  map[string]Visual
	Visible func(Item) bool
}

// Resolve returns the visual for it, or false when the field is hidden,
// unset, or not covered by the lookup table.
func (f FieldDisplay) Resolve(it Item) (Visual, bool) {
	if f.Visible != nil && !f.Visible(it) {
		return Visual{}, false
	}
	v, ok := it.Field(f.Field)
	if !ok {
		return Visual{}, false
	}
	if f.Mapper != nil {
		return f.Mapper(v), true
	}
	if f.Lookup != nil {
		vis, ok := f.Lookup[stringify(v)]
		return vis, ok
	}
	return Visual{Text: stringify(v)}, true
}

// DisplayConfig groups field displays by the area they are drawn in.
type DisplayConfig struct {
	GraphicFields []FieldDisplay
	TagFields     []FieldDisplay
}

// Choice is one entry of a value table used by the map-based helpers.
type Choice struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
	Icon  string `yaml:"icon"`
}

// ProgressField shows a numeric field as a 0-100 progress bar.
func ProgressField(field string, showText bool, color string) FieldDisplay {
	return FieldDisplay{
		Field: field,
		Type:  DisplayProgress,
		Mapper: func(value any) Visual {
			return Visual{Value: clampPercent(toFloat(value)), ShowText: showText, Color: color}
		},
	}
}

// IconField shows a field as an icon picked from choices. Unknown values
// get the "help" icon in gray.
func IconField(field string, choices map[string]Choice) FieldDisplay {
	return FieldDisplay{
		Field: field,
		Type:  DisplayIcon,
		Mapper: func(value any) Visual {
			c, ok := choices[stringify(value)]
			vis := Visual{Icon: "help", Color: "gray"}
			if ok {
				if c.Icon != "" {
					vis.Icon = c.Icon
				}
				if c.Color != "" {
					vis.Color = c.Color
				}
				vis.Text = c.Name
			}
			return vis
		},
	}
}

// TagField shows a field as a text tag named through choices. Values with
// no entry are shown verbatim in gray. A non-empty color overrides the
// table, and items whose value equals hide are not tagged.
func TagField(field string, choices map[string]Choice, variant, color, hide string) FieldDisplay {
	if variant == "" {
		variant = "contained"
	}
	fd := FieldDisplay{
		Field: field,
		Type:  DisplayTag,
		Mapper: func(value any) Visual {
			key := stringify(value)
			vis := Visual{Text: key, Color: "gray", Variant: variant}
			if c, ok := choices[key]; ok {
				if c.Name != "" {
					vis.Text = c.Name
				}
				if c.Color != "" {
					vis.Color = c.Color
				}
			}
			if color != "" {
				vis.Color = color
			}
			return vis
		},
	}
	if hide != "" {
		fd.Visible = func(it Item) bool {
			return it.FieldString(field) != hide
		}
	}
	return fd
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func clampPercent(f float64) float64 {
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	if f > 100 {
		return 100
	}
	return f
}
