package layout

// GroupByField partitions items by the string form of field.
//
// Groups appear in the order their key is first seen, and items keep their
// input order inside a group. Items without the field land in the group
// titled "". An empty field name yields a single untitled group.
func GroupByField(items []Item, field string) SortedData {
	if field == "" {
		return SortedData{Groups: []Group{{Title: "", Items: append([]Item(nil), items...)}}}
	}

	index := make(map[string]int)
	var groups []Group
	for _, it := range items {
		key := it.FieldString(field)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Title: key})
		}
		groups[i].Items = append(groups[i].Items, it)
	}

	return SortedData{SortKey: field, Groups: groups}
}
