package medici

// Update merges newColumns into the record under key: names present in
// newColumns take the new value, every other stored column is preserved, and
// new-only names are added.  The merged record is written back whole, old
// columns in stored order first, then new-only names in argument order.
//
// The fetch/merge/store sequence holds no lock across the gap, so a
// concurrent writer's change landing between the read and the write is
// silently overwritten.  That is the operation's documented contract, not a
// defect.  A missing record merges as empty; any other fetch error aborts
// before anything is written.  Duplicate names collapse to their last value
// during the merge.
func (t *Table) Update(key string, newColumns Record) error {
	old, err := t.Get(key)
	if IsNoRecord(err) {
		old = nil
	} else if err != nil {
		return err
	}
	merged, err := mergeColumns(old, newColumns)
	if err != nil {
		return err
	}
	return t.Put(key, merged)
}

// mergeColumns builds a name-to-value map seeded with old and overwritten by
// new, then emits it in insertion order.  Values are normalized to their
// wire text form so numeric and symbolic inputs merge against decoded
// strings.
func mergeColumns(old, updates Record) (Record, error) {
	order := make([]string, 0, len(old)+len(updates))
	values := make(map[string][]byte, len(old)+len(updates))
	for _, r := range []Record{old, updates} {
		for _, col := range r {
			value, err := renderValue(col.Value)
			if err != nil {
				return nil, err
			}
			if _, ok := values[col.Name]; !ok {
				order = append(order, col.Name)
			}
			values[col.Name] = value
		}
	}
	merged := make(Record, 0, len(order))
	for _, name := range order {
		merged = append(merged, Column{Name: name, Value: string(values[name])})
	}
	return merged, nil
}
