package core

// validation.go checks the loaded table before any row is read.
//
// Only the presence of the three required columns is checked here. Cell
// values are checked later, and only for the rows of the selected item, by
// ExtractSeries.

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Names are matched exactly after CleanCell; the first occurrence wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := CleanCell(h)
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	return idx
}

// ValidateColumns checks that Année, Article and Ventes are all present.
// It returns the header index on success and a KindSchema *Error listing
// the missing columns otherwise.
func ValidateColumns(t *Table) (HeaderIndex, error) {
	idx := MakeHeaderIndex(t.Columns)

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, schemaError(missing)
	}
	return idx, nil
}
