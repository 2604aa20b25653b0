package entity

// OutputRow holds one extracted value per FieldSpec column, in column order.
type OutputRow []string

// Found counts the non-empty values in the row.
func (r OutputRow) Found() int {
	n := 0
	for _, v := range r {
		if v != "" {
			n++
		}
	}
	return n
}
