package contact

// FieldOrder returns every field name in the order it was first seen across
// records, excluding the match and certainty metadata fields.
func FieldOrder(records []*Record) []string {
	seen := make(map[string]bool)
	var order []string
	for _, r := range records {
		for _, key := range r.keys {
			if IsMetadata(key) || seen[key] {
				continue
			}
			seen[key] = true
			order = append(order, key)
		}
	}
	return order
}
