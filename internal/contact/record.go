package contact

// Reserved field names.
const (
	FieldUID       = "uid"
	FieldMatch     = "match"
	FieldCertainty = "certainty"
	FieldTel       = "tel"
	FieldEmail     = "email"
	FieldName      = "fn"
)

// ValueSeparator joins multiple values of one field into a single string.
const ValueSeparator = ";"

// IsMetadata reports whether a field holds deduplication metadata rather than
// address-book data.
func IsMetadata(name string) bool {
	return name == FieldMatch || name == FieldCertainty
}

// Record is a single contact: field names mapped to string values, kept in
// insertion order.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Get returns the value of a field, or "" if the field is absent.
func (r *Record) Get(name string) string {
	return r.values[name]
}

// Lookup returns the value of a field and whether it is present.
func (r *Record) Lookup(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Has reports whether the field is present (possibly with an empty value).
func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Set assigns a value. New fields are appended; existing fields keep their position.
func (r *Record) Set(name, value string) {
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = value
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.keys)
}

// UID returns the process-local identifier assigned at import.
func (r *Record) UID() string {
	return r.values[FieldUID]
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := &Record{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]string, len(r.values)),
	}
	copy(c.keys, r.keys)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}
