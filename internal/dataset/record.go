// Package dataset loads the flat issue/action table that drives the guide.
//
// A dataset is an ordered list of records. Each record keeps its fields in
// the order the source declared them, because role inference on the first
// record resolves ties by that order.
package dataset

// Field is one named value of a record.
type Field struct {
	Name  string
	Value string
}

// Record is one row of the source table. It is immutable after load.
type Record struct {
	fields []Field
	index  map[string]int
}

// NewRecord builds a record from fields in source order. A repeated name
// keeps its first position and takes the last value.
func NewRecord(fields []Field) Record {
	r := Record{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if i, ok := r.index[f.Name]; ok {
			r.fields[i].Value = f.Value
			continue
		}
		r.index[f.Name] = len(r.fields)
		r.fields = append(r.fields, f)
	}
	return r
}

// Get returns the value stored under name.
func (r Record) Get(name string) (string, bool) {
	i, ok := r.index[name]
	if !ok {
		return "", false
	}
	return r.fields[i].Value, true
}

// Value returns the value stored under name, or "" when the field is absent.
func (r Record) Value(name string) string {
	v, _ := r.Get(name)
	return v
}

// Fields returns a copy of the record's fields in source order.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Names returns the field names in source order.
func (r Record) Names() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.Name
	}
	return out
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Dataset is the loaded table.
type Dataset struct {
	// Source describes where the records came from (path, URL or DSN with
	// credentials stripped).
	Source string
	// Format is the decoder that produced the records: json, yaml, csv or sql.
	Format  string
	Records []Record
}

// First returns the record that drives schema inference.
func (d *Dataset) First() (Record, bool) {
	if d == nil || len(d.Records) == 0 {
		return Record{}, false
	}
	return d.Records[0], true
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
