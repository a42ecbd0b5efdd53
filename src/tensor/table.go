package tensor

// Table maps tensor names to records and remembers the order in which names
// were first seen. Replacing a record keeps its original position.
type Table struct {
	records []Record
	index   map[string]int
}

func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

func (t *Table) put(r Record) {
	if i, ok := t.index[r.Name]; ok {
		t.records[i] = r
		return
	}
	t.index[r.Name] = len(t.records)
	t.records = append(t.records, r)
}

func (t *Table) has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Lookup returns the record for name.
func (t *Table) Lookup(name string) (Record, bool) {
	i, ok := t.index[name]
	if !ok {
		return Record{}, false
	}
	return t.records[i], true
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns a copy of all records in first-seen order.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Names returns the tensor names in first-seen order.
func (t *Table) Names() []string {
	names := make([]string, len(t.records))
	for i, r := range t.records {
		names[i] = r.Name
	}
	return names
}
