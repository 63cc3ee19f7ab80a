package schema

// Entry is one value of an Enum. Name identifies the entry in code,
// SchemaValue is its canonical serialized form.
type Entry struct {
	Name        string
	SchemaValue string
}

// Enum is a declared enumeration. Constants maps entry names to Go
// constants for enums which are built in.
type Enum struct {
	Name      string
	Entries   []Entry
	Constants map[string]any
}

func NewEnum(name string, entries ...Entry) *Enum {
	return &Enum{Name: name, Entries: entries}
}

func (e *Enum) Entry(name string) (Entry, bool) {
	for _, ent := range e.Entries {
		if ent.Name == name {
			return ent, true
		}
	}
	return Entry{}, false
}

// BySchemaValue finds the entry serialized as v.
func (e *Enum) BySchemaValue(v string) (Entry, bool) {
	for _, ent := range e.Entries {
		if ent.SchemaValue == v {
			return ent, true
		}
	}
	return Entry{}, false
}

func (e *Enum) Constant(name string) (any, bool) {
	if e.Constants == nil {
		return nil, false
	}
	c, ok := e.Constants[name]
	return c, ok
}

func (e *Enum) SchemaValues() []string {
	res := make([]string, len(e.Entries))
	for i := range e.Entries {
		res[i] = e.Entries[i].SchemaValue
	}
	return res
}
