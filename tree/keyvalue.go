package tree

import (
	"github.com/signadot/ctree/contexts"
	"github.com/signadot/ctree/schema"
)

// KeyValue is one entry of a mapping. The contexts of an entry are the
// contexts of its value.
type KeyValue struct {
	Key      string
	KeyTrace Trace
	Value    *Node
	// Property is the declaration of the entry in a typed mapping, nil in
	// free form maps.
	Property *schema.Property
}

// KV creates an entry whose key trace is the value's trace.
func KV(key string, v *Node) KeyValue {
	return KeyValue{Key: key, KeyTrace: v.Trace, Value: v}
}

func (kv KeyValue) Contexts() contexts.Set {
	return kv.Value.Contexts
}

func (kv KeyValue) WithValue(v *Node) KeyValue {
	kv.Value = v
	return kv
}
