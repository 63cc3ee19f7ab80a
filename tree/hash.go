package tree

import (
	"encoding/binary"
	"hash/maphash"
)

var seed = maphash.MakeSeed()

// Hash returns a 64-bit hash of the value of n, consistent with Equal.
// It panics if n is nil.
func (n *Node) Hash() uint64 {
	if n == nil {
		panic("tree: Hash called on nil node")
	}
	var h maphash.Hash
	h.SetSeed(seed)
	n.hashTo(&h)
	return h.Sum64()
}

func (n *Node) hashTo(h *maphash.Hash) {
	var b [8]byte
	h.WriteByte(byte(n.Type))
	switch n.Type {
	case BoolType:
		if n.Bool {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}
	case IntType:
		binary.LittleEndian.PutUint64(b[:], uint64(n.Int))
		h.Write(b[:])
	case StringType, PathType, ErrorType:
		h.WriteString(n.String)
	case EnumType:
		h.WriteString(enumName(n))
		h.WriteByte(0)
		h.WriteString(n.String)
	case ReferenceType:
		hashPath(h, n.Ref)
		h.WriteString(transformName(n.Transform))
	case InterpolationType:
		for _, p := range n.Parts {
			h.WriteString(p.Text)
			h.WriteByte(0)
			hashPath(h, p.Ref)
			h.WriteString(transformName(p.Transform))
		}
	case ListType:
		binary.LittleEndian.PutUint64(b[:], uint64(len(n.Values)))
		h.Write(b[:])
		for _, v := range n.Values {
			v.hashTo(h)
		}
	case MappingType:
		binary.LittleEndian.PutUint64(b[:], uint64(len(n.Fields)))
		h.Write(b[:])
		for i := range n.Fields {
			h.WriteString(n.Fields[i].Key)
			h.WriteByte(0)
			n.Fields[i].Value.hashTo(h)
		}
	}
}

func hashPath(h *maphash.Hash, p Path) {
	for _, seg := range p {
		h.WriteString(seg)
		h.WriteByte('.')
	}
	h.WriteByte(0)
}
