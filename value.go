package main

// Variant identifies the tagged-union shape of a keyspace Entry. A key
// maps to exactly one variant; operations against the wrong variant fail
// with a CmdError instead of coercing.
type Variant uint8

const (
	VariantScalar Variant = iota
	VariantHash
	VariantList
	VariantSet
)

func (v Variant) String() string {
	switch v {
	case VariantScalar:
		return "scalar"
	case VariantHash:
		return "hash"
	case VariantList:
		return "list"
	case VariantSet:
		return "set"
	default:
		return "unknown"
	}
}

// Entry is one keyspace slot. Exactly one of Scalar/Hash/List/Set is
// populated, selected by Variant.
type Entry struct {
	Variant Variant
	Scalar  []byte
	Hash    *Hash
	List    *List
	Set     *Set
}

func newEmptyEntry(variant Variant) *Entry {
	switch variant {
	case VariantHash:
		return &Entry{Variant: VariantHash, Hash: NewHash()}
	case VariantList:
		return &Entry{Variant: VariantList, List: NewList()}
	case VariantSet:
		return &Entry{Variant: VariantSet, Set: NewSet()}
	default:
		return &Entry{Variant: VariantScalar, Scalar: []byte{}}
	}
}
