package main

import "maps"

// Hash is a field -> scalar mapping, adapted from the teacher's Hash
// (data_structures.go). See Set for the locking rationale.
type Hash struct {
	fields map[string][]byte
}

func NewHash() *Hash {
	return &Hash{fields: make(map[string][]byte)}
}

// Set returns true if field was newly inserted.
func (h *Hash) Set(field string, value []byte) bool {
	_, exists := h.fields[field]
	h.fields[field] = value
	return !exists
}

func (h *Hash) Get(field string) ([]byte, bool) {
	value, exists := h.fields[field]
	return value, exists
}

func (h *Hash) Del(field string) bool {
	_, exists := h.fields[field]
	if exists {
		delete(h.fields, field)
	}
	return exists
}

func (h *Hash) GetAll() map[string][]byte {
	result := make(map[string][]byte, len(h.fields))
	maps.Copy(result, h.fields)
	return result
}

func (h *Hash) Keys() []string {
	keys := make([]string, 0, len(h.fields))
	for k := range h.fields {
		keys = append(keys, k)
	}
	return keys
}

func (h *Hash) Values() [][]byte {
	values := make([][]byte, 0, len(h.fields))
	for _, v := range h.fields {
		values = append(values, v)
	}
	return values
}

func (h *Hash) Len() int {
	return len(h.fields)
}

func (h *Hash) Exists(field string) bool {
	_, exists := h.fields[field]
	return exists
}
