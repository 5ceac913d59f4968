package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetAlgebraIdentities(t *testing.T) {
	a := NewSet()
	for _, m := range []string{"1", "2", "3"} {
		a.Add(m)
	}
	b := NewSet()
	for _, m := range []string{"2", "3", "4"} {
		b.Add(m)
	}

	diff := setDiff([]*Set{a, b})
	inter := setInter([]*Set{a, b})
	union := setUnion([]*Set{a, b})

	require.ElementsMatch(t, []string{"1"}, diff)
	require.ElementsMatch(t, []string{"2", "3"}, inter)
	require.ElementsMatch(t, []string{"1", "2", "3", "4"}, union)

	// SDIFF(A,B) ∪ SINTER(A,B) = A
	combined := append(append([]string{}, diff...), inter...)
	require.ElementsMatch(t, a.Members(), combined)
}

func TestSetAddRemoveMembership(t *testing.T) {
	s := NewSet()
	require.True(t, s.Add("a"))
	require.False(t, s.Add("a"))
	require.True(t, s.IsMember("a"))
	require.True(t, s.Remove("a"))
	require.False(t, s.IsMember("a"))
}

func TestSetPopBounded(t *testing.T) {
	s := NewSet()
	s.Add("a")
	s.Add("b")
	s.Add("c")

	popped := s.Pop(2)
	require.Len(t, popped, 2)
	require.Equal(t, 1, s.Card())
}
