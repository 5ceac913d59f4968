package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListFIFOLIFO(t *testing.T) {
	l := NewList()
	l.RightPush([]byte("1"))
	l.RightPush([]byte("2"))
	l.RightPush([]byte("3"))

	v, ok := l.LeftPop()
	require.True(t, ok)
	require.Equal(t, []byte("1"), v)

	v, ok = l.RightPop()
	require.True(t, ok)
	require.Equal(t, []byte("3"), v)

	require.Equal(t, 1, l.Length())
}

func TestListRangeNegativeIndices(t *testing.T) {
	l := NewList()
	for _, v := range []string{"x", "y", "z"} {
		l.RightPush([]byte(v))
	}

	end := -1
	got := l.Range(0, &end)
	require.Equal(t, [][]byte{[]byte("x"), []byte("y"), []byte("z")}, got)

	got = l.Range(-2, nil)
	require.Equal(t, [][]byte{[]byte("y"), []byte("z")}, got)
}

func TestListTrim(t *testing.T) {
	l := NewList()
	for _, v := range []string{"a", "b", "c", "d"} {
		l.RightPush([]byte(v))
	}
	end := 2
	n := l.Trim(1, &end)
	require.Equal(t, 2, n)
	require.Equal(t, [][]byte{[]byte("b"), []byte("c")}, l.Range(0, nil))
}

func TestListSetAndIndex(t *testing.T) {
	l := NewList()
	l.RightPush([]byte("a"))
	l.RightPush([]byte("b"))

	require.True(t, l.Set(1, []byte("z")))
	v, ok := l.Index(1)
	require.True(t, ok)
	require.Equal(t, []byte("z"), v)

	require.False(t, l.Set(5, []byte("x")))
}

func TestListRemoveFirstMatch(t *testing.T) {
	l := NewList()
	l.RightPush([]byte("a"))
	l.RightPush([]byte("b"))
	l.RightPush([]byte("a"))

	require.True(t, l.Remove([]byte("a")))
	require.Equal(t, 2, l.Length())
	got := l.Range(0, nil)
	require.Equal(t, [][]byte{[]byte("b"), []byte("a")}, got)
}
