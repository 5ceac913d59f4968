package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRequireVariantCreatesOnMissing(t *testing.T) {
	k := NewKeyspace()
	entry, err := k.requireVariant("mylist", VariantList, true)
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, VariantList, entry.Variant)
	require.Equal(t, 0, entry.List.Length())
}

func TestRequireVariantReadOnlyDoesNotCreate(t *testing.T) {
	k := NewKeyspace()
	entry, err := k.requireVariant("missing", VariantHash, false)
	require.NoError(t, err)
	require.Nil(t, entry)
	require.False(t, k.Exists("missing", time.Now()))
}

func TestRequireVariantWrongTypeErrors(t *testing.T) {
	k := NewKeyspace()
	k.set("k", &Entry{Variant: VariantScalar, Scalar: []byte("v")})

	_, err := k.requireVariant("k", VariantList, true)
	require.Error(t, err)
	require.Contains(t, err.Error(), "wrong key type")

	// state unchanged
	entry, ok := k.get("k")
	require.True(t, ok)
	require.Equal(t, VariantScalar, entry.Variant)
}

func TestLazyExpiry(t *testing.T) {
	k := NewKeyspace()
	k.set("k", &Entry{Variant: VariantScalar, Scalar: []byte("v")})
	k.expireAt("k", time.Now().Add(-time.Millisecond))

	require.False(t, k.Exists("k", time.Now()))
	_, ok := k.get("k")
	require.False(t, ok)
}

func TestUnexpireOnOverwrite(t *testing.T) {
	k := NewKeyspace()
	k.set("k", &Entry{Variant: VariantScalar, Scalar: []byte("v1")})
	k.expireAt("k", time.Now().Add(-time.Millisecond))

	// a fresh write must unexpire
	k.set("k", &Entry{Variant: VariantScalar, Scalar: []byte("v2")})

	entry, ok := k.get("k")
	require.True(t, ok)
	require.Equal(t, []byte("v2"), entry.Scalar)
	_, hasTTL := k.ttl("k")
	require.False(t, hasTTL)
}

func TestKeysMatching(t *testing.T) {
	k := NewKeyspace()
	k.set("foo", &Entry{Variant: VariantScalar, Scalar: []byte("1")})
	k.set("foobar", &Entry{Variant: VariantScalar, Scalar: []byte("2")})
	k.set("baz", &Entry{Variant: VariantScalar, Scalar: []byte("3")})

	matched := k.keysMatching("foo*")
	require.ElementsMatch(t, []string{"foo", "foobar"}, matched)
}

func TestMatchPattern(t *testing.T) {
	require.True(t, matchPattern("*", "anything"))
	require.True(t, matchPattern("f?o", "foo"))
	require.False(t, matchPattern("f?o", "fooo"))
	require.True(t, matchPattern("a*c", "abbbc"))
}
