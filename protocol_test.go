package main

import (
	"bufio"
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, v interface{}) interface{} {
	t.Helper()
	codec := NewCodec(NewBytePool())
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	require.NoError(t, codec.Encode(w, v))

	decoded, err := codec.Decode(bufio.NewReader(&buf))
	require.NoError(t, err)
	return decoded
}

func TestCodecRoundTrip(t *testing.T) {
	t.Run("bulk bytes", func(t *testing.T) {
		require.Equal(t, []byte("hello"), roundTrip(t, []byte("hello")))
	})

	t.Run("unicode string", func(t *testing.T) {
		require.Equal(t, "hello", roundTrip(t, "hello"))
	})

	t.Run("integer", func(t *testing.T) {
		require.Equal(t, int64(42), roundTrip(t, int64(42)))
	})

	t.Run("float", func(t *testing.T) {
		require.Equal(t, 3.5, roundTrip(t, 3.5))
	})

	t.Run("integral float stays a float", func(t *testing.T) {
		result := roundTrip(t, 3.0)
		f, ok := result.(float64)
		require.True(t, ok, "expected float64, got %T", result)
		require.Equal(t, 3.0, f)
	})

	t.Run("null", func(t *testing.T) {
		require.Nil(t, roundTrip(t, nil))
	})

	t.Run("error", func(t *testing.T) {
		result := roundTrip(t, &CmdError{Message: "boom"})
		replyErr, ok := result.(*ReplyError)
		require.True(t, ok)
		require.Equal(t, "boom", replyErr.Message)
	})

	t.Run("array", func(t *testing.T) {
		result := roundTrip(t, []interface{}{[]byte("a"), int64(1), []byte("b")})
		require.Equal(t, []interface{}{[]byte("a"), int64(1), []byte("b")}, result)
	})

	t.Run("nested array", func(t *testing.T) {
		nested := []interface{}{
			[]interface{}{[]byte("x"), []byte("y")},
			int64(7),
		}
		require.Equal(t, nested, roundTrip(t, nested))
	})

	t.Run("map", func(t *testing.T) {
		result := roundTrip(t, map[string]interface{}{"a": []byte("1")})
		require.Equal(t, map[string]interface{}{"a": []byte("1")}, result)
	})

	t.Run("set", func(t *testing.T) {
		result := roundTrip(t, newFrameSet("a", "b", "c"))
		fs, ok := result.(FrameSet)
		require.True(t, ok)
		require.Len(t, fs, 3)
		require.Contains(t, fs, "a")
		require.Contains(t, fs, "b")
		require.Contains(t, fs, "c")
	})

	t.Run("timestamp", func(t *testing.T) {
		ts := time.Date(2024, 3, 14, 9, 26, 53, 0, time.Local)
		result := roundTrip(t, ts)
		require.Equal(t, "2024-03-14 09:26:53", result)
	})
}

func TestCodecRecursiveDepth(t *testing.T) {
	var value interface{} = []byte("leaf")
	for i := 0; i < 32; i++ {
		value = []interface{}{value}
	}
	result := roundTrip(t, value)

	depth := 0
	cur := result
	for {
		arr, ok := cur.([]interface{})
		if !ok {
			break
		}
		depth++
		cur = arr[0]
	}
	require.Equal(t, 32, depth)
	require.Equal(t, []byte("leaf"), cur)
}

func TestCodecUnknownTagIsNotFatal(t *testing.T) {
	codec := NewCodec(NewBytePool())
	r := bufio.NewReader(bytes.NewReader([]byte("!weird\r\n")))
	v, err := codec.Decode(r)
	require.NoError(t, err)
	unknown, ok := v.(UnknownFrame)
	require.True(t, ok)
	require.Equal(t, []byte("!weird"), unknown.Raw)
}

func TestCodecEndOfStream(t *testing.T) {
	codec := NewCodec(NewBytePool())
	r := bufio.NewReader(bytes.NewReader(nil))
	_, err := codec.Decode(r)
	var eos EndOfStream
	require.ErrorAs(t, err, &eos)
}

func TestParseTimestamp(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		ts, err := parseTimestamp("2024-01-01 00:00:00")
		require.NoError(t, err)
		require.Equal(t, 2024, ts.Year())
	})

	t.Run("fractional", func(t *testing.T) {
		_, err := parseTimestamp("2024-01-01 00:00:00.500000")
		require.NoError(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := parseTimestamp("not-a-timestamp")
		require.Error(t, err)
	})
}
