package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Wire tags. Every frame begins with exactly one of these.
const (
	tagSimpleString byte = '+'
	tagError        byte = '-'
	tagInteger      byte = ':'
	tagBulk         byte = '$'
	tagUnicode      byte = '^'
	tagJSON         byte = '@'
	tagArray        byte = '*'
	tagMap          byte = '%'
	tagSet          byte = '&'
)

const timestampLayout = "2006-01-02 15:04:05"
const timestampLayoutFrac = "2006-01-02 15:04:05.999999"

// ReplyError is the decoded/encoded form of a '-' error frame. It is
// distinct from CmdError: CmdError is raised by handlers and written as a
// '-' frame by the connection loop; decoding that frame yields a
// ReplyError.
type ReplyError struct {
	Message string
}

func (e *ReplyError) Error() string { return e.Message }

// FrameSet is the decoded representation of a '&' frame: membership only,
// order unspecified.
type FrameSet map[string]struct{}

func newFrameSet(members ...string) FrameSet {
	s := make(FrameSet, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// UnknownFrame is returned when the leading tag is not recognized: the
// codec is not fatal on unrecognized tags, it hands the raw line
// (including the tag byte) to the caller.
type UnknownFrame struct {
	Raw []byte
}

// Codec reads and writes frames over a buffered connection.
type Codec struct {
	pool *BytePool
}

func NewCodec(pool *BytePool) *Codec {
	return &Codec{pool: pool}
}

// Decode reads exactly one frame, recursively, from r. It returns
// EndOfStream if no byte is available before the next frame begins.
func (c *Codec) Decode(r *bufio.Reader) (interface{}, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, EndOfStream{}
	}

	switch tag {
	case tagSimpleString:
		line, err := readLine(r)
		if err != nil {
			return nil, err
		}
		return string(line), nil

	case tagError:
		line, err := readLine(r)
		if err != nil {
			return nil, err
		}
		return &ReplyError{Message: string(line)}, nil

	case tagInteger:
		line, err := readLine(r)
		if err != nil {
			return nil, err
		}
		if strings.ContainsRune(string(line), '.') {
			f, err := strconv.ParseFloat(string(line), 64)
			if err != nil {
				return nil, fmt.Errorf("malformed number frame: %w", err)
			}
			return f, nil
		}
		n, err := strconv.ParseInt(string(line), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed number frame: %w", err)
		}
		return n, nil

	case tagBulk:
		return c.decodeBulk(r)

	case tagUnicode:
		b, err := c.decodeBulk(r)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, nil
		}
		return string(b.([]byte)), nil

	case tagJSON:
		b, err := c.decodeBulk(r)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, nil
		}
		var v interface{}
		if err := json.Unmarshal(b.([]byte), &v); err != nil {
			return nil, fmt.Errorf("malformed json frame: %w", err)
		}
		return v, nil

	case tagArray:
		n, err := readCount(r)
		if err != nil {
			return nil, err
		}
		items := make([]interface{}, n)
		for i := 0; i < n; i++ {
			v, err := c.Decode(r)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return items, nil

	case tagMap:
		n, err := readCount(r)
		if err != nil {
			return nil, err
		}
		result := make(map[string]interface{}, n)
		for i := 0; i < n; i++ {
			k, err := c.Decode(r)
			if err != nil {
				return nil, err
			}
			v, err := c.Decode(r)
			if err != nil {
				return nil, err
			}
			result[frameKeyString(k)] = v
		}
		return result, nil

	case tagSet:
		n, err := readCount(r)
		if err != nil {
			return nil, err
		}
		result := make(FrameSet, n)
		for i := 0; i < n; i++ {
			v, err := c.Decode(r)
			if err != nil {
				return nil, err
			}
			result[frameKeyString(v)] = struct{}{}
		}
		return result, nil

	default:
		// Unrecognized leading tag: not fatal. Return the raw bytes of
		// the line, tag included, for the caller to inspect or reject.
		line, err := readLine(r)
		if err != nil {
			return nil, err
		}
		raw := append([]byte{tag}, line...)
		return UnknownFrame{Raw: raw}, nil
	}
}

func (c *Codec) decodeBulk(r *bufio.Reader) (interface{}, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	length, err := strconv.Atoi(string(line))
	if err != nil {
		return nil, fmt.Errorf("malformed length frame: %w", err)
	}
	if length == -1 {
		return nil, nil
	}

	buf := make([]byte, length+2)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, EndOfStream{}
	}
	return buf[:length], nil
}

func frameKeyString(v interface{}) string {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return nil, EndOfStream{}
	}
	return trimCRLF(line), nil
}

func trimCRLF(b []byte) []byte {
	n := len(b)
	if n >= 2 && b[n-2] == '\r' && b[n-1] == '\n' {
		return b[:n-2]
	}
	if n >= 1 && b[n-1] == '\n' {
		return b[:n-1]
	}
	return b
}

func readCount(r *bufio.Reader) (int, error) {
	line, err := readLine(r)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(string(line))
	if err != nil {
		return 0, fmt.Errorf("malformed count frame: %w", err)
	}
	return n, nil
}

// Encode writes v to w following the encoding precedence in the protocol
// spec. The entire response is buffered and flushed once.
func (c *Codec) Encode(w *bufio.Writer, v interface{}) error {
	c.encode(w, v)
	return w.Flush()
}

func (c *Codec) encode(w *bufio.Writer, v interface{}) {
	switch val := v.(type) {
	case []byte:
		fmt.Fprintf(w, "$%d\r\n", len(val))
		w.Write(val)
		w.Write(crlf)

	case string:
		fmt.Fprintf(w, "^%d\r\n%s\r\n", len(val), val)

	case bool:
		if val {
			w.WriteString(":1\r\n")
		} else {
			w.WriteString(":0\r\n")
		}

	case int:
		c.writeIntFrame(w, int64(val))
	case int64:
		c.writeIntFrame(w, val)
	case uint64:
		c.writeIntFrame(w, int64(val))
	case float64:
		fmt.Fprintf(w, ":%s\r\n", formatFloatFrame(val))

	case *CmdError:
		fmt.Fprintf(w, "-%s\r\n", val.Message)
	case *ReplyError:
		fmt.Fprintf(w, "-%s\r\n", val.Message)

	case nil:
		w.WriteString("$-1\r\n")

	case time.Time:
		c.encode(w, formatTimestamp(val))

	case FrameSet:
		fmt.Fprintf(w, "&%d\r\n", len(val))
		for member := range val {
			c.encode(w, []byte(member))
		}

	case map[string]interface{}:
		fmt.Fprintf(w, "%%%d\r\n", len(val))
		for k, item := range val {
			c.encode(w, []byte(k))
			c.encode(w, item)
		}
	case map[string][]byte:
		fmt.Fprintf(w, "%%%d\r\n", len(val))
		for k, item := range val {
			c.encode(w, []byte(k))
			c.encode(w, item)
		}

	case []interface{}:
		fmt.Fprintf(w, "*%d\r\n", len(val))
		for _, item := range val {
			c.encode(w, item)
		}
	case [][]byte:
		fmt.Fprintf(w, "*%d\r\n", len(val))
		for _, item := range val {
			c.encode(w, item)
		}
	case []string:
		fmt.Fprintf(w, "*%d\r\n", len(val))
		for _, item := range val {
			c.encode(w, item)
		}

	default:
		c.encodeReflect(w, v)
	}
}

var crlf = []byte("\r\n")

// formatFloatFrame renders a float64 so that the decoded-on-contains-'.'
// rule in Decode's tagInteger arm round-trips it as a float even when the
// value has no fractional part (e.g. 3.0), per the §8 round-trip property.
func formatFloatFrame(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// writeIntFrame formats n into a pooled scratch buffer rather than
// allocating through fmt, mirroring the byte-pool reuse the response
// encoder relied on before it grew a recursive shape.
func (c *Codec) writeIntFrame(w *bufio.Writer, n int64) {
	scratch := c.pool.Get(0)
	scratch = strconv.AppendInt(scratch[:0], n, 10)
	w.WriteByte(tagInteger)
	w.Write(scratch)
	w.Write(crlf)
	c.pool.Put(scratch)
}

// encodeReflect falls back to reflection for slice/map shapes not listed
// as exact types above (handlers occasionally build typed slices).
func (c *Codec) encodeReflect(w *bufio.Writer, v interface{}) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		fmt.Fprintf(w, "*%d\r\n", rv.Len())
		for i := 0; i < rv.Len(); i++ {
			c.encode(w, rv.Index(i).Interface())
		}
	case reflect.Map:
		keys := rv.MapKeys()
		fmt.Fprintf(w, "%%%d\r\n", len(keys))
		for _, k := range keys {
			c.encode(w, fmt.Sprint(k.Interface()))
			c.encode(w, rv.MapIndex(k).Interface())
		}
	default:
		c.encode(w, fmt.Sprint(v))
	}
}

func formatTimestamp(t time.Time) string {
	if t.Nanosecond() == 0 {
		return t.Format(timestampLayout)
	}
	return t.Format(timestampLayoutFrac)
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(timestampLayoutFrac, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(timestampLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, newCmdError("timestamp must be formatted Y-m-d H:M:S")
}
