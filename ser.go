package mascot

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
)

// The project wire format is little-endian binary. Strings are a u32 byte
// length followed by UTF-8 bytes. Both ends use sticky-error streams so node
// payload code can read and write fields without per-field error checks; the
// first failure wins and every later call is a no-op.

// maxStringLen bounds a decoded string length so a corrupt length prefix
// fails fast instead of allocating gigabytes.
const maxStringLen = 1 << 20

// Encoder writes wire-format primitives to an io.Writer.
type Encoder struct {
	w   io.Writer
	buf [8]byte
	err error
}

// NewEncoder creates an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Err returns the first write error, or nil.
func (e *Encoder) Err() error {
	return e.err
}

func (e *Encoder) write(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

// U32 writes an unsigned 32-bit integer.
func (e *Encoder) U32(v uint32) {
	binary.LittleEndian.PutUint32(e.buf[:4], v)
	e.write(e.buf[:4])
}

// I32 writes a signed 32-bit integer.
func (e *Encoder) I32(v int32) {
	e.U32(uint32(v))
}

// F64 writes a 64-bit float.
func (e *Encoder) F64(v float64) {
	binary.LittleEndian.PutUint64(e.buf[:8], math.Float64bits(v))
	e.write(e.buf[:8])
}

// Bool writes a bool as a single byte.
func (e *Encoder) Bool(v bool) {
	e.buf[0] = 0
	if v {
		e.buf[0] = 1
	}
	e.write(e.buf[:1])
}

// String writes a length-prefixed string.
func (e *Encoder) String(s string) {
	e.U32(uint32(len(s)))
	e.write([]byte(s))
}

// Strings writes a length-prefixed string slice.
func (e *Encoder) Strings(v []string) {
	e.U32(uint32(len(v)))
	for _, s := range v {
		e.String(s)
	}
}

// StringMap writes a string map with keys in sorted order, so identical maps
// always produce identical bytes.
func (e *Encoder) StringMap(m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e.U32(uint32(len(keys)))
	for _, k := range keys {
		e.String(k)
		e.String(m[k])
	}
}

// Decoder reads wire-format primitives from an io.Reader.
type Decoder struct {
	r   io.Reader
	buf [8]byte
	err error
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Err returns the first read error, or nil.
func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) read(b []byte) bool {
	if d.err != nil {
		return false
	}
	if _, err := io.ReadFull(d.r, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		d.err = err
		return false
	}
	return true
}

// U32 reads an unsigned 32-bit integer.
func (d *Decoder) U32() uint32 {
	if !d.read(d.buf[:4]) {
		return 0
	}
	return binary.LittleEndian.Uint32(d.buf[:4])
}

// I32 reads a signed 32-bit integer.
func (d *Decoder) I32() int32 {
	return int32(d.U32())
}

// F64 reads a 64-bit float.
func (d *Decoder) F64() float64 {
	if !d.read(d.buf[:8]) {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(d.buf[:8]))
}

// Bool reads a single-byte bool.
func (d *Decoder) Bool() bool {
	if !d.read(d.buf[:1]) {
		return false
	}
	return d.buf[0] != 0
}

// String reads a length-prefixed string.
func (d *Decoder) String() string {
	n := d.U32()
	if d.err != nil {
		return ""
	}
	if n > maxStringLen {
		d.err = fmt.Errorf("mascot: string length %d exceeds limit", n)
		return ""
	}
	b := make([]byte, n)
	if !d.read(b) {
		return ""
	}
	return string(b)
}

// Strings reads a length-prefixed string slice.
func (d *Decoder) Strings() []string {
	n := d.U32()
	if d.err != nil {
		return nil
	}
	if n > maxStringLen {
		d.err = fmt.Errorf("mascot: slice length %d exceeds limit", n)
		return nil
	}
	v := make([]string, 0, n)
	for i := uint32(0); i < n && d.err == nil; i++ {
		v = append(v, d.String())
	}
	return v
}

// StringMap reads a string map.
func (d *Decoder) StringMap() map[string]string {
	n := d.U32()
	if d.err != nil {
		return nil
	}
	if n > maxStringLen {
		d.err = fmt.Errorf("mascot: map length %d exceeds limit", n)
		return nil
	}
	m := make(map[string]string, n)
	for i := uint32(0); i < n && d.err == nil; i++ {
		k := d.String()
		m[k] = d.String()
	}
	return m
}
