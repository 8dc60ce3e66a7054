/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package core implements the document access stack: the atomic PDF object
// model, the tolerant lexer, cross-reference resolution, the stream filter
// pipeline, and the lazy object loader/cache described in ISO 32000-1:2008.
package core

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Object is the interface implemented by every primitive PDF object variant:
// Null, Bool, Int, Real, Name, String, Array, Dictionary, Stream, Reference.
type Object interface {
	// String returns a debug representation of the object.
	String() string
}

// Bool is the PDF boolean object.
type Bool bool

// Integer is the PDF integer numeric object, a signed 64-bit value.
type Integer int64

// Real is the PDF real numeric object.
type Real float64

// String is the PDF string object. Bytes are preserved verbatim after escape
// decoding; no charset is assumed at this layer.
type String struct {
	val   string
	isHex bool
}

// Name is the PDF name object, canonical (post #xx-decoded) on construction.
type Name string

// Array is the PDF array object: an ordered sequence of Objects.
type Array struct {
	elems []Object
}

// Dictionary is the PDF dictionary object: Name -> Object, insertion order
// tracked for String/debug output but irrelevant to lookup.
type Dictionary struct {
	m    map[Name]Object
	keys []Name
}

// Null is the PDF null object.
type Null struct{}

// Reference is an indirect reference to (ObjectNumber, Generation). A
// reference of (0,0) denotes the null object.
type Reference struct {
	ObjectNumber     int64
	GenerationNumber int64
}

// Indirect wraps a direct Object together with the object number it was read
// from "N G obj ... endobj". Returned by the loader for classic objects.
type Indirect struct {
	ObjectNumber     int64
	GenerationNumber int64
	Object           Object
}

// Stream is a Dictionary plus a raw (not yet filter-decoded) byte payload,
// together with the object number/generation it was read from.
type Stream struct {
	ObjectNumber     int64
	GenerationNumber int64
	*Dictionary
	Raw []byte
}

// ObjectStreams represents a decoded PDF "object streams" array kept for
// symmetry with Array; not produced by the lexer directly.
type ObjectStreams struct {
	elems []Object
}

// --- constructors ---

// MakeDict returns an empty Dictionary.
func MakeDict() *Dictionary {
	return &Dictionary{m: map[Name]Object{}}
}

// MakeName returns a Name.
func MakeName(s string) *Name {
	n := Name(s)
	return &n
}

// MakeInteger returns an Integer.
func MakeInteger(v int64) *Integer {
	i := Integer(v)
	return &i
}

// MakeBool returns a Bool.
func MakeBool(v bool) *Bool {
	b := Bool(v)
	return &b
}

// MakeArray returns an Array containing objs.
func MakeArray(objs ...Object) *Array {
	return &Array{elems: append([]Object{}, objs...)}
}

// MakeFloat returns a Real.
func MakeFloat(v float64) *Real {
	f := Real(v)
	return &f
}

// MakeString returns a String from raw bytes held as a Go string (not
// necessarily valid UTF-8; PDF strings are byte sequences).
func MakeString(s string) *String {
	return &String{val: s}
}

// MakeStringFromBytes is a convenience wrapper over MakeString.
func MakeStringFromBytes(b []byte) *String {
	return MakeString(string(b))
}

// MakeHexString returns a String flagged for hex-string WriteString output.
func MakeHexString(s string) *String {
	return &String{val: s, isHex: true}
}

// MakeNull returns a Null.
func MakeNull() *Null {
	return &Null{}
}

// MakeReference returns a Reference.
func MakeReference(num, gen int64) *Reference {
	return &Reference{ObjectNumber: num, GenerationNumber: gen}
}

// --- Bool ---

func (b *Bool) String() string {
	if *b {
		return "true"
	}
	return "false"
}

// --- Integer / Real ---

func (i *Integer) String() string { return strconv.FormatInt(int64(*i), 10) }
func (f *Real) String() string    { return strconv.FormatFloat(float64(*f), 'f', -1, 64) }

// --- String ---

// Str returns the raw byte content of the string as a Go string.
func (s *String) Str() string {
	if s == nil {
		return ""
	}
	return s.val
}

// Bytes returns the raw byte content of the string.
func (s *String) Bytes() []byte {
	if s == nil {
		return nil
	}
	return []byte(s.val)
}

// IsHex reports whether the string was lexed from a hex-string literal.
func (s *String) IsHex() bool { return s != nil && s.isHex }

func (s *String) String() string { return s.Str() }

func (s *String) WriteString() string {
	if s.isHex {
		return "<" + hex.EncodeToString(s.Bytes()) + ">"
	}
	var b strings.Builder
	b.WriteByte('(')
	for i := 0; i < len(s.val); i++ {
		c := s.val[i]
		switch c {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '(', ')', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(')')
	return b.String()
}

// --- Name ---

func (n *Name) String() string { return string(*n) }

// --- Array ---

// Len returns the number of elements.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.elems)
}

// Get returns the i-th element, or nil if out of range.
func (a *Array) Get(i int) Object {
	if a == nil || i < 0 || i >= len(a.elems) {
		return nil
	}
	return a.elems[i]
}

// Elements returns the underlying element slice.
func (a *Array) Elements() []Object {
	if a == nil {
		return nil
	}
	return a.elems
}

// Append appends objects to the array.
func (a *Array) Append(objs ...Object) {
	a.elems = append(a.elems, objs...)
}

func (a *Array) String() string {
	parts := make([]string, a.Len())
	for i, o := range a.Elements() {
		parts[i] = o.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ToFloat64Slice converts every element (Integer or Real) to float64.
func (a *Array) ToFloat64Slice() ([]float64, error) {
	out := make([]float64, 0, a.Len())
	for _, o := range a.Elements() {
		v, err := ToFloat(o)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ToIntSlice converts every element (must be Integer) to int.
func (a *Array) ToIntSlice() ([]int, error) {
	out := make([]int, 0, a.Len())
	for _, o := range a.Elements() {
		n, ok := o.(*Integer)
		if !ok {
			return nil, ErrTypeError
		}
		out = append(out, int(*n))
	}
	return out, nil
}

// --- Dictionary ---

// Set sets key -> val, preserving first-insertion key order.
func (d *Dictionary) Set(key Name, val Object) {
	if d.m == nil {
		d.m = map[Name]Object{}
	}
	if _, ok := d.m[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.m[key] = val
}

// Get returns the value for key, or nil.
func (d *Dictionary) Get(key Name) Object {
	if d == nil {
		return nil
	}
	return d.m[key]
}

// Keys returns the dictionary's keys in insertion order.
func (d *Dictionary) Keys() []Name {
	if d == nil {
		return nil
	}
	return d.keys
}

func (d *Dictionary) String() string {
	var b strings.Builder
	b.WriteString("<<")
	for _, k := range d.keys {
		fmt.Fprintf(&b, " /%s %s", string(k), d.m[k].String())
	}
	b.WriteString(" >>")
	return b.String()
}

// --- Null ---

func (n *Null) String() string { return "null" }

// --- Reference ---

func (r *Reference) String() string {
	return fmt.Sprintf("%d %d R", r.ObjectNumber, r.GenerationNumber)
}

// IsNullRef reports whether r denotes the null object, i.e. (0,0).
func (r *Reference) IsNullRef() bool {
	return r.ObjectNumber == 0 && r.GenerationNumber == 0
}

// --- Indirect ---

func (i *Indirect) String() string {
	return fmt.Sprintf("%d %d obj %s", i.ObjectNumber, i.GenerationNumber, i.Object)
}

// --- Stream ---

func (s *Stream) String() string {
	return fmt.Sprintf("stream %d %d (%d bytes)", s.ObjectNumber, s.GenerationNumber, len(s.Raw))
}

// --- ObjectStreams ---

func (s *ObjectStreams) String() string { return fmt.Sprintf("objstreams(%d)", len(s.elems)) }

// --- conversions & accessors ---

// traceMaxDepth bounds indirect-chasing in Resolve helpers below; actual
// reference resolution against a document's object cache happens in
// Document.Load (document.go) - these helpers only unwrap Indirect.
const traceMaxDepth = 16

// Direct unwraps an *Indirect down to its innermost direct Object. It does
// NOT resolve Reference objects - that requires a Document (see
// Document.Load). It is used by the Get* helpers below on objects that
// have already been resolved by the loader.
func Direct(obj Object) Object {
	depth := 0
	for {
		ind, ok := obj.(*Indirect)
		if !ok {
			return obj
		}
		obj = ind.Object
		depth++
		if depth > traceMaxDepth {
			return nil
		}
	}
}

// GetBool returns the Bool value within obj, if any.
func GetBool(obj Object) (val bool, ok bool) {
	b, ok := Direct(obj).(*Bool)
	if !ok {
		return false, false
	}
	return bool(*b), true
}

// GetInt returns the int value within obj, accepting Integer only.
func GetInt(obj Object) (val int, ok bool) {
	n, ok := Direct(obj).(*Integer)
	if !ok {
		return 0, false
	}
	return int(*n), true
}

// GetNumberAsFloat returns obj's numeric value, accepting Integer or Real.
func GetNumberAsFloat(obj Object) (float64, error) {
	return ToFloat(Direct(obj))
}

// ToFloat converts an Integer or Real object to float64.
func ToFloat(obj Object) (float64, error) {
	switch t := obj.(type) {
	case *Real:
		return float64(*t), nil
	case *Integer:
		return float64(*t), nil
	}
	return 0, ErrNotANumber
}

// GetFloatVal is a found-flag variant of GetNumberAsFloat.
func GetFloatVal(obj Object) (float64, bool) {
	v, err := ToFloat(Direct(obj))
	return v, err == nil
}

// GetStringVal returns the raw bytes-as-string content of a String object.
func GetStringVal(obj Object) (string, bool) {
	s, ok := Direct(obj).(*String)
	if !ok {
		return "", false
	}
	return s.Str(), true
}

// GetNameVal returns the decoded name content of a Name object.
func GetNameVal(obj Object) (string, bool) {
	n, ok := Direct(obj).(*Name)
	if !ok {
		return "", false
	}
	return string(*n), true
}

// GetArray returns obj as *Array, if it is one.
func GetArray(obj Object) (*Array, bool) {
	a, ok := Direct(obj).(*Array)
	return a, ok
}

// GetDict returns obj as *Dictionary, if it is one, or the dictionary
// embedded in a Stream.
func GetDict(obj Object) (*Dictionary, bool) {
	switch t := Direct(obj).(type) {
	case *Dictionary:
		return t, true
	case *Stream:
		return t.Dictionary, true
	}
	return nil, false
}

// GetStream returns obj as *Stream, if it is one.
func GetStream(obj Object) (*Stream, bool) {
	s, ok := Direct(obj).(*Stream)
	return s, ok
}

// IsNull reports whether obj is a Null object (after unwrapping Indirect).
func IsNull(obj Object) bool {
	if obj == nil {
		return true
	}
	_, ok := Direct(obj).(*Null)
	return ok
}

var (
	// ErrTypeError is returned when an Object has an unexpected concrete type.
	ErrTypeError = errors.New("pdftext/core: type error")
	// ErrNotANumber is returned by numeric coercion helpers.
	ErrNotANumber = errors.New("pdftext/core: not a number")
	// ErrNotSupported marks a feature that this core deliberately does not implement.
	ErrNotSupported = errors.New("pdftext/core: not supported")
)
