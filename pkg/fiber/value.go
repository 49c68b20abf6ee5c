package fiber

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Value is a runtime value captured from the inspected page. It is a closed
// set of variants; consumers switch on the concrete type.
//
// *Array and *Object are reference types: the same pointer may appear at
// several places in a graph, including inside itself.
type Value interface {
	value()
}

type (
	// Undefined is the JavaScript undefined value.
	Undefined struct{}

	// Null is the JavaScript null value.
	Null struct{}

	// Bool is a boolean primitive.
	Bool bool

	// Number is a numeric primitive.
	Number float64

	// String is a string primitive.
	String string

	// Function marks a callable. Name is empty for anonymous functions.
	Function struct{ Name string }

	// ElementMarker marks a renderable element (an object tagged with the
	// runtime's element type symbol). Type is the element's type name if known.
	ElementMarker struct{ Type string }

	// NodeMarker marks a reference to an internal tree node.
	NodeMarker struct{}

	// DOMHandle marks a reference to a DOM element.
	DOMHandle struct{ Tag string }
)

func (Undefined) value()     {}
func (Null) value()          {}
func (Bool) value()          {}
func (Number) value()        {}
func (String) value()        {}
func (Function) value()      {}
func (ElementMarker) value() {}
func (NodeMarker) value()    {}
func (DOMHandle) value()     {}
func (*Array) value()        {}
func (*Object) value()       {}

// Array is an ordered list of values.
type Array struct {
	Items []Value
}

// NewArray returns an array holding items.
func NewArray(items ...Value) *Array {
	return &Array{Items: items}
}

// entry is one object slot. A non-nil err means reading the slot failed
// (for example a getter threw during capture).
type entry struct {
	value Value
	err   error
}

// Object is an insertion-ordered string-keyed mapping.
type Object struct {
	keys    []string
	entries map[string]entry
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{entries: make(map[string]entry)}
}

// Set stores v under key, appending key if new.
func (o *Object) Set(key string, v Value) {
	o.put(key, entry{value: v})
}

// SetError records that reading key fails with err.
func (o *Object) SetError(key string, err error) {
	o.put(key, entry{err: err})
}

func (o *Object) put(key string, e entry) {
	if o.entries == nil {
		o.entries = make(map[string]entry)
	}
	if _, ok := o.entries[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.entries[key] = e
}

// Keys returns keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Has reports whether key is present, even if reading it fails.
func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.entries[key]
	return ok
}

// Get reads key. Missing keys return Undefined with a nil error.
func (o *Object) Get(key string) (Value, error) {
	if o == nil {
		return Undefined{}, nil
	}
	e, ok := o.entries[key]
	if !ok {
		return Undefined{}, nil
	}
	if e.err != nil {
		return nil, e.err
	}
	if e.value == nil {
		return Undefined{}, nil
	}
	return e.value, nil
}

// Lookup reads key, treating read failures as Undefined.
func (o *Object) Lookup(key string) Value {
	v, err := o.Get(key)
	if err != nil {
		return Undefined{}
	}
	return v
}

// IsNullish reports whether v is null, undefined or a nil interface.
func IsNullish(v Value) bool {
	switch v.(type) {
	case nil, Null, Undefined:
		return true
	}
	return false
}

// AsObject returns v as an object when it is one.
func AsObject(v Value) (*Object, bool) {
	o, ok := v.(*Object)
	return o, ok && o != nil
}

// Equal reports deep equality of two acyclic values.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, k := range x.Keys() {
			xv, xerr := x.Get(k)
			yv, yerr := y.Get(k)
			if (xerr == nil) != (yerr == nil) {
				return false
			}
			if xerr != nil {
				if xerr.Error() != yerr.Error() {
					return false
				}
				continue
			}
			if !y.Has(k) || !Equal(xv, yv) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	default:
		return a == b
	}
}

// MarshalJSON encodes the array. Non-JSON variants are encoded by
// encodeValue; callers normally sanitize first.
func (a *Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, a); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON encodes the object with keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeValue writes v as JSON. It does not guard against cycles.
func encodeValue(buf *bytes.Buffer, v Value) error {
	switch x := v.(type) {
	case nil, Null, Undefined:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(x)))
	case Number:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
	case String:
		b, err := json.Marshal(string(x))
		if err != nil {
			return err
		}
		buf.Write(b)
	case Function:
		return encodeValue(buf, String("[Function: "+x.Name+"]"))
	case ElementMarker, NodeMarker, DOMHandle:
		buf.WriteString("null")
	case *Array:
		buf.WriteByte('[')
		for i, item := range x.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Object:
		buf.WriteByte('{')
		for i, k := range x.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			item, err := x.Get(k)
			if err != nil {
				item = Null{}
			}
			if err := encodeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// FromGo converts plain Go data (as produced by encoding/json or written in
// tests) into a Value. Map keys are taken in the order given by keys when the
// map is an OrderedMap; plain maps are not supported because their order is
// undefined.
func FromGo(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null{}
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Number(x)
	case int64:
		return Number(x)
	case float64:
		return Number(x)
	case string:
		return String(x)
	case []any:
		arr := &Array{Items: make([]Value, len(x))}
		for i, item := range x {
			arr.Items[i] = FromGo(item)
		}
		return arr
	case OrderedMap:
		obj := NewObject()
		for i := 0; i+1 < len(x); i += 2 {
			key, _ := x[i].(string)
			obj.Set(key, FromGo(x[i+1]))
		}
		return obj
	}
	return Undefined{}
}

// OrderedMap is an alternating key/value list used with FromGo to build
// objects with a fixed key order.
type OrderedMap []any

// MarshalJSON encodes undefined as null.
func (Undefined) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalJSON encodes null.
func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalJSON encodes the function as its placeholder text.
func (f Function) MarshalJSON() ([]byte, error) {
	return json.Marshal("[Function: " + f.Name + "]")
}

// MarshalJSON encodes markers as null.
func (ElementMarker) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalJSON encodes markers as null.
func (NodeMarker) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalJSON encodes DOM handles as null.
func (DOMHandle) MarshalJSON() ([]byte, error) { return []byte("null"), nil }
