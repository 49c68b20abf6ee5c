package snapshot

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/gnana997/fibersnap/pkg/fiber"
)

// maxNesting bounds value nesting so hostile input cannot exhaust the stack.
const maxNesting = 512

// Reserved keys of the value encoding.
const (
	keyType  = "$type"
	keyID    = "$id"
	keyRef   = "$ref"
	keyItems = "$items"
)

// valueDecoder decodes tagged values for one snapshot. Identities are shared
// across the whole document, so a $ref in one node may point into another.
type valueDecoder struct {
	byID   map[int64]fiber.Value
	fixups []fixup
}

// fixup is a $ref seen before its $id.
type fixup struct {
	id  int64
	set func(fiber.Value)
}

func newValueDecoder() *valueDecoder {
	return &valueDecoder{byID: make(map[int64]fiber.Value)}
}

// decodeRaw decodes a whole raw message and hands the result to set. An
// empty message decodes as undefined.
func (d *valueDecoder) decodeRaw(raw []byte, set func(fiber.Value)) error {
	if len(strings.TrimSpace(string(raw))) == 0 {
		set(fiber.Undefined{})
		return nil
	}
	value, typ, _, err := jsonparser.Get(raw)
	if err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}
	return d.value(value, typ, 0, set)
}

// resolve patches forward references. It fails on ids never defined.
func (d *valueDecoder) resolve() error {
	var errs []error
	for _, f := range d.fixups {
		v, ok := d.byID[f.id]
		if !ok {
			errs = append(errs, fmt.Errorf("dangling %s %d", keyRef, f.id))
			continue
		}
		f.set(v)
	}
	d.fixups = nil
	return errors.Join(errs...)
}

func (d *valueDecoder) value(data []byte, typ jsonparser.ValueType, depth int, set func(fiber.Value)) error {
	if depth > maxNesting {
		return fmt.Errorf("value nested deeper than %d", maxNesting)
	}
	switch typ {
	case jsonparser.NotExist:
		set(fiber.Undefined{})
	case jsonparser.Null:
		set(fiber.Null{})
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(data)
		if err != nil {
			return err
		}
		set(fiber.Bool(b))
	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(data)
		if err != nil {
			return err
		}
		set(fiber.Number(f))
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return err
		}
		set(fiber.String(s))
	case jsonparser.Array:
		arr := &fiber.Array{}
		set(arr)
		return d.items(arr, data, depth)
	case jsonparser.Object:
		return d.object(data, depth, set)
	default:
		return fmt.Errorf("unexpected JSON value %q", truncate(data))
	}
	return nil
}

func (d *valueDecoder) items(arr *fiber.Array, data []byte, depth int) error {
	var firstErr error
	_, err := jsonparser.ArrayEach(data, func(item []byte, typ jsonparser.ValueType, _ int, err error) {
		if firstErr != nil {
			return
		}
		if err != nil {
			firstErr = err
			return
		}
		idx := len(arr.Items)
		arr.Items = append(arr.Items, fiber.Undefined{})
		if _, ok := thrownMessage(item, typ); ok {
			return
		}
		firstErr = d.value(item, typ, depth+1, func(v fiber.Value) { arr.Items[idx] = v })
	})
	if firstErr != nil {
		return firstErr
	}
	return err
}

func (d *valueDecoder) object(data []byte, depth int, set func(fiber.Value)) error {
	if ref, err := jsonparser.GetInt(data, keyRef); err == nil {
		if v, ok := d.byID[ref]; ok {
			set(v)
			return nil
		}
		set(fiber.Undefined{})
		d.fixups = append(d.fixups, fixup{id: ref, set: set})
		return nil
	}

	if kind, err := jsonparser.GetString(data, keyType); err == nil {
		v, err := special(kind, data)
		if err != nil {
			return err
		}
		set(v)
		return nil
	}

	id, idErr := jsonparser.GetInt(data, keyID)
	hasID := idErr == nil
	if hasID {
		if _, dup := d.byID[id]; dup {
			return fmt.Errorf("duplicate %s %d", keyID, id)
		}
	}

	if items, typ, _, err := jsonparser.Get(data, keyItems); err == nil && typ == jsonparser.Array {
		arr := &fiber.Array{}
		if hasID {
			d.byID[id] = arr
		}
		set(arr)
		return d.items(arr, items, depth)
	}

	obj := fiber.NewObject()
	if hasID {
		d.byID[id] = obj
	}
	set(obj)
	return jsonparser.ObjectEach(data, func(rawKey, item []byte, typ jsonparser.ValueType, _ int) error {
		key, err := jsonparser.ParseString(rawKey)
		if err != nil {
			return err
		}
		if key == keyID {
			return nil
		}
		key = unescapeKey(key)
		if msg, ok := thrownMessage(item, typ); ok {
			obj.SetError(key, errors.New(msg))
			return nil
		}
		obj.Set(key, fiber.Undefined{})
		return d.value(item, typ, depth+1, func(v fiber.Value) { obj.Set(key, v) })
	})
}

// special decodes a {"$type": ...} marker.
func special(kind string, data []byte) (fiber.Value, error) {
	switch kind {
	case "undefined":
		return fiber.Undefined{}, nil
	case "function":
		name, _ := jsonparser.GetString(data, "name")
		return fiber.Function{Name: name}, nil
	case "element":
		typ, _ := jsonparser.GetString(data, "elementType")
		return fiber.ElementMarker{Type: typ}, nil
	case "node":
		return fiber.NodeMarker{}, nil
	case "dom":
		tag, _ := jsonparser.GetString(data, "tag")
		return fiber.DOMHandle{Tag: tag}, nil
	case "number":
		s, _ := jsonparser.GetString(data, "value")
		switch s {
		case "NaN":
			return fiber.Number(math.NaN()), nil
		case "Infinity":
			return fiber.Number(math.Inf(1)), nil
		case "-Infinity":
			return fiber.Number(math.Inf(-1)), nil
		}
		return nil, fmt.Errorf("unknown special number %q", s)
	case "thrown":
		return fiber.Undefined{}, nil
	}
	return nil, fmt.Errorf("unknown %s %q", keyType, kind)
}

// thrownMessage reports whether a value is a thrown-getter marker.
func thrownMessage(data []byte, typ jsonparser.ValueType) (string, bool) {
	if typ != jsonparser.Object {
		return "", false
	}
	kind, err := jsonparser.GetString(data, keyType)
	if err != nil || kind != "thrown" {
		return "", false
	}
	msg, _ := jsonparser.GetString(data, "message")
	return msg, true
}

// unescapeKey strips the extra "$" the encoder adds to user keys.
func unescapeKey(key string) string {
	if strings.HasPrefix(key, "$$") {
		return key[1:]
	}
	return key
}

func truncate(b []byte) string {
	const max = 32
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
