package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vk/socforge/internal/ordered"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindMap
	KindList
	KindString
	KindInt
	KindFloat
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindList:
		return "list"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Map is an ordered collection of named values.
type Map = ordered.Map[*Value]

// NewMap returns an empty ordered Map.
func NewMap() *Map { return ordered.New[*Value]() }

// Value is one node of a loaded document.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	List  []*Value
	Map   *Map
}

// Constructors for each Kind.
func String(s string) *Value { return &Value{Kind: KindString, Str: s} }
func Int(i int64) *Value { return &Value{Kind: KindInt, Int: i} }
func Float(f float64) *Value { return &Value{Kind: KindFloat, Float: f} }
func Bool(b bool) *Value { return &Value{Kind: KindBool, Bool: b} }
func List(vs ...*Value) *Value { return &Value{Kind: KindList, List: vs} }
func MapValue(m *Map) *Value { return &Value{Kind: KindMap, Map: m} }
func Null() *Value { return &Value{Kind: KindNull} }
func EmptyMap() *Value { return MapValue(NewMap()) }
func (v *Value) IsMap() bool { return v != nil && v.Kind == KindMap }
func (v *Value) IsList() bool { return v != nil && v.Kind == KindList }
func (v *Value) IsScalar() bool { return v != nil && v.Kind >= KindString }

// Get returns the child stored under key when v is a map.
func (v *Value) Get(key string) (*Value, bool) {
	if !v.IsMap() {
		return nil, false
	}
	return v.Map.Get(key)
}

// Lookup walks a path of map keys.
func (v *Value) Lookup(path ...string) (*Value, bool) {
	cur := v
	for _, key := range path {
		next, ok := cur.Get(key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Keys returns the map keys of v in source order, or nil when v is not a map.
func (v *Value) Keys() []string {
	if !v.IsMap() {
		return nil
	}
	return v.Map.Keys()
}

// Text renders a scalar the way it is spliced into generated sources.
// Booleans become 1 and 0 so they stay valid Verilog literals.
func (v *Value) Text() string {
	if v == nil {
		return ""
	}
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		if v.Float == math.Trunc(v.Float) && math.Abs(v.Float) < 1e16 {
			return strconv.FormatFloat(v.Float, 'f', 1, 64)
		}
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindBool:
		if v.Bool {
			return "1"
		}
		return "0"
	case KindList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = e.Text()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		return fmt.Sprintf("{%s}", strings.Join(v.Map.Keys(), ", "))
	default:
		return ""
	}
}

// AsInt returns the value as an integer. Integral floats and integer strings
// (decimal or 0x-prefixed) are accepted.
func (v *Value) AsInt() (int64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.Kind {
	case KindInt:
		return v.Int, true
	case KindFloat:
		if v.Float == math.Trunc(v.Float) {
			return int64(v.Float), true
		}
	case KindBool:
		if v.Bool {
			return 1, true
		}
		return 0, true
	case KindString:
		if i, err := strconv.ParseInt(strings.TrimSpace(v.Str), 0, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

// AsFloat returns the value as a float64.
func (v *Value) AsFloat() (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.Kind {
	case KindFloat:
		return v.Float, true
	case KindInt:
		return float64(v.Int), true
	case KindString:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Truthy follows the usual scripting conventions: zero, empty and null are false.
func (v *Value) Truthy() bool {
	if v == nil {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int != 0
	case KindFloat:
		return v.Float != 0
	case KindString:
		return v.Str != ""
	case KindList:
		return len(v.List) > 0
	case KindMap:
		return v.Map.Len() > 0
	default:
		return false
	}
}

// Strings returns the scalar texts of a list value.
func (v *Value) Strings() ([]string, bool) {
	if !v.IsList() {
		return nil, false
	}
	out := make([]string, 0, len(v.List))
	for _, e := range v.List {
		if !e.IsScalar() {
			return nil, false
		}
		out = append(out, e.Text())
	}
	return out, true
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	out := *v
	switch v.Kind {
	case KindList:
		out.List = make([]*Value, len(v.List))
		for i, e := range v.List {
			out.List[i] = e.Clone()
		}
	case KindMap:
		out.Map = NewMap()
		for k, e := range v.Map.All() {
			out.Map.Set(k, e.Clone())
		}
	}
	return &out
}

// Native converts the tree into plain Go values (map[string]any, []any,
// string, int64, float64, bool, nil), e.g. for JSON encoding.
func (v *Value) Native() any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindBool:
		return v.Bool
	case KindList:
		out := make([]any, len(v.List))
		for i, e := range v.List {
			out[i] = e.Native()
		}
		return out
	case KindMap:
		out := make(map[string]any, v.Map.Len())
		for k, e := range v.Map.All() {
			out[k] = e.Native()
		}
		return out
	default:
		return nil
	}
}
