// Package markdown renders structured values as hierarchical markdown documents.
//
// Values are first described with a small closed set of node types (Absent,
// Scalar, Product, Sequence, Mapping) and then rendered by Render. Domain
// types take part by implementing Marshaler.
package markdown

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// Kind identifies the shape of a Node.
type Kind int

const (
	KindAbsent Kind = iota
	KindScalar
	KindProduct
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindScalar:
		return "scalar"
	case KindProduct:
		return "product"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Node is one of Absent, Scalar, Product, Sequence or Mapping.
type Node interface {
	Kind() Kind
}

// Marshaler is implemented by types that describe themselves as a Node.
type Marshaler interface {
	MarkdownNode() Node
}

// Absent is a missing or null value.
type Absent struct{}

// Scalar is a terminal value already formatted as text.
// Only text scalars are candidates for image detection.
type Scalar struct {
	Value    string
	IsString bool
}

// Product is a record with a declared type name and ordered named fields.
type Product struct {
	Type   string
	Fields []Field
}

// Field is a named member of a Product. When Load is set it is called at
// render time instead of reading Value; an error or panic from Load is
// rendered as an inline error marker for this field only.
type Field struct {
	Name  string
	Value Node
	Load  func() (Node, error)
}

// Sequence is an ordered list of anonymous nodes.
type Sequence struct {
	Items []Node
}

// Entry is one key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value Node
}

// Mapping is an ordered list of entries. Rendering keeps insertion order.
type Mapping struct {
	Entries []Entry
}

func (Absent) Kind() Kind   { return KindAbsent }
func (Scalar) Kind() Kind   { return KindScalar }
func (Product) Kind() Kind  { return KindProduct }
func (Sequence) Kind() Kind { return KindSequence }
func (Mapping) Kind() Kind  { return KindMapping }

// String returns a text scalar.
func String(s string) Scalar { return Scalar{Value: s, IsString: true} }

// Int returns an integer scalar.
func Int(i int64) Scalar { return Scalar{Value: strconv.FormatInt(i, 10)} }

// Float returns a float scalar in the shortest exact decimal form.
func Float(f float64) Scalar { return Scalar{Value: strconv.FormatFloat(f, 'f', -1, 64)} }

// Bool returns a boolean scalar.
func Bool(b bool) Scalar { return Scalar{Value: strconv.FormatBool(b)} }

// Time returns an RFC 3339 timestamp scalar.
func Time(t time.Time) Scalar { return Scalar{Value: t.Format(time.RFC3339)} }

// NewProduct builds a Product from fields.
func NewProduct(typ string, fields ...Field) Product {
	return Product{Type: typ, Fields: fields}
}

// F builds an eagerly valued field from any value accepted by Value. A panic
// while converting v becomes the failure of this field alone.
func F(name string, v any) Field {
	n, err := convert(v)
	if err != nil {
		return Field{Name: name, Load: func() (Node, error) { return nil, err }}
	}
	return Field{Name: name, Value: n}
}

// convert is Value with a panic in MarkdownNode, String or Error turned into an error.
func convert(v any) (n Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("converting %T: %v", v, r)
		}
	}()
	return Value(v), nil
}

// Lazy builds a field whose value is produced at render time.
func Lazy(name string, load func() (Node, error)) Field {
	return Field{Name: name, Load: load}
}

// Seq builds a Sequence from values accepted by Value.
func Seq[T any](items []T) Sequence {
	s := Sequence{Items: make([]Node, 0, len(items))}
	for _, it := range items {
		s.Items = append(s.Items, Value(it))
	}
	return s
}

// Value converts common Go values to a Node. Anything outside the known set
// is printed with fmt and treated as an opaque scalar; it is never walked.
// A nil pointer of any type is Absent, so methods are never called on one.
func Value(v any) Node {
	if isNilPointer(v) {
		return Absent{}
	}
	switch x := v.(type) {
	case nil:
		return Absent{}
	case Node:
		return deref(x)
	case Marshaler:
		return x.MarkdownNode()
	case string:
		return String(x)
	case *string:
		return String(*x)
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Scalar{Value: strconv.FormatUint(uint64(x), 10)}
	case uint8:
		return Scalar{Value: strconv.FormatUint(uint64(x), 10)}
	case uint16:
		return Scalar{Value: strconv.FormatUint(uint64(x), 10)}
	case uint32:
		return Scalar{Value: strconv.FormatUint(uint64(x), 10)}
	case uint64:
		return Scalar{Value: strconv.FormatUint(x, 10)}
	case float32:
		return Scalar{Value: strconv.FormatFloat(float64(x), 'f', -1, 32)}
	case float64:
		return Float(x)
	case time.Time:
		return Time(x)
	case *time.Time:
		return Time(*x)
	case []string:
		return Seq(x)
	case []any:
		return Seq(x)
	case []Node:
		return Sequence{Items: x}
	case map[string]string:
		return mappingOf(x)
	case map[string]any:
		return mappingOf(x)
	case error:
		return String(x.Error())
	case fmt.Stringer:
		return String(x.String())
	default:
		return String(fmt.Sprint(x))
	}
}

// mappingOf sorts keys since Go maps have no stable order.
func mappingOf[V any](m map[string]V) Mapping {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := Mapping{Entries: make([]Entry, 0, len(keys))}
	for _, k := range keys {
		out.Entries = append(out.Entries, Entry{Key: k, Value: Value(m[k])})
	}
	return out
}

// isNilPointer only inspects the top-level value; nothing is walked.
func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// deref maps pointers to the node variants onto their values.
func deref(n Node) Node {
	switch x := n.(type) {
	case nil:
		return Absent{}
	case *Absent:
		return Absent{}
	case *Scalar:
		if x == nil {
			return Absent{}
		}
		return *x
	case *Product:
		if x == nil {
			return Absent{}
		}
		return *x
	case *Sequence:
		if x == nil {
			return Absent{}
		}
		return *x
	case *Mapping:
		if x == nil {
			return Absent{}
		}
		return *x
	default:
		return n
	}
}
