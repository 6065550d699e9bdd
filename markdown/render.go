package markdown

import (
	"fmt"
	"strings"
)

const (
	indentUnit  = "  "
	nullMarker  = "_null_"
	errorMarker = "_<error>_"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// IsImageURL reports whether s is an http(s) URL naming an image file.
// The check is case-insensitive.
func IsImageURL(s string) bool {
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Renderer renders values as markdown. The zero value is ready to use.
type Renderer struct {
	// OnFieldError, when set, receives every field failure that is rendered
	// as an inline marker. An empty field name means the top-level value.
	OnFieldError func(field string, err error)
}

// Render writes v as markdown using the zero Renderer.
func Render(v any) string {
	return Renderer{}.Render(v)
}

// Render writes v as markdown. v may be a Node, a Marshaler or any value
// accepted by Value. A top-level Product is preceded by a "## Type" heading.
//
// Text is emitted verbatim; markdown metacharacters are not escaped.
func (r Renderer) Render(v any) string {
	w := &writer{onErr: r.OnFieldError}
	n, err := convert(v)
	if err != nil {
		w.fail("", err)
		w.line(0, "- "+errorMarker)
		return w.b.String()
	}
	switch n := n.(type) {
	case Product:
		w.b.WriteString("## ")
		w.b.WriteString(n.Type)
		w.b.WriteString("\n\n")
		w.fields(n.Fields, 0)
	case Mapping:
		w.entries(n.Entries, 0)
	case Sequence:
		w.items(n.Items, 0)
	case Absent:
		w.line(0, nullMarker)
	default:
		w.item(n, 0)
	}
	return w.b.String()
}

type writer struct {
	b     strings.Builder
	onErr func(field string, err error)
}

func (w *writer) fail(field string, err error) {
	if w.onErr != nil {
		w.onErr(field, err)
	}
}

func (w *writer) line(depth int, text string) {
	w.b.WriteString(strings.Repeat(indentUnit, depth))
	w.b.WriteString(text)
	w.b.WriteByte('\n')
}

func (w *writer) fields(fields []Field, depth int) {
	for _, f := range fields {
		n, err := f.resolve()
		if err != nil {
			w.fail(f.Name, err)
			w.line(depth, "- **"+f.Name+"**: "+errorMarker)
			continue
		}
		w.named(f.Name, n, depth)
	}
}

// resolve evaluates the field, turning a panic in Load into an error.
func (f Field) resolve() (n Node, err error) {
	if f.Load == nil {
		return f.Value, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("field %s: %v", f.Name, r)
		}
	}()
	return f.Load()
}

func (w *writer) entries(entries []Entry, depth int) {
	for _, e := range entries {
		w.named(e.Key, e.Value, depth)
	}
}

func (w *writer) items(items []Node, depth int) {
	for _, it := range items {
		w.item(it, depth)
	}
}

// named renders a labeled entry.
func (w *writer) named(name string, n Node, depth int) {
	label := "- **" + name + "**:"
	switch v := deref(n).(type) {
	case Absent:
		w.line(depth, label+" "+nullMarker)
	case Scalar:
		if v.IsString && IsImageURL(v.Value) {
			w.line(depth, label+" !["+name+"]("+v.Value+")")
			return
		}
		w.line(depth, label+" "+v.Value)
	case Sequence:
		w.line(depth, label)
		w.items(v.Items, depth+1)
	case Mapping:
		w.line(depth, label)
		w.entries(v.Entries, depth+1)
	case Product:
		w.line(depth, label)
		w.fields(v.Fields, depth+1)
	default:
		w.fail(name, fmt.Errorf("unsupported node %T", n))
		w.line(depth, label+" "+errorMarker)
	}
}

// item renders an anonymous sequence element.
func (w *writer) item(n Node, depth int) {
	switch v := deref(n).(type) {
	case Absent:
		w.line(depth, "- "+nullMarker)
	case Scalar:
		if v.IsString && IsImageURL(v.Value) {
			w.line(depth, "- ![]("+v.Value+")")
			return
		}
		w.line(depth, "- "+v.Value)
	case Sequence:
		w.line(depth, "-")
		w.items(v.Items, depth+1)
	case Mapping:
		w.line(depth, "-")
		w.entries(v.Entries, depth+1)
	case Product:
		w.line(depth, "-")
		w.fields(v.Fields, depth+1)
	default:
		w.fail("", fmt.Errorf("unsupported node %T", n))
		w.line(depth, "- "+errorMarker)
	}
}
