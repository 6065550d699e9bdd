package markdown

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleCart() Product {
	return NewProduct("Cart",
		F("name", "cart"),
		F("total", 42.5),
		F("items", Sequence{Items: []Node{
			NewProduct("OrderItem",
				F("itemName", "Football"),
				F("image", "https://x/y.png"),
			),
		}}),
	)
}

func TestRenderCartWithImage(t *testing.T) {
	want := "## Cart\n\n" +
		"- **name**: cart\n" +
		"- **total**: 42.5\n" +
		"- **items**:\n" +
		"  -\n" +
		"    - **itemName**: Football\n" +
		"    - **image**: ![image](https://x/y.png)\n"
	assert.Equal(t, want, Render(sampleCart()))
}

func TestRenderIsDeterministic(t *testing.T) {
	v := sampleCart()
	assert.Equal(t, Render(v), Render(v))
}

func TestFailingFieldIsContained(t *testing.T) {
	p := NewProduct("Order",
		F("orderNumber", "ORD-1"),
		Lazy("orderDateTime", func() (Node, error) { return nil, errors.New("clock unavailable") }),
		Lazy("currency", func() (Node, error) { panic("boom") }),
		F("total", 3),
	)
	out := Render(p)

	assert.Equal(t, 2, strings.Count(out, errorMarker))
	assert.Contains(t, out, "- **orderNumber**: ORD-1\n")
	assert.Contains(t, out, "- **orderDateTime**: _<error>_\n")
	assert.Contains(t, out, "- **currency**: _<error>_\n")
	assert.Contains(t, out, "- **total**: 3\n")
}

func TestSingleFailingFieldEmitsOneMarker(t *testing.T) {
	p := NewProduct("Thing",
		F("a", "x"),
		Lazy("b", func() (Node, error) { return nil, errors.New("nope") }),
		F("c", true),
	)
	want := "## Thing\n\n- **a**: x\n- **b**: _<error>_\n- **c**: true\n"
	assert.Equal(t, want, Render(p))
}

func TestEveryFieldRenderedInOrder(t *testing.T) {
	p := NewProduct("P", F("z", 1), F("a", nil), F("m", []string{}))
	out := Render(p)
	iz := strings.Index(out, "**z**")
	ia := strings.Index(out, "**a**")
	im := strings.Index(out, "**m**")
	assert.True(t, iz >= 0 && iz < ia && ia < im, out)
	assert.Contains(t, out, "- **a**: _null_\n")
}

func TestIsImageURL(t *testing.T) {
	for _, s := range []string{
		"http://x/a.png", "https://x/a.JPG", "HTTPS://x/a.jpeg", "https://x/a.gif", "https://x/a.webp",
	} {
		assert.True(t, IsImageURL(s), s)
	}
	for _, s := range []string{
		"ftp://x/a.png", "https://x/a.pdf", "x/a.png", "https://x/png", "",
	} {
		assert.False(t, IsImageURL(s), s)
	}
}

func TestNonStringScalarsAreNeverImages(t *testing.T) {
	p := NewProduct("P", Field{Name: "n", Value: Scalar{Value: "https://x/y.png"}})
	assert.Equal(t, "## P\n\n- **n**: https://x/y.png\n", Render(p))
}

func TestAnonymousItems(t *testing.T) {
	p := NewProduct("P", F("things", []any{
		"plain",
		"https://x/img.webp",
		nil,
		[]string{"a", "b"},
		map[string]any{"k": 1},
	}))
	want := "## P\n\n" +
		"- **things**:\n" +
		"  - plain\n" +
		"  - ![](https://x/img.webp)\n" +
		"  - _null_\n" +
		"  -\n" +
		"    - a\n" +
		"    - b\n" +
		"  -\n" +
		"    - **k**: 1\n"
	assert.Equal(t, want, Render(p))
}

func TestMappingKeepsInsertionOrder(t *testing.T) {
	m := Mapping{Entries: []Entry{
		{Key: "zeta", Value: String("last letter")},
		{Key: "alpha", Value: Int(1)},
	}}
	p := NewProduct("P", Field{Name: "m", Value: m})
	want := "## P\n\n- **m**:\n  - **zeta**: last letter\n  - **alpha**: 1\n"
	assert.Equal(t, want, Render(p))
}

func TestNestedProduct(t *testing.T) {
	inner := NewProduct("Inner", F("x", 1.25))
	p := NewProduct("Outer", F("inner", inner), F("when", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))
	want := "## Outer\n\n- **inner**:\n  - **x**: 1.25\n- **when**: 2025-01-02T03:04:05Z\n"
	assert.Equal(t, want, Render(p))
}

func TestRenderNonProductTopLevel(t *testing.T) {
	assert.Equal(t, "_null_\n", Render(nil))
	assert.Equal(t, "- hello\n", Render("hello"))
	assert.Equal(t, "- a\n- b\n", Render([]string{"a", "b"}))
}

type money struct{ amount float64 }

func (m money) MarkdownNode() Node {
	return NewProduct("Money", F("amount", m.amount), F("currency", "USD"))
}

func TestMarshaler(t *testing.T) {
	assert.Equal(t, "## Money\n\n- **amount**: 10.1\n- **currency**: USD\n", Render(money{10.1}))
}

func TestMarkdownIsNotEscaped(t *testing.T) {
	p := NewProduct("P", F("s", "*bold* _it_"))
	assert.Equal(t, "## P\n\n- **s**: *bold* _it_\n", Render(p))
}

type sku string

func (s sku) String() string { return "SKU-" + string(s) }

type exploding struct{}

func (exploding) MarkdownNode() Node { panic("no node") }

func TestTypedNilPointersRenderAsNull(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, "_null_\n", Render((*money)(nil)))
	})
	assert.NotPanics(t, func() {
		out := Render(NewProduct("P", F("item", (*sku)(nil)), F("ok", 1)))
		assert.Equal(t, "## P\n\n- **item**: _null_\n- **ok**: 1\n", out)
	})
}

func TestPointerNodes(t *testing.T) {
	inner := &Product{Type: "Inner", Fields: []Field{F("x", 1)}}
	out := Render(NewProduct("Outer",
		F("inner", inner),
		Field{Name: "list", Value: &Sequence{Items: []Node{&Scalar{Value: "a", IsString: true}, (*Product)(nil)}}},
		Field{Name: "map", Value: &Mapping{Entries: []Entry{{Key: "k", Value: &Absent{}}}}},
	))
	want := "## Outer\n\n" +
		"- **inner**:\n" +
		"  - **x**: 1\n" +
		"- **list**:\n" +
		"  - a\n" +
		"  - _null_\n" +
		"- **map**:\n" +
		"  - **k**: _null_\n"
	assert.Equal(t, want, out)
	assert.Equal(t, "## Inner\n\n- **x**: 1\n", Render(inner))
}

func TestValueConversions(t *testing.T) {
	name := "Football"
	when := time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want Node
	}{
		{"nil", nil, Absent{}},
		{"string pointer", &name, String("Football")},
		{"nil string pointer", (*string)(nil), Absent{}},
		{"time pointer", &when, Time(when)},
		{"nil time pointer", (*time.Time)(nil), Absent{}},
		{"nil marshaler pointer", (*money)(nil), Absent{}},
		{"nil stringer pointer", (*sku)(nil), Absent{}},
		{"stringer", sku("7"), String("SKU-7")},
		{"error", errors.New("out of stock"), String("out of stock")},
		{"nil product pointer", (*Product)(nil), Absent{}},
		{"product pointer", &Product{Type: "T"}, Product{Type: "T"}},
		{"uint", uint(3), Scalar{Value: "3"}},
		{"bool", true, Scalar{Value: "true"}},
		{"sorted string map", map[string]string{"b": "2", "a": "1", "c": "3"}, Mapping{Entries: []Entry{
			{Key: "a", Value: String("1")},
			{Key: "b", Value: String("2")},
			{Key: "c", Value: String("3")},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Value(tt.in))
		})
	}
}

func TestRenderSortsGoMapKeys(t *testing.T) {
	out := Render(NewProduct("P", F("m", map[string]any{"zeta": 1, "alpha": "x"})))
	assert.Equal(t, "## P\n\n- **m**:\n  - **alpha**: x\n  - **zeta**: 1\n", out)
}

func TestPanickingMarshalerIsContained(t *testing.T) {
	var out string
	assert.NotPanics(t, func() {
		out = Render(NewProduct("P", F("bad", exploding{}), F("ok", 1)))
	})
	assert.Equal(t, "## P\n\n- **bad**: _<error>_\n- **ok**: 1\n", out)
	assert.Equal(t, "- _<error>_\n", Render(exploding{}))
}

func TestOnFieldErrorReceivesFailures(t *testing.T) {
	var failed []string
	r := Renderer{OnFieldError: func(field string, err error) {
		assert.Error(t, err)
		failed = append(failed, field)
	}}
	out := r.Render(NewProduct("P",
		Lazy("a", func() (Node, error) { return nil, errors.New("nope") }),
		F("b", "fine"),
		Lazy("c", func() (Node, error) { panic("boom") }),
	))
	assert.Equal(t, []string{"a", "c"}, failed)
	assert.Equal(t, "## P\n\n- **a**: _<error>_\n- **b**: fine\n- **c**: _<error>_\n", out)
}
