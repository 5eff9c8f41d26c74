package nodelink

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/flowdeck/pkg/diagram"
)

type sample struct {
	g                  *diagram.Graph
	a, b, grp, arrow   *diagram.Element
	line, note, hidden *diagram.Element
}

func newSample(t *testing.T) sample {
	t.Helper()
	s := sample{g: diagram.New()}
	s.a = diagram.NewElement(diagram.KindBox, diagram.R(0, 0, 80, 40))
	s.a.Text = "start"
	s.b = diagram.NewElement(diagram.KindDiamond, diagram.R(0, 100, 80, 40))
	s.b.Text = "ok?"
	s.grp = diagram.NewElement(diagram.KindGroup, diagram.R(-10, -10, 100, 160))
	s.grp.Text = "phase 1"
	s.arrow = diagram.NewConnector(diagram.KindArrow, diagram.Pt(40, 40), diagram.Pt(40, 100))
	s.line = diagram.NewConnector(diagram.KindLine, diagram.Pt(300, 0), diagram.Pt(400, 0))
	s.note = diagram.NewElement(diagram.KindCallout, diagram.R(200, 0, 60, 30))
	s.note.Ref = s.a.ID
	s.hidden = diagram.NewElement(diagram.KindEllipse, diagram.R(500, 500, 10, 10))
	s.hidden.Visible = false

	if err := s.g.AddAll([]*diagram.Element{s.a, s.b, s.grp, s.arrow, s.line, s.note, s.hidden}); err != nil {
		t.Fatal(err)
	}
	from, _ := s.a.ConnectionPoint(diagram.GripBottomMiddle)
	to, _ := s.b.ConnectionPoint(diagram.GripTopMiddle)
	if err := s.g.Attach(s.arrow.ID, diagram.GripStart, s.a.ID, from); err != nil {
		t.Fatal(err)
	}
	if err := s.g.Attach(s.arrow.ID, diagram.GripEnd, s.b.ID, to); err != nil {
		t.Fatal(err)
	}
	if err := s.g.Group(s.grp.ID, s.a.ID, s.b.ID); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestToDOT(t *testing.T) {
	s := newSample(t)
	dot := ToDOT(s.g, Options{})

	want := []string{
		"digraph G {",
		fmt.Sprintf("subgraph %q {", "cluster_"+string(s.grp.ID)),
		`label="phase 1";`,
		fmt.Sprintf("%q [label=\"start\", shape=box", s.a.ID),
		fmt.Sprintf("%q [label=\"ok?\", shape=diamond", s.b.ID),
		fmt.Sprintf("%q -> %q [color=", s.a.ID, s.b.ID),
		fmt.Sprintf("%q [shape=point", string(s.line.ID)+":start"),
		fmt.Sprintf("%q -> %q [color=\"#000000\", arrowhead=none];", string(s.line.ID)+":start", string(s.line.ID)+":end"),
		fmt.Sprintf("%q -> %q [style=dotted, arrowhead=none];", s.note.ID, s.a.ID),
		"shape=note",
	}
	for _, w := range want {
		if !strings.Contains(dot, w) {
			t.Errorf("DOT missing %q\n%s", w, dot)
		}
	}
	if strings.Contains(dot, string(s.hidden.ID)) {
		t.Error("hidden element rendered")
	}
	if strings.Count(dot, fmt.Sprintf("%q [label=", s.a.ID)) != 1 {
		t.Error("grouped element emitted more than once")
	}
}

func TestToDOTDetailed(t *testing.T) {
	g := diagram.New()
	e := diagram.NewElement(diagram.KindEllipse, diagram.R(0, 0, 10, 10))
	e.Attrs = map[string]string{"owner": "ops", "area": "billing"}
	g.Add(e)

	dot := ToDOT(g, Options{Detailed: true})
	if !strings.Contains(dot, `label="ellipse\nkind: ellipse\narea: billing\nowner: ops"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestToDOTTransparentFill(t *testing.T) {
	g := diagram.New()
	e := diagram.NewElement(diagram.KindBox, diagram.R(0, 0, 10, 10))
	e.Style.FillColor = diagram.Transparent
	e.Bookmarked = true
	g.Add(e)

	dot := ToDOT(g, Options{})
	if !strings.Contains(dot, "style=rounded") || strings.Contains(dot, "fillcolor=\"#") {
		t.Errorf("transparent fill not honored:\n%s", dot)
	}
	if !strings.Contains(dot, "penwidth=2") {
		t.Error("bookmarked element not emphasized")
	}
}

func TestRenderSVG(t *testing.T) {
	s := newSample(t)
	svg, err := RenderSVG(ToDOT(s.g, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("</svg>")) {
		t.Errorf("output is not SVG: %.200s", svg)
	}
	if !bytes.Contains(svg, []byte(`viewBox="0 0 `)) {
		t.Error("viewBox not normalized")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.00" width="100" height="200"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox = %s, want %s", out, want)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
