// Package render draws circuits and sweep results: the netlist topology as
// a Graphviz diagram and AC sweeps as Bode plots.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/edp1096/circuit-analyzer/pkg/netlist"
)

// ToDOT converts parsed elements to Graphviz DOT. Nodes are circles with
// node 0 drawn as ground. Two-terminal elements are labelled edges from P to
// N, op amps are triangles, and control dependencies are dashed.
func ToDOT(elems []netlist.Element) string {
	var buf bytes.Buffer
	buf.WriteString("graph circuit {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, fontsize=12, width=0.3, fixedsize=true];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	seen := make(map[int]bool)
	byName := make(map[string]netlist.Element, len(elems))
	for _, e := range elems {
		byName[e.Name] = e
		for _, n := range e.Nodes() {
			seen[n] = true
		}
	}
	maxNode := 0
	for n := range seen {
		maxNode = max(maxNode, n)
	}
	for n := 0; n <= maxNode; n++ {
		if !seen[n] {
			continue
		}
		if n == 0 {
			buf.WriteString("  n0 [label=\"0\", shape=invtriangle, style=filled, fillcolor=lightgrey];\n")
			continue
		}
		fmt.Fprintf(&buf, "  n%d [label=\"%d\"];\n", n, n)
	}

	buf.WriteString("\n")
	for _, e := range elems {
		switch e.Kind {
		case netlist.KindOpAmp:
			fmt.Fprintf(&buf, "  %q [shape=triangle, orientation=270, fixedsize=false];\n", e.Name)
			fmt.Fprintf(&buf, "  n%d -- %q [label=\"+\"];\n", e.P, e.Name)
			fmt.Fprintf(&buf, "  n%d -- %q [label=\"-\"];\n", e.N, e.Name)
			fmt.Fprintf(&buf, "  %q -- n%d;\n", e.Name, e.Out)

		case netlist.KindMutual:
			l1, ok1 := byName[e.L1]
			l2, ok2 := byName[e.L2]
			if ok1 && ok2 {
				fmt.Fprintf(&buf, "  n%d -- n%d [label=%q, style=dashed, color=grey];\n", l1.P, l2.P, e.Name)
			}

		default:
			fmt.Fprintf(&buf, "  n%d -- n%d [label=%q];\n", e.P, e.N, edgeLabel(e))
			for _, dep := range controls(e, byName) {
				fmt.Fprintf(&buf, "  n%d -- n%d [label=%q, style=dashed, color=grey];\n", dep[0], dep[1], "ctl "+e.Name)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeLabel(e netlist.Element) string {
	if e.Kind == netlist.KindCCCS || e.Kind == netlist.KindCCVS {
		return fmt.Sprintf("%s(%s)", e.Name, e.Ctrl)
	}
	return e.Name
}

// controls returns the node pairs whose voltage or branch current drives e.
func controls(e netlist.Element, byName map[string]netlist.Element) [][2]int {
	switch e.Kind {
	case netlist.KindVCVS, netlist.KindVCCS:
		return [][2]int{{e.CP, e.CN}}
	case netlist.KindCCCS, netlist.KindCCVS:
		if c, ok := byName[e.Ctrl]; ok && c.Kind != netlist.KindMutual {
			return [][2]int{{c.P, c.N}}
		}
	}
	return nil
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// Schematic parses a netlist and renders its topology as SVG.
func Schematic(ctx context.Context, text string) ([]byte, error) {
	data, err := netlist.Parse(text)
	if err != nil {
		return nil, err
	}
	if err := data.Err(); err != nil {
		return nil, err
	}
	return RenderSVG(ctx, ToDOT(data.Elements))
}
