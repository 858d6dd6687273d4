package graph

import (
	"io"
	"strconv"

	"github.com/beevik/etree"
)

// WriteGraphML writes the dependency graph in GraphML form, one node per
// element and one directed edge per declared dependency (dep → dependent).
// The output loads in common graph viewers for inspecting large setups.
func (r *Resolver) WriteGraphML(w io.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	graphml := doc.CreateElement("graphml")
	graphml.CreateAttr("xmlns", "http://graphml.graphdrawing.org/xmlns")

	g := graphml.CreateElement("graph")
	g.CreateAttr("id", "dotrig")
	g.CreateAttr("edgedefault", "directed")

	for _, el := range r.elements {
		node := g.CreateElement("node")
		node.CreateAttr("id", el.Name)
	}

	edgeID := 0
	for _, el := range r.elements {
		for _, dep := range r.deps[el.Name] {
			edge := g.CreateElement("edge")
			edge.CreateAttr("id", "e"+strconv.Itoa(edgeID))
			edge.CreateAttr("source", dep)
			edge.CreateAttr("target", el.Name)
			edgeID++
		}
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}
