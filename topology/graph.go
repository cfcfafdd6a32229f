package topology

import (
	"fmt"
	"strings"
)

// Node describes a planned layer and the level it was assigned to.
type Node struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Edge means "From depends on To".
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is a serializable snapshot of a plan's dependency structure, useful
// for debugging startup order and for rendering dashboards.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Graph exports the plan's dependency structure.
func (p Plan) Graph() Graph {
	var g Graph
	for i, level := range p.Levels {
		for _, def := range level {
			g.Nodes = append(g.Nodes, Node{Name: def.Name, Level: i})
			for _, dep := range def.Dependencies {
				g.Edges = append(g.Edges, Edge{From: def.Name, To: dep})
			}
		}
	}
	return g
}

// DOT exports Graphviz DOT text.
func (g Graph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph strata {\n")
	b.WriteString("  rankdir=LR;\n")

	aliases := make(map[string]string, len(g.Nodes))
	for i, n := range g.Nodes {
		alias := fmt.Sprintf("n%d", i)
		aliases[n.Name] = alias
		label := fmt.Sprintf("%s\\n(level %d)", escapeDOT(n.Name), n.Level)
		b.WriteString(fmt.Sprintf("  %s [label=\"%s\"];\n", alias, label))
	}
	for _, e := range g.Edges {
		from, okFrom := aliases[e.From]
		to, okTo := aliases[e.To]
		if !okFrom || !okTo {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s -> %s;\n", from, to))
	}
	b.WriteString("}\n")
	return b.String()
}

// Mermaid exports Mermaid graph text.
func (g Graph) Mermaid() string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	aliases := make(map[string]string, len(g.Nodes))
	for i, n := range g.Nodes {
		alias := fmt.Sprintf("n%d", i)
		aliases[n.Name] = alias
		label := fmt.Sprintf("%s<br/>(level %d)", escapeMermaid(n.Name), n.Level)
		b.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", alias, label))
	}
	for _, e := range g.Edges {
		from, okFrom := aliases[e.From]
		to, okTo := aliases[e.To]
		if !okFrom || !okTo {
			continue
		}
		b.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
	}
	return b.String()
}

func escapeDOT(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}

func escapeMermaid(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}
