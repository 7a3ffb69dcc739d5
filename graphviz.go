package fsm

import "github.com/enetx/g"

// ToDOT generates a DOT language string representation of the FSM for visualization.
// States are laid out in declaration order; the current state is highlighted and
// targets that are not declared in the configuration are drawn dashed.
// A pending undo is shown as a dotted edge back to the previous state.
func (f *FSM) ToDOT() g.String {
	b := g.NewBuilder()

	b.WriteString("digraph FSM {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString(
		"  node [shape=circle, style=filled, fillcolor=\"#f8f8f8\", color=\"#444444\", fontname=\"Helvetica\"];\n",
	)
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	b.WriteString("  __start [shape=point, style=invis];\n")
	b.WriteString(g.Format("  __start -> \"{}\" [label=\" initial\"];\n\n", f.config.initial))

	var edges g.Slice[g.Pair[State, State]]
	labels := g.NewMap[g.Pair[State, State], g.Slice[g.String]]()
	phantoms := g.NewSlice[State]()

	for _, from := range f.config.order {
		def := f.config.states[from]

		for _, event := range def.events {
			to := def.targets[event]
			key := g.Pair[State, State]{Key: from, Value: to}

			if !labels.Contains(key) {
				edges.Push(key)
			}

			labels[key] = append(labels[key], g.String(event))

			if !f.config.Has(to) && !phantoms.Contains(to) {
				phantoms.Push(to)
			}
		}
	}

	for _, state := range f.config.order {
		var attrs g.Slice[g.String]
		attrs.Push(g.Format("label=\"{}\"", state))

		switch {
		case state == f.current:
			attrs.Push("fillcolor=\"#90ee90\"", "shape=doublecircle")
		case len(f.config.states[state].events) == 0:
			attrs.Push("fillcolor=\"#d3d3d3\"", "shape=doublecircle")
		}

		b.WriteString(g.Format("  \"{}\" [{}];\n", state, attrs.Join(", ")))
	}

	for _, state := range phantoms {
		var attrs g.Slice[g.String]
		attrs.Push(g.Format("label=\"{}\"", state), "style=dashed", "color=\"#999999\"")

		if state == f.current {
			attrs.Push("fontcolor=red")
		}

		b.WriteString(g.Format("  \"{}\" [{}];\n", state, attrs.Join(", ")))
	}

	b.WriteByte('\n')

	for _, pair := range edges {
		var edge g.Slice[g.String]
		edge.Push(g.Format("label=\" {} \"", labels[pair].Join("\\n")))

		if !f.config.Has(pair.Value) {
			edge.Push("style=dashed", "color=\"#999999\"")
		}

		b.WriteString(g.Format("  \"{}\" -> \"{}\" [{}];\n", pair.Key, pair.Value, edge.Join(", ")))
	}

	if f.prev.IsSome() {
		b.WriteString(g.Format(
			"  \"{}\" -> \"{}\" [label=\" undo \", style=dotted, color=blue, constraint=false];\n",
			f.current, f.prev.Some(),
		))
	}

	b.WriteString("\n  subgraph cluster_legend {\n")
	b.WriteString("    label = \"Legend\";\n")
	b.WriteString("    style = dashed;\n")
	b.WriteString(`    key [label=<
      <table border="0" cellpadding="4" cellspacing="0" cellborder="0">
        <tr><td align="right">●</td><td>Regular state</td></tr>
        <tr><td align="right"><font color="green">◎</font></td><td>Current state</td></tr>
        <tr><td align="right"><font color="gray">◎</font></td><td>State without transitions</td></tr>
        <tr><td align="right"><font color="gray">○</font></td><td>Undeclared target</td></tr>
        <tr><td align="right"><font color="blue">⇢</font></td><td>Undo</td></tr>
      </table>
    >, shape=none];`)

	b.WriteString("  }\n")
	b.WriteString("}\n")

	return b.String()
}
