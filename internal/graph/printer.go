package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// Printer renders graphs in a line-oriented text form:
//
//	pipeline 0 {
//	  b0 {
//	    i0 = i64.param 0
//	    i1 = jump ^b0
//	  }
//	  b0 -> b1
//	  ...
//	}
type Printer struct {
	indent int
	output strings.Builder
}

// NewPrinter creates a new graph printer
func NewPrinter() *Printer {
	return &Printer{}
}

// Print renders a single graph under the given pipeline name
func Print(g *Graph, name string) string {
	p := NewPrinter()
	p.PrintGraph(g, name)
	return p.String()
}

// String returns everything printed so far
func (p *Printer) String() string {
	return p.output.String()
}

// PrintGraph appends the rendering of g
func (p *Printer) PrintGraph(g *Graph, name string) {
	p.writeLine("pipeline %s {", name)
	p.indent++
	for _, b := range g.Blocks {
		p.printBlock(b)
	}
	p.indent--
	p.writeLine("}")
}

func (p *Printer) printBlock(b *Block) {
	p.writeLine("b%d {", b.ID)
	p.indent++
	for _, n := range b.Nodes {
		p.writeLine("%s", FormatNode(n))
	}
	p.indent--
	p.writeLine("}")

	if len(b.Successors) > 0 {
		succs := make([]string, len(b.Successors))
		for i, s := range b.Successors {
			succs[i] = "b" + strconv.Itoa(s.ID)
		}
		p.writeLine("b%d -> %s", b.ID, strings.Join(succs, ", "))
	}
}

// FormatNode renders one node as "iN = opcode ^anchor, literals, inputs"
func FormatNode(n *Node) string {
	var operands []string
	if n.Control != nil {
		operands = append(operands, "^"+n.Control.anchorLabel())
	}
	for _, lit := range n.Literals {
		operands = append(operands, formatLiteral(lit))
	}
	for _, in := range n.Inputs {
		operands = append(operands, "i"+strconv.Itoa(in.ID))
	}

	if len(operands) == 0 {
		return fmt.Sprintf("i%d = %s", n.ID, n.Opcode)
	}
	return fmt.Sprintf("i%d = %s %s", n.ID, n.Opcode, strings.Join(operands, ", "))
}

func formatLiteral(v any) string {
	switch lit := v.(type) {
	case float64:
		return strconv.FormatFloat(lit, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(lit), 'g', -1, 32)
	case fmt.Stringer:
		return lit.String()
	default:
		return fmt.Sprint(lit)
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.output.WriteString(strings.Repeat("  ", p.indent))
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}
