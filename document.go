package md2html

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-md2html/internal/pipeline"
)

// Document is the ordered list of nodes built from one input, one node per
// non-blank line. Nodes are only ever appended.
type Document struct {
	nodes []Node
}

// NewDocument returns a Document holding nodes in the given order.
func NewDocument(nodes ...Node) *Document {
	d := &Document{nodes: make([]Node, 0, len(nodes))}
	d.nodes = append(d.nodes, nodes...)
	return d
}

// Append adds n after the last node.
func (d *Document) Append(n Node) {
	d.nodes = append(d.nodes, n)
}

// Len returns the number of nodes.
func (d *Document) Len() int {
	return len(d.nodes)
}

// Node returns the i-th node. It panics if i is out of range.
func (d *Document) Node(i int) Node {
	return d.nodes[i]
}

// Nodes returns a copy of the nodes in document order.
func (d *Document) Nodes() []Node {
	out := make([]Node, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// Render concatenates the fragments of every node using the default renderer.
func (d *Document) Render() string {
	return d.RenderWith(defaultRenderer)
}

// RenderWith concatenates the fragments of every node using r.
func (d *Document) RenderWith(r Renderer) string {
	var b strings.Builder
	for _, n := range d.nodes {
		r.render(&b, n)
	}
	return b.String()
}

// WriteTo writes the rendered document to w, one fragment per node.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.writeTo(w, defaultRenderer)
}

func (d *Document) writeTo(w io.Writer, r Renderer) (int64, error) {
	var total int64
	var b strings.Builder
	for _, n := range d.nodes {
		b.Reset()
		r.render(&b, n)
		written, err := io.WriteString(w, b.String())
		total += int64(written)
		if err != nil {
			return total, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	return total, nil
}

// Parse reads r line by line and classifies every non-blank line with the
// default classifier.
func Parse(r io.Reader) (*Document, error) {
	doc, _, err := parse(r, defaultClassifier)
	return doc, err
}

// parse builds a Document from r and reports line statistics.
func parse(r io.Reader, c *Classifier) (*Document, Stats, error) {
	stats := newStats()
	doc := &Document{}
	lr := pipeline.NewLineReader(r, MaxLineSize)

	for {
		line, lineNo, err := lr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("%w: line %d: %v", ErrReadInput, lineNo+1, err)
		}
		stats.Lines++
		if line == "" {
			stats.Blank++
			continue
		}
		n := c.Classify(line)
		n.Line = lineNo
		stats.Kinds[n.Kind]++
		doc.Append(n)
	}

	stats.Truncated = lr.Truncated()
	return doc, stats, nil
}
