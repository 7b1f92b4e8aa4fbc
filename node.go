package md2html

import "strconv"

// Line and payload limits in bytes.
const (
	MaxLineSize    = 1024
	MaxPayloadSize = MaxLineSize
)

// Kind identifies what a classified line represents.
type Kind uint8

// Node kinds, one per supported line form.
const (
	KindHeading1 Kind = iota
	KindHeading2
	KindHeading3
	KindTextBold
	KindTextItalic
	KindBlockQuote
	KindPlainText
	KindThematicBreak

	kindCount
)

var kindNames = [kindCount]string{
	KindHeading1:      "heading1",
	KindHeading2:      "heading2",
	KindHeading3:      "heading3",
	KindTextBold:      "text-bold",
	KindTextItalic:    "text-italic",
	KindBlockQuote:    "blockquote",
	KindPlainText:     "plain-text",
	KindThematicBreak: "thematic-break",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Kinds returns all node kinds in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Node is one classified input line.
// Payload is empty for KindThematicBreak. Line is the 1-based source line,
// or 0 when the node did not come from a reader.
type Node struct {
	Kind    Kind
	Payload string
	Line    int
}
