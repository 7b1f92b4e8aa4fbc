package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	md2html "github.com/alnah/go-md2html"
)

// runRules prints the ordered classification table with the markup each
// kind renders to.
func runRules(env *Environment) error {
	return writeRules(env.Stdout, md2html.NewClassifier().Rules())
}

// writeRules renders rules as an aligned table.
func writeRules(w io.Writer, rules []md2html.RuleInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKIND\tPATTERN\tOUTPUT")
	for i, r := range rules {
		sample := renderSample(r.Kind)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, r.Kind, r.Pattern, sample)
	}
	fmt.Fprintf(tw, "-\t%s\t(no match)\t%s\n", md2html.KindPlainText, renderSample(md2html.KindPlainText))
	return tw.Flush()
}

// renderSample renders a placeholder payload on one line.
func renderSample(k md2html.Kind) string {
	return strings.TrimRight(md2html.Render(md2html.Node{Kind: k, Payload: "text"}), "\n")
}
