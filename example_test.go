package md2html_test

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-md2html"
)

// Example demonstrates converting a string with the default rules.
func Example() {
	fmt.Print(md2html.Convert("# Title\n\nplain line\n> note\n---\n"))
	// Output:
	// <h1>Title</h1>
	// plain line<br />
	// <blockquote>note</blockquote>
	// <hr />
}

// Example_emphasis shows that only the first emphasized span survives.
func Example_emphasis() {
	fmt.Print(md2html.Convert("say **this** now\nan *aside* and *another*\n"))
	// Output:
	// <b>this</b><br />
	// <i>aside</i><br />
}

// ExampleConverter_ConvertStream streams from a reader to a writer.
func ExampleConverter_ConvertStream() {
	conv, err := md2html.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	stats, err := conv.ConvertStream(context.Background(), strings.NewReader("## Sub\n\n*it*\n"), os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(stats.Nodes(), "nodes,", stats.Blank, "blank")
	// Output:
	// <h2>Sub</h2>
	// <i>it</i><br />
	// 2 nodes, 1 blank
}

// ExampleWithStandalone wraps the fragments in a complete page.
func ExampleWithStandalone() {
	conv, err := md2html.NewConverter(md2html.WithStandalone(md2html.StandaloneOptions{Lang: "fr"}))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := conv.Convert(context.Background(), md2html.Input{Markdown: "# Bonjour\ntexte\n"})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(result.HTML)
	// Output:
	// <!DOCTYPE html>
	// <html lang="fr">
	// <head>
	// <meta charset="utf-8">
	// <title>Bonjour</title>
	// </head>
	// <body>
	// <h1>Bonjour</h1>
	// texte<br />
	// </body>
	// </html>
}

// ExampleWithEscapeHTML escapes inline HTML in payloads.
func ExampleWithEscapeHTML() {
	conv, err := md2html.NewConverter(md2html.WithEscapeHTML(true))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := conv.Convert(context.Background(), md2html.Input{Markdown: "> a <script> & b"})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(result.HTML)
	// Output:
	// <blockquote>a &lt;script&gt; &amp; b</blockquote>
}

// ExampleClassify shows the node produced for a single line.
func ExampleClassify() {
	n := md2html.Classify("### Deep")
	fmt.Println(n.Kind, n.Payload)
	// Output: heading3 Deep
}
