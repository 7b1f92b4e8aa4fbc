// Package md2html converts a small, flat subset of Markdown to HTML, one
// line at a time.
//
// # Quick Start
//
// Convert a string with the default settings:
//
//	out := md2html.Convert("# Title\n\nplain line\n> note\n---\n")
//	// <h1>Title</h1>
//	// plain line<br />
//	// <blockquote>note</blockquote>
//	// <hr />
//
// Or stream from a reader to a writer with a configured Converter:
//
//	conv, err := md2html.NewConverter(md2html.WithStandalone(md2html.StandaloneOptions{}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stats, err := conv.ConvertStream(ctx, os.Stdin, os.Stdout)
//
// # Conversion Pipeline
//
// Every input line goes through the same stages:
//
//  1. Line reading: "\n" and "\r\n" are stripped, blank lines are dropped,
//     lines longer than MaxLineSize bytes are truncated on a rune boundary
//  2. Classification: the first matching rule decides the Kind and payload
//  3. Rendering: the Kind selects the markup wrapped around the payload
//
// The classified lines form a Document, a flat ordered list of Nodes. There
// is no nesting and no construct spans more than one line.
//
// # Rules
//
// Rules are tried in this order; the first match wins:
//
//	### text          <h3>text</h3>
//	## text           <h2>text</h2>
//	# text            <h1>text</h1>
//	> text            <blockquote>text</blockquote>
//	- - - (or ---)    <hr />
//	**text**          <b>text</b><br />
//	*text*            <i>text</i><br />
//	anything else     line<br />
//
// A rule whose captured text would be empty does not match, so a lone "#"
// or ">" is plain text. Emphasis captures the shortest span between the
// first pair of delimiters and drops the text around it.
//
// # Escaping
//
// Payloads are inserted verbatim, so inline HTML in the input reaches the
// output unchanged. Use WithEscapeHTML(true) to escape payload text.
package md2html
