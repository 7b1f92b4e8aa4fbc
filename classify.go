package md2html

import (
	"regexp"
	"unicode/utf8"
)

// Precompiled line patterns, shared read-only by every Classifier.
var (
	heading3Pattern      = regexp.MustCompile(`^### +(.*)$`)
	heading2Pattern      = regexp.MustCompile(`^## +(.*)$`)
	heading1Pattern      = regexp.MustCompile(`^# +(.*)$`)
	blockQuotePattern    = regexp.MustCompile(`^> *(.*)$`)
	thematicBreakPattern = regexp.MustCompile(`^ *- *- *-`)
	textBoldPattern      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	textItalicPattern    = regexp.MustCompile(`\*(.*?)\*`)
)

// rule maps a pattern to the kind it produces.
// When capture is set, the first subgroup becomes the payload and must be
// non-empty and at most MaxPayloadSize bytes for the rule to match.
type rule struct {
	kind    Kind
	pattern *regexp.Regexp
	capture bool
}

// defaultRules is evaluated top to bottom; the first match wins.
// Heading 3 precedes 2 precedes 1, and the thematic break precedes the
// emphasis rules so "- * -" style lines never reach them.
var defaultRules = []rule{
	{kind: KindHeading3, pattern: heading3Pattern, capture: true},
	{kind: KindHeading2, pattern: heading2Pattern, capture: true},
	{kind: KindHeading1, pattern: heading1Pattern, capture: true},
	{kind: KindBlockQuote, pattern: blockQuotePattern, capture: true},
	{kind: KindThematicBreak, pattern: thematicBreakPattern},
	{kind: KindTextBold, pattern: textBoldPattern, capture: true},
	{kind: KindTextItalic, pattern: textItalicPattern, capture: true},
}

// RuleInfo describes one entry of the classification table.
type RuleInfo struct {
	Kind    Kind
	Pattern string
	Capture bool
}

// Classifier assigns a Kind and payload to single lines.
// The zero value is not usable; use NewClassifier or the package-level Classify.
type Classifier struct {
	rules []rule
}

// NewClassifier returns a Classifier using the built-in rule table.
func NewClassifier() *Classifier {
	return &Classifier{rules: defaultRules}
}

var defaultClassifier = NewClassifier()

// Classify classifies line with the default classifier.
func Classify(line string) Node {
	return defaultClassifier.Classify(line)
}

// Classify returns the node for line. The line must already be stripped of
// its terminator. Lines longer than MaxLineSize are truncated first.
// Classify never fails: unmatched lines become KindPlainText with the whole
// line as payload.
func (c *Classifier) Classify(line string) Node {
	line = TruncateLine(line, MaxLineSize)

	for _, r := range c.rules {
		if !r.capture {
			if r.pattern.MatchString(line) {
				return Node{Kind: r.kind}
			}
			continue
		}
		if payload, ok := matchCapture(r.pattern, line); ok {
			return Node{Kind: r.kind, Payload: payload}
		}
	}

	return Node{Kind: KindPlainText, Payload: line}
}

// Rules returns the ordered rule table.
func (c *Classifier) Rules() []RuleInfo {
	infos := make([]RuleInfo, len(c.rules))
	for i, r := range c.rules {
		infos[i] = RuleInfo{Kind: r.kind, Pattern: r.pattern.String(), Capture: r.capture}
	}
	return infos
}

// matchCapture returns the first subgroup of the leftmost match.
func matchCapture(pattern *regexp.Regexp, line string) (string, bool) {
	loc := pattern.FindStringSubmatchIndex(line)
	if loc == nil || loc[2] < 0 {
		return "", false
	}
	n := loc[3] - loc[2]
	if n <= 0 || n > MaxPayloadSize {
		return "", false
	}
	return line[loc[2]:loc[3]], true
}

// TruncateLine shortens s to at most max bytes without splitting a UTF-8
// sequence. Strings within the limit are returned unchanged. Invalid UTF-8
// is cut at max.
func TruncateLine(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 0 {
		return ""
	}
	for cut := max; cut > 0 && cut > max-utf8.UTFMax; cut-- {
		if utf8.RuneStart(s[cut]) {
			return s[:cut]
		}
	}
	return s[:max]
}
