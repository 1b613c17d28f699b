package parser

const indentWidth = 4

type indentationScanner struct {
	// width is the number of spaces per nesting level.
	width int
}

// Scan consumes the leading whitespace of a line and returns its nesting level along with
// the remaining text. Only the leading run is inspected; tabs after the first
// non-whitespace character belong to the statement.
func (i indentationScanner) Scan(line int, text string) (int, string, error) {
	spaces := 0
	for spaces < len(text) && text[spaces] == ' ' {
		spaces++
	}
	if spaces < len(text) && text[spaces] == '\t' {
		return 0, "", newError(KindTab, line, "column %d", spaces+1)
	}

	if spaces%i.width != 0 {
		return 0, "", newError(KindBadIndent, line, "%d spaces is not a multiple of %d", spaces, i.width)
	}
	return spaces / i.width, text[spaces:], nil
}
