package parser

import (
	"strings"
)

// Tag delimiters.
const (
	tagOpen  = "{%"
	tagClose = "%}"
	trimMark = '-'

	// commentMark starts an inline comment tag.
	commentMark = "#"
)

// Block tag names the build understands or must step over.
const (
	NameSchema       = "schema"
	NameEndSchema    = "endschema"
	NameDuplicate    = "duplicate"
	NameEndDuplicate = "endduplicate"

	nameRaw        = "raw"
	nameEndRaw     = "endraw"
	nameComment    = "comment"
	nameEndComment = "endcomment"
)

// Tag is one `{% name args %}` token found in a template.
type Tag struct {
	// Start is the byte offset of "{%".
	Start int
	// End is the byte offset just past "%}" (exclusive).
	End int
	// Name is the first word inside the tag.
	Name string
	// Args is the trimmed text after the name.
	Args string
	// ArgsOffset is the byte offset of Args in the input.
	ArgsOffset int
	// TrimLeft and TrimRight report "{%-" and "-%}" markers.
	TrimLeft  bool
	TrimRight bool
}

// RawText returns the tag as written.
func (t Tag) RawText(input string) string {
	return input[t.Start:t.End]
}

// scanTags walks input and returns every tag in order. Tags between
// `{% raw %}`/`{% endraw %}` and `{% comment %}`/`{% endcomment %}` are skipped,
// so directive-looking text inside them is never matched.
func scanTags(input string) []Tag {
	var tags []Tag
	pos := 0
	skipUntil := ""

	for pos < len(input) {
		idx := strings.Index(input[pos:], tagOpen)
		if idx < 0 {
			break
		}
		start := pos + idx

		tag, ok := readTag(input, start)
		if !ok {
			// Unterminated "{%": nothing after it can be a tag.
			break
		}
		pos = tag.End

		if skipUntil != "" {
			if tag.Name == skipUntil {
				skipUntil = ""
			}
			continue
		}

		switch tag.Name {
		case nameRaw:
			skipUntil = nameEndRaw
			continue
		case nameComment:
			skipUntil = nameEndComment
			continue
		}

		tags = append(tags, tag)
	}

	return tags
}

// readTag parses a tag starting at input[start:] which begins with "{%".
// Quoted strings inside the tag may contain "%}". Inline comment tags
// (`{% # ... %}`) end at the first "%}" whatever they contain, and so does a
// tag whose quote is never closed.
func readTag(input string, start int) (Tag, bool) {
	tag := Tag{Start: start}
	i := start + len(tagOpen)

	if i < len(input) && input[i] == trimMark {
		tag.TrimLeft = true
		i++
	}
	bodyStart := i

	i = -1
	if !strings.HasPrefix(strings.TrimLeft(input[bodyStart:], " \t\r\n"), commentMark) {
		i = quotedClose(input, bodyStart)
	}
	if i < 0 {
		i = plainClose(input, bodyStart)
	}
	if i < 0 {
		return Tag{}, false
	}

	bodyEnd := i
	if bodyEnd > bodyStart && input[bodyEnd-1] == trimMark {
		tag.TrimRight = true
		bodyEnd--
	}
	tag.End = i + len(tagClose)

	body := input[bodyStart:bodyEnd]
	lead := len(body) - len(strings.TrimLeft(body, " \t\r\n"))
	body = strings.TrimLeft(body, " \t\r\n")

	nameLen := strings.IndexAny(body, " \t\r\n")
	if nameLen < 0 {
		nameLen = len(body)
	}
	tag.Name = body[:nameLen]

	rest := body[nameLen:]
	restLead := len(rest) - len(strings.TrimLeft(rest, " \t\r\n"))
	tag.Args = strings.TrimSpace(rest)
	tag.ArgsOffset = bodyStart + lead + nameLen + restLead

	return tag, true
}

// quotedClose returns the offset of the "%}" closing a tag body that starts
// at from, stepping over quoted strings, or -1 when a quote is left open. A
// quote only opens a string at the start of a token, so apostrophes in
// words do not.
func quotedClose(input string, from int) int {
	var quote byte
	prev := byte(' ')
	for i := from; i < len(input); i++ {
		c := input[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case (c == '\'' || c == '"') && strings.IndexByte(" \t\r\n,:=(|[", prev) >= 0:
			quote = c
		case strings.HasPrefix(input[i:], tagClose):
			return i
		}
		prev = c
	}
	return -1
}

// plainClose returns the offset of the first "%}" at or after from, or -1.
func plainClose(input string, from int) int {
	idx := strings.Index(input[from:], tagClose)
	if idx < 0 {
		return -1
	}
	return from + idx
}

// findTag returns the index of the first tag at or after from whose name is
// one of names, or -1.
func findTag(tags []Tag, from int, names ...string) int {
	for i := from; i < len(tags); i++ {
		for _, n := range names {
			if tags[i].Name == n {
				return i
			}
		}
	}
	return -1
}

// unquote extracts the first single- or double-quoted literal from args.
// It returns the literal without quotes and its offset inside args.
func unquote(args string) (string, int, bool) {
	for i := 0; i < len(args); i++ {
		q := args[i]
		if q != '\'' && q != '"' {
			continue
		}
		end := strings.IndexByte(args[i+1:], q)
		if end < 0 {
			return "", 0, false
		}
		return args[i+1 : i+1+end], i, true
	}
	return "", 0, false
}
