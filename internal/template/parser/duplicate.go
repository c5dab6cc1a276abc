package parser

import (
	"strings"

	"github.com/tacogips/sectionforge/internal/debug"
)

// DuplicateMatch describes a `{% duplicate %}` ... `{% endduplicate %}` block.
type DuplicateMatch struct {
	// Matched is false when no complete duplicate block exists.
	Matched bool
	// Start and End delimit the text to remove (End exclusive). End covers the
	// line break after the close tag and one following blank line.
	Start int
	End   int
	// Body is the raw text between the tags.
	Body string
}

// ExtractDuplicateDirective finds the first duplicate block in content.
// An open tag without a matching close tag is not a block.
func ExtractDuplicateDirective(content string) DuplicateMatch {
	tags := scanTags(content)

	openIdx := findTag(tags, 0, NameDuplicate)
	if openIdx < 0 {
		return DuplicateMatch{}
	}
	closeIdx := findTag(tags, openIdx+1, NameEndDuplicate)
	if closeIdx < 0 {
		debug.Debug("[parser] duplicate tag at offset %d has no %s, ignoring",
			tags[openIdx].Start, NameEndDuplicate)
		return DuplicateMatch{}
	}

	open, closeTag := tags[openIdx], tags[closeIdx]
	end := closeTag.End
	end += lineBreakLen(content[end:])
	end += lineBreakLen(content[end:])

	return DuplicateMatch{
		Matched: true,
		Start:   open.Start,
		End:     end,
		Body:    content[open.End:closeTag.Start],
	}
}

// StripDuplicateDirective removes the matched block from content.
func StripDuplicateDirective(content string, m DuplicateMatch) string {
	if !m.Matched {
		return content
	}
	return content[:m.Start] + content[m.End:]
}

// IsEmptyBody reports whether the block lists nothing at all.
func (m DuplicateMatch) IsEmptyBody() bool {
	return strings.TrimSpace(m.Body) == ""
}

func lineBreakLen(s string) int {
	switch {
	case strings.HasPrefix(s, "\r\n"):
		return 2
	case strings.HasPrefix(s, "\n"):
		return 1
	default:
		return 0
	}
}
