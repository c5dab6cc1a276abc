package parser

import (
	"strings"

	"github.com/tacogips/sectionforge/internal/debug"
)

// SchemaMatch describes a `{% schema 'path' %}` block found in a template.
type SchemaMatch struct {
	// Matched is false when the template has no schema directive.
	Matched bool
	// Start and End delimit FullMatch in the input (End exclusive).
	Start int
	End   int
	// FullMatch is the text of the whole block, open tag through close tag.
	FullMatch string
	// OpenTag is the text of the opening tag alone.
	OpenTag string
	// ReferencePath is the reference literal without its quotes.
	// Empty when the directive carries no reference.
	ReferencePath string
	// ReferenceOffset is the byte offset of the opening quote within OpenTag,
	// or -1 when there is no reference.
	ReferenceOffset int
	// InlineBody is the raw text between the open and close tags.
	InlineBody string
	// HasBody is false for a self-closing directive.
	HasBody bool
}

// ExtractSchemaDirective finds the first schema block in content.
// A missing directive is not an error; the caller passes content through.
// A schema tag with no following endschema is treated as self-closing.
func ExtractSchemaDirective(content string) SchemaMatch {
	tags := scanTags(content)

	openIdx := findTag(tags, 0, NameSchema)
	if openIdx < 0 {
		return SchemaMatch{}
	}
	open := tags[openIdx]

	m := SchemaMatch{
		Matched:         true,
		Start:           open.Start,
		End:             open.End,
		OpenTag:         open.RawText(content),
		ReferenceOffset: -1,
	}

	if ref, off, ok := unquote(open.Args); ok {
		m.ReferencePath = ref
		m.ReferenceOffset = open.ArgsOffset + off - open.Start
	}

	closeIdx := findTag(tags, openIdx+1, NameEndSchema, NameSchema)
	if closeIdx >= 0 && tags[closeIdx].Name == NameEndSchema {
		closeTag := tags[closeIdx]
		m.End = closeTag.End
		m.InlineBody = content[open.End:closeTag.Start]
		m.HasBody = true
	}
	m.FullMatch = content[m.Start:m.End]

	debug.Debug("[parser] schema directive: ref=%q hasBody=%v span=%d..%d",
		m.ReferencePath, m.HasBody, m.Start, m.End)
	return m
}

// RenderSchemaBlock renders a schema block with canonical, non-trimmed markers.
func RenderSchemaBlock(body string) string {
	var b strings.Builder
	b.WriteString("{% ")
	b.WriteString(NameSchema)
	b.WriteString(" %}\n")
	b.WriteString(body)
	b.WriteString("\n{% ")
	b.WriteString(NameEndSchema)
	b.WriteString(" %}")
	return b.String()
}

// ReplaceSchemaBlock substitutes the matched block in content with a rendered
// schema block holding body.
func ReplaceSchemaBlock(content string, m SchemaMatch, body string) string {
	if !m.Matched {
		return content
	}
	return content[:m.Start] + RenderSchemaBlock(body) + content[m.End:]
}

// ValidateSchemaMatch reports a ParseError when a matched directive has no
// reference literal.
func ValidateSchemaMatch(m SchemaMatch) error {
	if !m.Matched {
		return nil
	}
	if strings.TrimSpace(m.ReferencePath) == "" {
		return newParseErrorWithDirective(MissingReference,
			"schema directive has no reference path", m.OpenTag)
	}
	return nil
}
