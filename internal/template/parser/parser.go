package parser

// Parser extracts build directives from template text. It performs no I/O.
type Parser interface {
	// ExtractSchema finds the schema directive of a template.
	ExtractSchema(content string) SchemaMatch

	// ExtractDuplicate finds the duplicate directive of a template.
	ExtractDuplicate(content string) DuplicateMatch
}

// DefaultParser implements Parser with the tag scanner.
type DefaultParser struct{}

// NewParser creates a new DefaultParser.
func NewParser() Parser {
	return &DefaultParser{}
}

// ExtractSchema finds the schema directive of a template.
func (p *DefaultParser) ExtractSchema(content string) SchemaMatch {
	return ExtractSchemaDirective(content)
}

// ExtractDuplicate finds the duplicate directive of a template.
func (p *DefaultParser) ExtractDuplicate(content string) DuplicateMatch {
	return ExtractDuplicateDirective(content)
}
