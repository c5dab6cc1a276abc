package generator

import (
	"encoding/json"
	"strings"

	"github.com/tacogips/sectionforge/internal/debug"
	"github.com/tacogips/sectionforge/internal/template/model"
	"github.com/tacogips/sectionforge/internal/template/parser"
)

// Expander turns one resolved template into named variants.
type Expander struct {
	parser parser.Parser
}

// NewExpander creates an Expander. A nil parser uses the default parser.
func NewExpander(p parser.Parser) *Expander {
	if p == nil {
		p = parser.NewParser()
	}
	return &Expander{parser: p}
}

// Expand looks for a duplicate block in content.
//
// With rules present it returns one asset per target, keyed by keyFor(target),
// with every placeholder replaced by the target name; the natural asset must
// not be emitted in that case. Without rules (no block, or an empty body) it
// returns nil variants and the content to emit under the natural key, with an
// empty block removed.
func (e *Expander) Expand(file, content string, keyFor func(target string) string) ([]model.OutputAsset, string, error) {
	m := e.parser.ExtractDuplicate(content)
	if !m.Matched {
		return nil, content, nil
	}

	body := parser.StripDuplicateDirective(content, m)
	if m.IsEmptyBody() {
		debug.Debug("[generator] %s: empty duplicate block, emitting single asset", file)
		return nil, body, nil
	}

	targets, err := parseDuplicateRules(m.Body)
	if err != nil {
		return nil, "", &DuplicateRuleParseError{File: file, Body: m.Body, Cause: err}
	}

	variants := make([]model.OutputAsset, 0, len(targets))
	seen := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		if _, dup := seen[target]; dup {
			debug.Debug("[generator] %s: duplicate target %q listed twice, keeping first", file, target)
			continue
		}
		seen[target] = struct{}{}

		variants = append(variants, model.OutputAsset{
			Key:     keyFor(target),
			Content: strings.ReplaceAll(body, model.TitlePlaceholder, target),
		})
	}

	debug.Debug("[generator] %s: expanded into %d variant(s)", file, len(variants))
	return variants, "", nil
}

// parseDuplicateRules decodes a strict JSON array of target names.
func parseDuplicateRules(body string) (model.DuplicateDirective, error) {
	var targets []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &targets); err != nil {
		return nil, err
	}
	for _, t := range targets {
		if err := validateTargetName(t); err != nil {
			return nil, err
		}
	}
	return targets, nil
}
