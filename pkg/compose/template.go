// Package compose turns a chosen strategy into response text: price
// formatting, the authority knowledge base, visual grounding, prompt
// construction for generator-backed strategies, and dedup memory.
package compose

import (
	"fmt"
	"strings"
)

// Slot is a named template slot. Required slots must be filled at render
// time; optional slots vanish cleanly when absent.
type Slot struct {
	Name     string
	Required bool
}

// Template is a string pattern with typed slots. An unfilled required slot
// is a construction error, not something to regex away afterwards.
type Template struct {
	pattern string
	slots   []Slot
}

// NewTemplate creates a template. Placeholders use {name} syntax.
func NewTemplate(pattern string, slots ...Slot) *Template {
	return &Template{pattern: pattern, slots: slots}
}

// Render fills the template's slots from values.
func (t *Template) Render(values map[string]string) (string, error) {
	out := t.pattern
	for _, slot := range t.slots {
		placeholder := "{" + slot.Name + "}"
		v, ok := values[slot.Name]
		if !ok || v == "" {
			if slot.Required {
				return "", fmt.Errorf("required slot %q not filled", slot.Name)
			}
			out = strings.ReplaceAll(out, placeholder, "")
			continue
		}
		out = strings.ReplaceAll(out, placeholder, v)
	}

	// Optional-slot removal may leave doubled spaces.
	for strings.Contains(out, "  ") {
		out = strings.ReplaceAll(out, "  ", " ")
	}
	return strings.TrimSpace(out), nil
}
