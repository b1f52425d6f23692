// Package prompt holds the prompt template registry and renderer.
package prompt

import (
	"fmt"
	"regexp"
	"sort"
)

// slotPattern matches interpolation markers like {{topic}}.
var slotPattern = regexp.MustCompile(`\{\{([a-z_]+)\}\}`)

// Template is a parameterized prompt identified by use-case name. Templates
// are immutable once registered.
type Template struct {
	Name  string
	Text  string
	Slots []string
}

// TemplateError reports a malformed template or an unresolved slot. These are
// configuration errors: templates are fixed at registration time, so hitting
// one at render time means a programming mistake, not bad user input.
type TemplateError struct {
	Template string
	Reason   string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q: %s", e.Template, e.Reason)
}

// Registry maps use-case names to registered templates. Read-only after
// construction, safe for concurrent use.
type Registry struct {
	templates map[string]Template
}

// NewRegistry validates and registers the given templates. Registration fails
// if a template's declared slots do not exactly match the slots referenced in
// its text, or if two templates share a name.
func NewRegistry(templates ...Template) (*Registry, error) {
	reg := &Registry{templates: make(map[string]Template, len(templates))}
	for _, tpl := range templates {
		if tpl.Name == "" {
			return nil, &TemplateError{Template: tpl.Name, Reason: "empty name"}
		}
		if _, exists := reg.templates[tpl.Name]; exists {
			return nil, &TemplateError{Template: tpl.Name, Reason: "registered twice"}
		}
		if err := validateSlots(tpl); err != nil {
			return nil, err
		}
		reg.templates[tpl.Name] = tpl
	}
	return reg, nil
}

// Get returns the template registered under name.
func (r *Registry) Get(name string) (Template, error) {
	tpl, ok := r.templates[name]
	if !ok {
		return Template{}, &TemplateError{Template: name, Reason: "not registered"}
	}
	return tpl, nil
}

// Names returns the registered template names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render fills every {{slot}} in the template with its binding from vars.
// A referenced slot with no binding fails fast rather than leaving the
// literal placeholder in the prompt. Rendering has no side effects and is
// idempotent for identical inputs.
func Render(tpl Template, vars map[string]string) (string, error) {
	var missing string
	rendered := slotPattern.ReplaceAllStringFunc(tpl.Text, func(marker string) string {
		slot := slotPattern.FindStringSubmatch(marker)[1]
		value, ok := vars[slot]
		if !ok {
			if missing == "" {
				missing = slot
			}
			return marker
		}
		return value
	})
	if missing != "" {
		return "", &TemplateError{Template: tpl.Name, Reason: fmt.Sprintf("no binding for slot %q", missing)}
	}
	return rendered, nil
}

// validateSlots checks that declared and referenced slot sets match exactly.
func validateSlots(tpl Template) error {
	referenced := make(map[string]bool)
	for _, match := range slotPattern.FindAllStringSubmatch(tpl.Text, -1) {
		referenced[match[1]] = true
	}

	declared := make(map[string]bool, len(tpl.Slots))
	for _, slot := range tpl.Slots {
		declared[slot] = true
	}

	for slot := range referenced {
		if !declared[slot] {
			return &TemplateError{Template: tpl.Name, Reason: fmt.Sprintf("slot %q referenced but not declared", slot)}
		}
	}
	for slot := range declared {
		if !referenced[slot] {
			return &TemplateError{Template: tpl.Name, Reason: fmt.Sprintf("slot %q declared but never referenced", slot)}
		}
	}
	return nil
}

// SlotsOf returns the slots referenced in raw template text. Used by tests
// and registration tooling.
func SlotsOf(text string) []string {
	seen := make(map[string]bool)
	var slots []string
	for _, match := range slotPattern.FindAllStringSubmatch(text, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			slots = append(slots, match[1])
		}
	}
	sort.Strings(slots)
	return slots
}
