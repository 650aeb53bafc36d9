// Package autofill proposes completions for partially typed form fields
// from the values already stored for that field.
package autofill

import (
	"strings"

	"github.com/jask/moneydash/internal/match"
)

// Kind names a candidate pool.
type Kind int

const (
	Methods Kind = iota
	Tags
	Details
)

func (k Kind) String() string {
	switch k {
	case Methods:
		return "methods"
	case Tags:
		return "tags"
	case Details:
		return "details"
	default:
		return "unknown"
	}
}

// Engine computes suggestions. The zero value is ready to use.
type Engine struct{}

// Suggest dispatches to the entry point for kind.
func (e Engine) Suggest(kind Kind, input string, pool []string) string {
	switch kind {
	case Methods:
		return e.Method(input, pool)
	case Tags:
		return e.Tags(input, pool)
	case Details:
		return e.Details(input, pool)
	}
	return ""
}

// Method suggests a transaction method name.
func (Engine) Method(input string, pool []string) string {
	return suggest(input, pool)
}

// Details suggests a previously used transaction description.
func (Engine) Details(input string, pool []string) string {
	return suggest(input, pool)
}

// Tags suggests a completion for the tag after the last comma. Tags typed
// earlier in the same input are not offered again.
func (Engine) Tags(input string, pool []string) string {
	if input == "" || len(pool) == 0 {
		return ""
	}
	committed, current := splitTags(input)
	if strings.TrimSpace(current) == "" {
		return ""
	}
	if len(committed) > 0 {
		pool = without(pool, committed)
	}
	return suggest(current, pool)
}

// IsTagSeparator reports whether r ends one tag in a tag list.
func IsTagSeparator(r rune) bool {
	return r == ',' || r == ';' || r == '\n'
}

// AcceptTags replaces the tag being typed with suggestion.
func AcceptTags(input, suggestion string) string {
	if suggestion == "" {
		return input
	}
	idx := strings.LastIndexFunc(input, IsTagSeparator)
	if idx < 0 {
		return suggestion
	}
	return input[:idx+1] + " " + suggestion
}

func suggest(input string, pool []string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || len(pool) == 0 {
		return ""
	}
	best, err := match.BestMatchFold(trimmed, pool)
	if err != nil || best == trimmed {
		return ""
	}
	return best
}

func splitTags(input string) (committed []string, current string) {
	idx := strings.LastIndexFunc(input, IsTagSeparator)
	if idx < 0 {
		return nil, input
	}
	for _, p := range strings.FieldsFunc(input[:idx], IsTagSeparator) {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			committed = append(committed, p)
		}
	}
	return committed, input[idx+1:]
}

func without(pool, drop []string) []string {
	skip := make(map[string]struct{}, len(drop))
	for _, d := range drop {
		skip[d] = struct{}{}
	}
	out := make([]string, 0, len(pool))
	for _, p := range pool {
		if _, ok := skip[strings.ToLower(p)]; !ok {
			out = append(out, p)
		}
	}
	return out
}
