package infer

import (
	"strings"
	"unicode"
)

// CamelCase lower-cases the leading run of upper-case letters, keeping the
// last one when it starts the next word: "Name" -> "name", "ID" -> "id",
// "URLPath" -> "urlPath".
func CamelCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	if !unicode.IsUpper(runes[0]) {
		return s
	}
	for i := 0; i < len(runes); i++ {
		if i == 1 && !unicode.IsUpper(runes[i]) {
			break
		}
		hasNext := i+1 < len(runes)
		if i > 0 && hasNext && !unicode.IsUpper(runes[i+1]) {
			if unicode.IsSpace(runes[i+1]) {
				runes[i] = unicode.ToLower(runes[i])
			}
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// SnakeCase converts Go style identifiers to snake_case: "LeadDeveloper" ->
// "lead_developer", "URLPath" -> "url_path".
func SnakeCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if i > 0 && runes[i-1] != '_' {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Verbatim returns s unchanged.
func Verbatim(s string) string {
	return s
}

// WithDefaultFieldNameInferrer replaces the transform applied to member names
// that have no rename, declared name or serializer opinion. The default is
// CamelCase. Raw string field names are never passed through the inferrer.
func WithDefaultFieldNameInferrer(inferrer func(string) string) Option {
	return func(cfg *settingsConfig) {
		if inferrer == nil {
			return
		}
		cfg.inferrer = inferrer
		cfg.inferrerName = "custom"
		cfg.expression = ""
	}
}

// WithNamedFieldNameInferrer selects one of the built-in transforms by name:
// "camel", "snake" or "verbatim". Unknown names leave the current inferrer in
// place.
func WithNamedFieldNameInferrer(name string) Option {
	return func(cfg *settingsConfig) {
		if fn, ok := namedInferrer(name); ok {
			cfg.inferrer = fn
			cfg.inferrerName = strings.ToLower(strings.TrimSpace(name))
			cfg.expression = ""
		}
	}
}

// WithFieldNameExpression infers member names by evaluating expr. The member
// name is bound to `name` and the owning type name to `owner`; the built-in
// camel, snake and verbatim functions plus any registered custom functions
// are callable. The expression must produce a string.
func WithFieldNameExpression(expr string) Option {
	return func(cfg *settingsConfig) {
		cfg.expression = strings.TrimSpace(expr)
	}
}

// WithInferrerEvaluator selects the engine used to evaluate the expression set
// through WithFieldNameExpression. Defaults to the expr engine.
func WithInferrerEvaluator(e Evaluator) Option {
	return func(cfg *settingsConfig) {
		cfg.evaluator = e
	}
}

// IsNamedInferrer reports whether name selects a built-in transform.
func IsNamedInferrer(name string) bool {
	_, ok := namedInferrer(name)
	return ok
}

func namedInferrer(name string) (func(string) string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "camel", "camelcase":
		return CamelCase, true
	case "snake", "snakecase":
		return SnakeCase, true
	case "verbatim", "none":
		return Verbatim, true
	default:
		return nil, false
	}
}
