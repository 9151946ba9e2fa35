package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindBool
	kindStringList
)

type fieldSpec struct {
	name string
	kind fieldKind
	def  any
}

// sectionShapes lists the fields the site expects for every known section key.
var sectionShapes = map[string][]fieldSpec{
	"hero": {
		{"heading", kindString, "Building what comes next"},
		{"subheading", kindString, ""},
		{"ctaLabel", kindString, "Get in touch"},
		{"ctaHref", kindString, "#contact"},
		{"backgroundImage", kindString, ""},
	},
	"about": {
		{"heading", kindString, "About us"},
		{"body", kindString, ""},
		{"highlights", kindStringList, nil},
	},
	"services": {
		{"heading", kindString, "Services"},
		{"intro", kindString, ""},
		{"limit", kindInt, 6},
	},
	"products": {
		{"heading", kindString, "Products"},
		{"intro", kindString, ""},
		{"limit", kindInt, 6},
		{"featuredOnly", kindBool, false},
	},
	"news": {
		{"heading", kindString, "Latest news"},
		{"intro", kindString, ""},
		{"limit", kindInt, 3},
	},
	"testimonials": {
		{"heading", kindString, "What our clients say"},
		{"intro", kindString, ""},
		{"limit", kindInt, 6},
	},
	"careers": {
		{"heading", kindString, "Careers"},
		{"intro", kindString, ""},
		{"limit", kindInt, 10},
	},
	"contact": {
		{"heading", kindString, "Contact us"},
		{"intro", kindString, ""},
		{"email", kindString, ""},
		{"phone", kindString, ""},
		{"address", kindString, ""},
		{"mapUrl", kindString, ""},
	},
}

// KnownSectionKeys returns the section keys with a normalized shape, in page order.
func KnownSectionKeys() []string {
	return []string{"hero", "about", "services", "products", "news", "testimonials", "careers", "contact"}
}

// NormalizeSectionData parses the stored JSON of a section and returns a map
// holding every field the site expects for key, coerced to its type and filled
// with defaults. Unknown keys get their JSON object back unchanged; invalid
// JSON is treated as an empty object.
func NormalizeSectionData(key, raw string) map[string]any {
	data := map[string]any{}
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil && parsed != nil {
			data = parsed
		}
	}

	shape, ok := sectionShapes[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return data
	}

	for _, field := range shape {
		value, present := data[field.name]
		switch field.kind {
		case kindString:
			data[field.name] = coerceString(value, present, field.def.(string))
		case kindInt:
			data[field.name] = coerceInt(value, present, field.def.(int))
		case kindBool:
			data[field.name] = coerceBool(value, present, field.def.(bool))
		case kindStringList:
			data[field.name] = coerceStringList(value, present)
		}
	}
	return data
}

func coerceString(value any, present bool, def string) string {
	if !present {
		return def
	}
	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return def
		}
		return trimmed
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return def
	}
}

func coerceInt(value any, present bool, def int) int {
	if !present {
		return def
	}
	var n int
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return def
		}
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return def
		}
		n = parsed
	default:
		return def
	}
	if n < 0 {
		return def
	}
	return n
}

func coerceBool(value any, present bool, def bool) bool {
	if !present {
		return def
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return def
		}
		return parsed
	case float64:
		return v != 0
	default:
		return def
	}
}

func coerceStringList(value any, present bool) []string {
	out := []string{}
	if !present {
		return out
	}
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					out = append(out, trimmed)
				}
			}
		}
	case string:
		for _, line := range strings.Split(v, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
