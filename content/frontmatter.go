package content

import "strings"

const delimiter = "---"

// Value is a single frontmatter value: either a scalar string or a list
// written as [a, b, c].
type Value struct {
	scalar string
	list   []string
	isList bool
}

// Scalar returns a scalar Value.
func Scalar(s string) Value {
	return Value{scalar: s}
}

// List returns a list Value.
func List(items ...string) Value {
	return Value{list: append([]string{}, items...), isList: true}
}

// IsList reports whether the value was written as a bracketed list.
func (v Value) IsList() bool {
	return v.isList
}

// String returns the scalar value. Lists are joined with ", ".
func (v Value) String() string {
	if v.isList {
		return strings.Join(v.list, ", ")
	}
	return v.scalar
}

// Items returns the list elements. A non-empty scalar is a one-element list.
func (v Value) Items() []string {
	if v.isList {
		return append([]string{}, v.list...)
	}
	if v.scalar == "" {
		return []string{}
	}
	return []string{v.scalar}
}

// Frontmatter maps keys to their values. Unknown keys are kept.
type Frontmatter map[string]Value

// Has reports whether key is present.
func (f Frontmatter) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String returns the value for key as a string, or "" when absent.
func (f Frontmatter) String(key string) string {
	return f[key].String()
}

// List returns the value for key as a list, or an empty list when absent.
func (f Frontmatter) List(key string) []string {
	return f[key].Items()
}

// ParseFrontmatter splits raw into its leading metadata block and the body.
//
// The block starts with a first line of exactly "---" and ends at the next
// "---" line. Each line inside is "key: value", split at the first colon.
// Lines without a colon are skipped. When no closed block is present the
// metadata is empty and the whole input is the body.
func ParseFrontmatter(raw string) (Frontmatter, string) {
	first, rest, ok := strings.Cut(raw, "\n")
	if !ok || trimCR(first) != delimiter {
		return Frontmatter{}, raw
	}
	var block []string
	for {
		line, next, more := strings.Cut(rest, "\n")
		if trimCR(line) == delimiter {
			return parseBlock(block), next
		}
		if !more {
			return Frontmatter{}, raw
		}
		block = append(block, line)
		rest = next
	}
}

func parseBlock(lines []string) Frontmatter {
	fm := make(Frontmatter, len(lines))
	for _, line := range lines {
		key, value, ok := strings.Cut(trimCR(line), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") && len(value) >= 2 {
			fm[key] = List(splitList(value[1 : len(value)-1])...)
			continue
		}
		fm[key] = Scalar(value)
	}
	return fm
}

func splitList(inner string) []string {
	items := []string{}
	for _, item := range strings.Split(inner, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func trimCR(s string) string {
	return strings.TrimSuffix(s, "\r")
}
