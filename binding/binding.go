// Package binding 处理节点命名模板中的 ${path} 占位符。
package binding

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Template 是带占位符的命名模式，例如 "${tooltip}-${view}"。
type Template string

// Render interpolates the template with data.
func (t Template) Render(data any) string { return Interpolate(string(t), data) }

// Fields returns the placeholder paths in order of appearance.
func (t Template) Fields() []string {
	var out []string
	for _, m := range exprPattern.FindAllStringSubmatch(string(t), -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

// Check reports placeholders whose root key is not in allowed.
func (t Template) Check(allowed ...string) error {
	for _, f := range t.Fields() {
		root, _ := parseSegment(strings.SplitN(f, ".", 2)[0])
		if !slices.Contains(allowed, root) {
			return fmt.Errorf("模板 %q 中的占位符 ${%s} 不可用，可用字段: %s", string(t), f, strings.Join(allowed, ", "))
		}
	}
	return nil
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则返回原占位符。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		if val, ok := resolvePath(data, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

func resolvePath(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			current, ok = descendMap(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendArray(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	name := segment
	var indexes []string
	if i := strings.Index(segment, "["); i != -1 {
		name = segment[:i]
		rest := segment[i:]
		for len(rest) > 0 && rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
	}
	return name, indexes
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	case []string:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}
