// Package svgattr parses the small attribute languages embedded in vector
// markup: inline style declarations, transform lists and unit lengths.
package svgattr

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/parse/v2/strconv"
)

var (
	styleLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Semi", Pattern: `;`},
		{Name: "Colon", Pattern: `:`},
		{Name: "Word", Pattern: `[^;:\s]+`},
	})

	transformLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
		{Name: "Ident", Pattern: `[A-Za-z]+`},
		{Name: "Punct", Pattern: `[(),]`},
	})

	styleParser = participle.MustBuild[Style](
		participle.Lexer(styleLexer),
		participle.Elide("Whitespace"),
	)

	transformParser = participle.MustBuild[TransformList](
		participle.Lexer(transformLexer),
		participle.Elide("Whitespace"),
	)
)

// Style is the AST of an inline style attribute (`fill:#fff; font-size:12px`).
type Style struct {
	Declarations []*Declaration `parser:"';'* ( @@ ';'* )*"`
}

// Declaration is one `property: value` pair.
type Declaration struct {
	Property string   `parser:"@Word"`
	Value    []string `parser:"':' @( Word | Colon )*"`
}

// TransformList is the AST of a transform attribute.
type TransformList struct {
	Ops []*TransformOp `parser:"( @@ ','? )*"`
}

// TransformOp is a single transform function such as translate(10, 20).
type TransformOp struct {
	Name string    `parser:"@Ident"`
	Args []float64 `parser:"'(' ( @Number ( ','? @Number )* )? ')'"`
}

// ParseStyle parses an inline style attribute into a property map.
// Property names and values are lower-cased; later declarations win.
func ParseStyle(input string) (map[string]string, error) {
	out := map[string]string{}
	if strings.TrimSpace(input) == "" {
		return out, nil
	}
	st, err := styleParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("解析 style 失败: %w", err)
	}
	for _, d := range st.Declarations {
		key := strings.ToLower(strings.TrimSpace(d.Property))
		val := strings.ToLower(strings.TrimSpace(strings.Join(d.Value, " ")))
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	return out, nil
}

// ParseTransform parses a transform attribute and folds it into one matrix.
func ParseTransform(input string) (canvas.Matrix, error) {
	if strings.TrimSpace(input) == "" {
		return canvas.Identity, nil
	}
	list, err := transformParser.ParseString("", input)
	if err != nil {
		return canvas.Identity, fmt.Errorf("解析 transform 失败: %w", err)
	}
	m := canvas.Identity
	for _, op := range list.Ops {
		opm, err := op.Matrix()
		if err != nil {
			return canvas.Identity, err
		}
		m = m.Mul(opm)
	}
	return m, nil
}

// ParseLength splits a length such as "12px" into its number and unit.
func ParseLength(input string) (float64, string, bool) {
	b := []byte(strings.TrimSpace(input))
	v, n := strconv.ParseFloat(b)
	if n == 0 {
		return 0, "", false
	}
	return v, strings.ToLower(strings.TrimSpace(string(b[n:]))), true
}
