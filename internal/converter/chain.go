package converter

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

const arrow = "->"

// chainGrammar is the participle grammar for converter chains.
// Examples: "gml-to-json", "gml-to-json -> json-to-gml".
//
//nolint:govet // participle grammar tags are not standard struct tags
type chainGrammar struct {
	Steps []string `@Ident ( "->" @Ident )*`
}

// chainLexer tokenizes converter chains. Arrow must precede Ident so that
// hyphenated names do not swallow the arrow.
var chainLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Arrow", Pattern: `->`},
	{Name: "Ident", Pattern: `[A-Za-z0-9_.]+(?:-[A-Za-z0-9_.]+)*`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var chainParser = participle.MustBuild[chainGrammar](
	participle.Lexer(chainLexer),
	participle.Elide("Whitespace"),
)

// ParseChain splits a chain such as "a -> b -> c" into converter names.
func ParseChain(s string) ([]string, error) {
	ast, err := chainParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid converter chain %q: %w", s, err)
	}
	return ast.Steps, nil
}
