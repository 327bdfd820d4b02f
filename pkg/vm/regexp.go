package vm

import (
	"strings"

	"github.com/dlclark/regexp2"

	"njscore/pkg/errors"
)

// Pattern is the compiled payload of a RegExp object, backed by regexp2 in
// ECMAScript mode.
type Pattern struct {
	source     string
	flags      string
	global     bool
	ignoreCase bool
	multiline  bool
	re         *regexp2.Regexp
}

// CompilePattern compiles source with JavaScript flags (g, i, m).
func CompilePattern(source, flags string) (*Pattern, error) {
	p := &Pattern{source: source, flags: flags}
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	for _, f := range flags {
		switch f {
		case 'g':
			p.global = true
		case 'i':
			p.ignoreCase = true
			opts |= regexp2.IgnoreCase
		case 'm':
			p.multiline = true
			opts |= regexp2.Multiline
		default:
			return nil, errors.NewSyntaxError("Invalid RegExp flags supplied to RegExp constructor '%s'", flags)
		}
	}
	if strings.Count(flags, "g") > 1 || strings.Count(flags, "i") > 1 || strings.Count(flags, "m") > 1 {
		return nil, errors.NewSyntaxError("Invalid RegExp flags supplied to RegExp constructor '%s'", flags)
	}
	expr := source
	if expr == "" {
		expr = "(?:)"
	}
	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, errors.NewSyntaxError("Invalid regular expression: /%s/: %v", source, err).CausedBy(err)
	}
	p.re = re
	return p, nil
}

func (p *Pattern) Source() string {
	if p.source == "" {
		return "(?:)"
	}
	return p.source
}

func (p *Pattern) Flags() string    { return p.flags }
func (p *Pattern) Global() bool     { return p.global }
func (p *Pattern) IgnoreCase() bool { return p.ignoreCase }
func (p *Pattern) Multiline() bool  { return p.multiline }

// String renders the pattern as a literal, e.g. /a+/g.
func (p *Pattern) String() string {
	return "/" + p.Source() + "/" + p.flags
}

// Match runs the pattern once over s and returns the matched groups,
// or nil when there is no match.
func (p *Pattern) Match(s string) ([]string, int, error) {
	m, err := p.re.FindStringMatch(s)
	if err != nil || m == nil {
		return nil, -1, err
	}
	groups := m.Groups()
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.String()
	}
	return out, m.Index, nil
}

// Test reports whether s contains a match.
func (p *Pattern) Test(s string) (bool, error) {
	return p.re.MatchString(s)
}
