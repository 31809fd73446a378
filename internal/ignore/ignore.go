// Package ignore evaluates paths against an ordered list of gitignore-style
// glob rules. Later rules win over earlier ones, so a `!`-prefixed rule can
// re-include a path excluded before it, and a plain rule can re-exclude it
// again. Matching is dot-aware: a path with a `.`-led segment only matches
// patterns that themselves spell out a `.`-led segment.
package ignore

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// rule is one parsed ignore pattern.
type rule struct {
	pattern string // original pattern text, without any leading '!'
	negate  bool
	dotted  bool // pattern contains a '.'-led segment
	globs   []glob.Glob
}

// RuleSet is an ordered, immutable sequence of ignore rules.
type RuleSet struct {
	rules []rule
}

// Default returns the rule set used when no ignore file exists: exclude
// everything, re-include recognized source extensions and the manifest,
// and always exclude version control and dependency directories.
func Default() *RuleSet {
	rs, err := Compile([]string{
		"**",
		"!appsscript.json",
		"!*.gs",
		"!*.js",
		"!*.ts",
		"!*.html",
		".*",
		"**/.*/**",
		"**/.git/**",
		"**/node_modules/**",
	})
	if err != nil {
		// The built-in patterns are constants; a compile failure is a bug.
		panic(fmt.Sprintf("ignore: compiling default rules: %v", err))
	}
	return rs
}

// Load reads an ignore file from path. A missing file yields (nil, nil) so
// the caller can fall back to Default.
func Load(path string) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file %s: %w", path, err)
	}
	defer f.Close()

	rs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing ignore file %s: %w", path, err)
	}
	return rs, nil
}

// Parse reads one glob pattern per line. Blank lines and `#`-prefixed
// comments are skipped; a leading `!` marks a re-include; `\#` and `\!`
// escape those prefixes.
func Parse(r io.Reader) (*RuleSet, error) {
	var patterns []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, `\`)
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore rules: %w", err)
	}

	rs, err := Compile(patterns)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// Compile builds a RuleSet from raw pattern strings, preserving order.
func Compile(patterns []string) (*RuleSet, error) {
	rs := &RuleSet{}
	for _, p := range patterns {
		r, err := compileRule(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		rs.rules = append(rs.rules, r)
	}
	return rs, nil
}

// IsIgnored reports whether path is excluded by the rule set. The last
// matching rule decides. Paths are normalized to '/' separators and made
// relative before matching.
func (rs *RuleSet) IsIgnored(path string) bool {
	p := filepath.ToSlash(path)
	p = strings.TrimPrefix(p, "./")

	dotted := hasDottedSegment(p)

	ignored := false
	for _, r := range rs.rules {
		if dotted && !r.dotted {
			continue
		}
		if r.matches(p) {
			ignored = !r.negate
		}
	}
	return ignored
}

// compileRule expands one pattern into its matching variants:
//   - a trailing '/' means "everything under this directory"
//   - a pattern without '/' matches its basename at any depth
//   - a leading '**/' also matches at the root
func compileRule(pattern string) (rule, error) {
	r := rule{pattern: pattern}

	p := pattern
	if strings.HasPrefix(p, "!") {
		r.negate = true
		p = p[1:]
	}

	if strings.HasSuffix(p, "/") {
		p += "**"
	}

	r.dotted = hasDottedSegment(p)

	variants := []string{p}
	if !strings.Contains(p, "/") {
		variants = append(variants, "**/"+p)
	}
	if rest := strings.TrimPrefix(p, "**/"); rest != p {
		variants = append(variants, rest)
	}

	for _, v := range variants {
		g, err := glob.Compile(v, '/')
		if err != nil {
			return rule{}, fmt.Errorf("compiling glob: %w", err)
		}
		r.globs = append(r.globs, g)
	}

	return r, nil
}

func (r rule) matches(path string) bool {
	for _, g := range r.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// hasDottedSegment reports whether any '/'-separated segment of s starts
// with a literal dot.
func hasDottedSegment(s string) bool {
	for _, seg := range strings.Split(s, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
