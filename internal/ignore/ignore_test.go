package ignore

import (
	"strings"
	"testing"
)

func TestLastMatchWins(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{
			name:     "exclude all",
			patterns: []string{"**/**"},
			path:     "notes.txt",
			want:     true,
		},
		{
			name:     "re-include after exclude all",
			patterns: []string{"**/**", "!Code.js"},
			path:     "Code.js",
			want:     false,
		},
		{
			name:     "re-include leaves others excluded",
			patterns: []string{"**/**", "!Code.js"},
			path:     "other.js",
			want:     true,
		},
		{
			name:     "ignore appended after re-include wins",
			patterns: []string{"**/**", "!Code.js", "Code.js"},
			path:     "Code.js",
			want:     true,
		},
		{
			name:     "basename pattern matches at depth",
			patterns: []string{"*.txt"},
			path:     "docs/deep/readme.txt",
			want:     true,
		},
		{
			name:     "directory pattern",
			patterns: []string{"build/"},
			path:     "build/out.js",
			want:     true,
		},
		{
			name:     "no rules match",
			patterns: []string{"*.txt"},
			path:     "Code.js",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := Compile(tt.patterns)
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
			if got := rs.IsIgnored(tt.path); got != tt.want {
				t.Errorf("IsIgnored(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDotAwareMatching(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{
			name:     "catch-all does not reach dotfiles",
			patterns: []string{"**"},
			path:     ".claspignore",
			want:     false,
		},
		{
			name:     "catch-all does not reach files under dot directories",
			patterns: []string{"**/**"},
			path:     ".git/HEAD",
			want:     false,
		},
		{
			name:     "explicit dot pattern matches dot directory contents",
			patterns: []string{"**/.git/**"},
			path:     ".git/objects/ab/cdef",
			want:     true,
		},
		{
			name:     "explicit dot pattern matches dotfile",
			patterns: []string{".*"},
			path:     ".envrc",
			want:     true,
		},
		{
			name:     "extension re-include does not resurrect dotfiles",
			patterns: []string{".*", "!*.js"},
			path:     ".secret.js",
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := Compile(tt.patterns)
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
			if got := rs.IsIgnored(tt.path); got != tt.want {
				t.Errorf("IsIgnored(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"# build output",
		"",
		"dist/**",
		"!dist/keep.js",
		`\#littered.js`,
	}, "\n")

	rs, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(rs.rules) != 3 {
		t.Fatalf("rule count = %d, want 3 (comments and blanks skipped)", len(rs.rules))
	}

	if !rs.IsIgnored("dist/bundle.js") {
		t.Error("dist/bundle.js should be ignored")
	}
	if rs.IsIgnored("dist/keep.js") {
		t.Error("dist/keep.js should be re-included")
	}
	if !rs.IsIgnored("#littered.js") {
		t.Error("escaped pattern should match a literal # filename")
	}
}

func TestDefaultRules(t *testing.T) {
	rs := Default()

	tests := []struct {
		path string
		want bool
	}{
		{"Code.js", false},
		{"Code.gs", false},
		{"ui/sidebar.html", false},
		{"util/helpers.ts", false},
		{"appsscript.json", false},
		{"notes.txt", true},
		{"package.json", true},
		{"README.md", true},
		{".git/HEAD", true},
		{".claspignore", true},
		{"node_modules/left-pad/index.js", true},
		{"src/node_modules/dep/main.js", true},
	}

	for _, tt := range tests {
		if got := rs.IsIgnored(tt.path); got != tt.want {
			t.Errorf("IsIgnored(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestPathNormalization(t *testing.T) {
	rs, err := Compile([]string{"dist/**"})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if !rs.IsIgnored("dist/sub/out.js") {
		t.Error("dist/sub/out.js should be ignored")
	}
	if !rs.IsIgnored("./dist/out.js") {
		t.Error("leading ./ should be stripped before matching")
	}
}
