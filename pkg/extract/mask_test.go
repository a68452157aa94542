package extract

import (
	"strings"
	"testing"
)

func TestMaskSourcePreservesShape(t *testing.T) {
	src := "const a = 'text';\n// comment\nexport const b = 2;\n"
	masked := maskSource(src)

	if len(masked) != len(src) {
		t.Fatalf("masked length = %d, want %d", len(masked), len(src))
	}
	if strings.Count(masked, "\n") != strings.Count(src, "\n") {
		t.Errorf("newline count changed: %q", masked)
	}
}

func TestMaskSource(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		wantGone   []string // substrings that must not survive masking
		wantKept   []string // substrings that must survive
	}{
		{
			name:     "string content masked",
			source:   `const s = 'export const x = 1';`,
			wantGone: []string{"export"},
			wantKept: []string{"const s ="},
		},
		{
			name:     "line comment masked",
			source:   "let a = 1; // trailing export note",
			wantGone: []string{"trailing", "export"},
			wantKept: []string{"let a = 1;"},
		},
		{
			name:     "block comment with brace masked",
			source:   "export { a /* not a close } */ } from './a';",
			wantGone: []string{"not a close"},
			wantKept: []string{"export { a", "} from"},
		},
		{
			name:     "template content masked",
			source:   "const t = `hello ${who} bye`;",
			wantGone: []string{"hello", "bye"},
			wantKept: []string{"who"},
		},
		{
			name:     "regex content masked",
			source:   "const re = /export .*/;",
			wantGone: []string{"export"},
			wantKept: []string{"const re ="},
		},
		{
			name:     "division right side kept",
			source:   "const r = total / count / 2;",
			wantKept: []string{"total", "count"},
		},
		{
			name:     "code between strings kept",
			source:   `f('a', realArg, "b")`,
			wantGone: []string{"a", "b"},
			wantKept: []string{"realArg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			masked := maskSource(tt.source)
			for _, s := range tt.wantGone {
				if strings.Contains(masked, s) {
					t.Errorf("masked output still contains %q: %q", s, masked)
				}
			}
			for _, s := range tt.wantKept {
				if !strings.Contains(masked, s) {
					t.Errorf("masked output lost %q: %q", s, masked)
				}
			}
		})
	}
}

func TestMaskSourceUnterminatedString(t *testing.T) {
	// An unterminated string stops at the newline so the rest of the file
	// is still scanned.
	src := "const broken = 'oops\nexport const real = 1;"
	masked := maskSource(src)
	if !strings.Contains(masked, "export const real") {
		t.Errorf("code after unterminated string was masked: %q", masked)
	}
}
