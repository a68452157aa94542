package extract

import (
	"context"
	"slices"
	"testing"
)

func TestNewExtractorUnknownBackend(t *testing.T) {
	if _, err := NewExtractor("bogus"); err == nil {
		t.Error("NewExtractor(bogus) expected error")
	}
}

func TestExtractorHeuristic(t *testing.T) {
	e, err := NewExtractor(BackendHeuristic)
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}
	defer e.Close()

	got, err := e.Extract(context.Background(), "alpha.ts", "export const alpha = 1;")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []Record{{Name: "alpha"}}
	if !slices.Equal(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractorTreeSitter(t *testing.T) {
	e, err := NewExtractor(BackendTreeSitter)
	if err != nil {
		t.Skipf("tree-sitter backend unavailable: %v", err)
	}
	defer e.Close()

	tests := []struct {
		name   string
		file   string
		source string
		want   []Record
	}{
		{
			name:   "const",
			file:   "a.ts",
			source: "export const alpha = 1;",
			want:   []Record{{Name: "alpha"}},
		},
		{
			name:   "interface and default",
			file:   "b.ts",
			source: "export interface Bravo {}\nexport default function bravo() {}",
			want:   []Record{{Name: "Bravo", TypeOnly: true}, {Name: "default"}},
		},
		{
			name:   "aliased re-export",
			file:   "c.ts",
			source: "export { helper as util } from './helpers';",
			want:   []Record{{Name: "util"}},
		},
		{
			name:   "string content ignored",
			file:   "d.ts",
			source: "const s = 'export const hidden = 1';",
			want:   nil,
		},
		{
			name:   "destructured export",
			file:   "e.ts",
			source: "export const { left, right } = pair;",
			want:   []Record{{Name: "left"}, {Name: "right"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Extract(context.Background(), tt.file, tt.source)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Extract() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractorHybridAgreesWithHeuristic(t *testing.T) {
	e, err := NewExtractor(BackendHybrid)
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}
	defer e.Close()

	// Hybrid always returns the heuristic result regardless of whether
	// tree-sitter was available.
	got, err := e.Extract(context.Background(), "a.ts", "export class Widget {}")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []Record{{Name: "Widget"}}
	if !slices.Equal(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}
