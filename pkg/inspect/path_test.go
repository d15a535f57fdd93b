package inspect

import (
	"errors"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		segments []string
		wantErr  error
	}{
		{name: "single", input: "yag", segments: []string{"yag"}},
		{name: "nested", input: "tower1.h1n_state", segments: []string{"tower1", "h1n_state"}},
		{name: "deep", input: "calc.th1_c.motor.user_readback", segments: []string{"calc", "th1_c", "motor", "user_readback"}},
		{name: "whitespace trimmed", input: "  foil.state ", segments: []string{"foil", "state"}},
		{name: "empty", input: "", wantErr: ErrEmptyPath},
		{name: "blank", input: "   ", wantErr: ErrEmptyPath},
		{name: "leading dot", input: ".yag", wantErr: ErrInvalidPath},
		{name: "trailing dot", input: "yag.", wantErr: ErrInvalidPath},
		{name: "double dot", input: "tower1..h1n_state", wantErr: ErrInvalidPath},
		{name: "slash", input: "tower1/h1n_state", wantErr: ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePath(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParsePath(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePath(%q) unexpected error: %v", tt.input, err)
			}
			if len(p.Segments) != len(tt.segments) {
				t.Fatalf("Segments = %v, want %v", p.Segments, tt.segments)
			}
			for i := range tt.segments {
				if p.Segments[i] != tt.segments[i] {
					t.Errorf("Segments[%d] = %q, want %q", i, p.Segments[i], tt.segments[i])
				}
			}
		})
	}
}

func TestPathParentAndLast(t *testing.T) {
	p, err := ParsePath("calc.th1_c.motor")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Last(); got != "motor" {
		t.Errorf("Last() = %q, want %q", got, "motor")
	}
	parent := p.Parent()
	if parent == nil || parent.String() != "calc.th1_c" {
		t.Errorf("Parent() = %v, want calc.th1_c", parent)
	}
	if root := parent.Parent().Parent(); root != nil {
		t.Errorf("Parent of single segment = %v, want nil", root)
	}
}
