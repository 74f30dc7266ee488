package position

import "testing"

func TestAdvance(t *testing.T) {
	tests := []struct {
		name  string
		bytes string
		want  Position
	}{
		{name: "single char", bytes: "a", want: Position{Offset: 1, Line: 1, Column: 2}},
		{name: "newline resets column", bytes: "ab\n", want: Position{Offset: 3, Line: 2, Column: 1}},
		{name: "two lines", bytes: "a\nb", want: Position{Offset: 3, Line: 2, Column: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Start()
			for i := 0; i < len(tt.bytes); i++ {
				p = p.Advance(tt.bytes[i])
			}
			if p != tt.want {
				t.Fatalf("Advance(%q) = %+v, want %+v", tt.bytes, p, tt.want)
			}
		})
	}
}

func TestStart(t *testing.T) {
	p := Start()
	if p.Offset != 0 || p.Line != 1 || p.Column != 1 {
		t.Fatalf("Start() = %+v, want offset=0 line=1 column=1", p)
	}
}
