package source

import "testing"

func TestLineColumn(t *testing.T) {
	sf := NewEvalSource("let a;\n  é = 1;\nfoo()")
	tests := []struct {
		offset     int
		line, col int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{7, 2, 1},
		{11, 2, 4}, // 'é' is two bytes but one column
		{len(sf.Content), 3, 6},
	}
	for _, tt := range tests {
		line, col := sf.LineColumn(tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("LineColumn(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.col)
		}
	}
}

func TestDecodeBOM(t *testing.T) {
	utf8BOM := []byte{0xEF, 0xBB, 0xBF, 'x', '=', '1'}
	got, err := Decode(utf8BOM)
	if err != nil || got != "x=1" {
		t.Errorf("Decode(utf8 bom) = %q, %v", got, err)
	}

	utf16LE := []byte{0xFF, 0xFE, 'a', 0, ';', 0}
	got, err = Decode(utf16LE)
	if err != nil || got != "a;" {
		t.Errorf("Decode(utf16le bom) = %q, %v", got, err)
	}

	plain := []byte("var q;")
	got, err = Decode(plain)
	if err != nil || got != "var q;" {
		t.Errorf("Decode(plain) = %q, %v", got, err)
	}
}
