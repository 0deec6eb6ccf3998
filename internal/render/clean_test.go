package render

import (
	"reflect"
	"testing"
)

func TestCleanContent(t *testing.T) {
	raw := "Capítulo 84\r\nPágina 12\r\n----------\r\n•\r\nTexto útil  \r\nABCDEF123456\r\n"
	got := cleanContent(raw)
	want := []string{"Capítulo 84", "Texto útil", ""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cleanContent = %q, want %q", got, want)
	}
}

func TestIsNoise(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Página 3", true},
		{"-- página 3 de 10", true},
		{"====", true},
		{"•", true},
		{"- ", true},
		{"84.13 - Bombas", false},
		{"a) primeiro item", false},
		{"- item de lista", false},
	}
	for _, tt := range tests {
		if got := isNoise(tt.line); got != tt.want {
			t.Errorf("isNoise(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
