package highlight

import (
	"reflect"
	"testing"
)

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"lowercase and de-accent", "Bomba Centrífuga", []string{"bomba", "centrifuga"}},
		{"short words dropped", "de o para bomba", []string{"para", "bomba"}},
		{"whole short query kept", "ar", []string{"ar"}},
		{"punctuation splits", "bomba-d'água", []string{"bomba", "agua"}},
		{"dedupe keeps first", "bomba BOMBA filtro bomba", []string{"bomba", "filtro"}},
		{"digits survive", "ncm 8413", []string{"ncm", "8413"}},
		{"empty", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeQuery(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeQuery(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestStripDiacritics(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"centrífuga", "centrifuga"},
		{"posição", "posicao"},
		{"ção até î", "cao ate i"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := stripDiacritics(tt.in); got != tt.want {
			t.Errorf("stripDiacritics(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildTermPattern(t *testing.T) {
	re, err := buildTermPattern("centrifuga")
	if err != nil {
		t.Fatalf("buildTermPattern error: %v", err)
	}
	for _, text := range []string{"centrifuga", "centrífuga", "CENTRÍFUGA", "Centrifugação"} {
		if !re.MatchString(text) {
			t.Errorf("pattern did not match %q", text)
		}
	}
	if re.MatchString("centrefuga") {
		t.Errorf("pattern matched unrelated text")
	}
}

func TestBuildTermPatternEmpty(t *testing.T) {
	if _, err := buildTermPattern("  "); err == nil {
		t.Errorf("expected error for blank term")
	}
}

func TestBuildTermPatternAccentBothWays(t *testing.T) {
	// A normalized term must find both the accented and plain spellings.
	re, err := buildTermPattern("agua")
	if err != nil {
		t.Fatalf("buildTermPattern error: %v", err)
	}
	if !re.MatchString("água") || !re.MatchString("agua") {
		t.Errorf("pattern missed an accent variant")
	}
}
