package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		locale language.Tag
		want   string
	}{
		{"plain", "Teknoloji", language.Turkish, "teknoloji"},
		{"case variants collapse", "teknoloji", language.Turkish, "teknoloji"},
		{"turkish letters", "Çağrı Şükür", language.Turkish, "cagri-sukur"},
		{"turkish dotted capital", "İSTANBUL ılık", language.Turkish, "istanbul-ilik"},
		{"turkish dotless capital", "IŞIK", language.Turkish, "isik"},
		{"punctuation and spaces", "  Hello,   World! ", language.English, "hello-world"},
		{"digits", "Go 1.22", language.English, "go-1-22"},
		{"german sharp s", "Straße", language.German, "strasse"},
		{"accents", "Crème Brûlée", language.French, "creme-brulee"},
		{"nordic", "Ørsted Æble", language.Danish, "orsted-aeble"},
		{"already a slug", "about-us", language.Turkish, "about-us"},
		{"only symbols", "!!! ???", language.Turkish, ""},
		{"empty", "", language.Turkish, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.input, tt.locale))
		})
	}
}

func TestMake_Idempotent(t *testing.T) {
	for _, in := range []string{"Çağrı Şükür", "Go 1.22", "İSTANBUL ılık"} {
		once := Make(in, language.Turkish)
		assert.Equal(t, once, Make(once, language.Turkish), in)
	}
}
