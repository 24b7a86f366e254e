package pokedex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateCategory(t *testing.T) {
	tests := map[string]string{
		"grass":    "Planta",
		"poison":   "Veneno",
		"dragon":   "Dragón",
		"psychic":  "Psíquico",
		"stellar":  "Stellar",
		"shadow":   "Shadow",
		"unknown":  "Unknown",
		"electric": "Eléctrico",
	}

	for code, want := range tests {
		assert.Equal(t, want, TranslateCategory(code), code)
	}
}

func TestTranslateAttribute(t *testing.T) {
	tests := map[string]string{
		"hp":              "PS",
		"attack":          "Ataque",
		"special-attack":  "Ataque especial",
		"special-defense": "Defensa especial",
		"speed":           "Velocidad",
		"accuracy":        "Accuracy",
		"evasion":         "Evasion",
	}

	for code, want := range tests {
		assert.Equal(t, want, TranslateAttribute(code), code)
	}
}

func TestFallbackLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"special-attack", "Special attack"},
		{"very_long-code", "Very long code"},
		{"x", "X"},
		{"", ""},
		{"-", " "},
		{"ñandu", "Ñandu"},
		{"Already", "Already"},
		{"123-abc", "123 abc"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FallbackLabel(tt.in), tt.in)
	}
}

func TestTranslate_UnmappedUsesFallback(t *testing.T) {
	table := LabelTable{"special-attack": "Ataque especial"}

	assert.Equal(t, "Ataque especial", table.Translate("special-attack"))
	assert.Equal(t, "Special defense", table.Translate("special-defense"))
}

func TestTranslate_StableAcrossCalls(t *testing.T) {
	first := CategoryLabels.TranslateAll([]string{"water", "fire", "bug"})
	_ = AttributeLabels.Translate("hp")
	second := CategoryLabels.TranslateAll([]string{"bug", "fire", "water"})

	assert.Equal(t, []string{"Agua", "Fuego", "Bicho"}, first)
	assert.Equal(t, []string{"Bicho", "Fuego", "Agua"}, second)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Bulbasaur", Capitalize("bulbasaur"))
	assert.Equal(t, "Mr. mime", Capitalize("mr. mime"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "\xff", Capitalize("\xff"))
}
