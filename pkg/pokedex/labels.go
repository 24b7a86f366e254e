package pokedex

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LabelTable maps external enumerated codes to display labels.
type LabelTable map[string]string

// CategoryLabels translates PokeAPI type names.
var CategoryLabels = LabelTable{
	"bug":      "Bicho",
	"dark":     "Siniestro",
	"dragon":   "Dragón",
	"electric": "Eléctrico",
	"fairy":    "Hada",
	"fighting": "Lucha",
	"fire":     "Fuego",
	"flying":   "Volador",
	"ghost":    "Fantasma",
	"grass":    "Planta",
	"ground":   "Tierra",
	"ice":      "Hielo",
	"normal":   "Normal",
	"poison":   "Veneno",
	"psychic":  "Psíquico",
	"rock":     "Roca",
	"steel":    "Acero",
	"water":    "Agua",
}

// AttributeLabels translates PokeAPI stat names.
var AttributeLabels = LabelTable{
	"hp":              "PS",
	"attack":          "Ataque",
	"defense":         "Defensa",
	"special-attack":  "Ataque especial",
	"special-defense": "Defensa especial",
	"speed":           "Velocidad",
}

var separatorReplacer = strings.NewReplacer("-", " ", "_", " ")

// Translate returns the label for code, or FallbackLabel(code) when the
// table has no entry.
func (t LabelTable) Translate(code string) string {
	if label, ok := t[code]; ok {
		return label
	}
	return FallbackLabel(code)
}

// TranslateAll translates codes in order.
func (t LabelTable) TranslateAll(codes []string) []string {
	out := make([]string, len(codes))
	for i, code := range codes {
		out[i] = t.Translate(code)
	}
	return out
}

// FallbackLabel replaces word separators with spaces and capitalizes the
// first character. It is defined for every input, including "".
func FallbackLabel(code string) string {
	return Capitalize(separatorReplacer.Replace(code))
}

// Capitalize title-cases the first rune of s and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}

// TranslateCategory translates a type code.
func TranslateCategory(code string) string {
	return CategoryLabels.Translate(code)
}

// TranslateAttribute translates a stat code.
func TranslateAttribute(code string) string {
	return AttributeLabels.Translate(code)
}
