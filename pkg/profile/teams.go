package profile

// Team identifiers as stored in the user document.
const (
	TeamRed    = "Rojo"
	TeamBlue   = "Azul"
	TeamYellow = "Amarillo"
)

// Team describes a selectable team.
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Leader      string `json:"leader"`
	Description string `json:"description"`
}

var teams = []Team{
	{
		ID:          TeamRed,
		Name:        "Team Valor (Rojo)",
		Leader:      "Candela",
		Description: "Cree que la verdadera fuerza de un Pokémon se logra entrenando con pasión y coraje.",
	},
	{
		ID:          TeamBlue,
		Name:        "Team Mystic (Azul)",
		Leader:      "Blanche",
		Description: "Valora la sabiduría y el estudio de la evolución para entender a los Pokémon.",
	},
	{
		ID:          TeamYellow,
		Name:        "Team Instinct (Amarillo)",
		Leader:      "Spark",
		Description: "Confía en la intuición y en el instinto natural que une a los entrenadores con sus Pokémon.",
	},
}

// Teams returns the selectable teams in display order.
func Teams() []Team {
	out := make([]Team, len(teams))
	copy(out, teams)
	return out
}

// ValidTeam reports whether id names a selectable team.
func ValidTeam(id string) bool {
	for _, t := range teams {
		if t.ID == id {
			return true
		}
	}
	return false
}
