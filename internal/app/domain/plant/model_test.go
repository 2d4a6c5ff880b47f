package plant

import "testing"

func TestIconBySpecies(t *testing.T) {
	cases := map[string]string{
		"Cactus":              "🌵",
		"succulent mix":       "🌵",
		"Phalaenopsis orchid": "🌸",
		"Boston Fern":         "🌿",
		"Rose":                "🌹",
		"Herb garden":         "🍅",
		"Monstera":            "🌱",
		"":                    "🌱",
	}
	for species, want := range cases {
		if got := Icon(species); got != want {
			t.Errorf("Icon(%q) = %q, want %q", species, got, want)
		}
	}
}
