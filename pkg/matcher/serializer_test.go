package matcher

import (
	"strings"
	"testing"

	"navi-be/internal/entity"
)

func TestSerializePersonaFullProfile(t *testing.T) {
	p := &entity.Persona{
		Name:              "Maria Alvarez",
		Role:              "Trucking company owner",
		Location:          "Texas",
		AgeBracket:        "45-54",
		EmploymentStatus:  "Self-employed",
		Industry:          "Freight transportation",
		PolicyInterests:   []string{"emissions standards", "highway safety"},
		PreferredAgencies: []string{"EPA", "DOT"},
		ImpactLevels:      []string{"Federal", "State"},
		Context:           "Runs a fleet of 12 diesel trucks.",
	}

	got := SerializePersona(p)
	want := strings.Join([]string{
		"Name: Maria Alvarez",
		"Role: Trucking company owner",
		"Location: Texas",
		"Age Bracket: 45-54",
		"Employment Status: Self-employed",
		"Industry: Freight transportation",
		"Policy Interests: emissions standards, highway safety",
		"Preferred Agencies: EPA, DOT",
		"Impact Levels: Federal, State",
		"Additional Context: Runs a fleet of 12 diesel trucks.",
	}, "\n")

	if got != want {
		t.Errorf("serialized profile mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestSerializePersonaOmitsEmptyFields(t *testing.T) {
	p := &entity.Persona{
		Name:            "Jo",
		Location:        "  ",                      // whitespace counts as unset
		PolicyInterests: []string{"", "  ", "tax"}, // blanks dropped from lists
	}

	got := SerializePersona(p)
	want := "Name: Jo\nPolicy Interests: tax"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	if strings.Contains(got, "Location") {
		t.Error("whitespace-only field must be omitted")
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("serialized profile must not end with a newline")
	}
}

// The embedding model is phrasing-sensitive, so serialization must be
// byte-stable across calls.
func TestSerializePersonaDeterministic(t *testing.T) {
	p := &entity.Persona{
		Name:            "Jo",
		PolicyInterests: []string{"energy", "housing"},
	}
	first := SerializePersona(p)
	for i := 0; i < 10; i++ {
		if SerializePersona(p) != first {
			t.Fatal("serialization is not deterministic")
		}
	}
}

func TestSerializePersonaEmpty(t *testing.T) {
	if got := SerializePersona(&entity.Persona{}); got != "" {
		t.Errorf("empty persona should serialize to empty string, got %q", got)
	}
}
