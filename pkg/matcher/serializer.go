package matcher

import (
	"strings"

	"navi-be/internal/entity"
)

// SerializePersona flattens a persona into the text block used both for
// embedding and for prompt inclusion. Field order is fixed: the embedding
// model is sensitive to phrasing, so reordering fields silently changes
// match results. Unset fields are omitted entirely.
func SerializePersona(p *entity.Persona) string {
	var b strings.Builder

	writeField(&b, "Name", p.Name)
	writeField(&b, "Role", p.Role)
	writeField(&b, "Location", p.Location)
	writeField(&b, "Age Bracket", p.AgeBracket)
	writeField(&b, "Employment Status", p.EmploymentStatus)
	writeField(&b, "Industry", p.Industry)
	writeListField(&b, "Policy Interests", p.PolicyInterests)
	writeListField(&b, "Preferred Agencies", p.PreferredAgencies)
	writeListField(&b, "Impact Levels", p.ImpactLevels)
	writeField(&b, "Additional Context", p.Context)

	return strings.TrimRight(b.String(), "\n")
}

func writeField(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

func writeListField(b *strings.Builder, label string, values []string) {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return
	}
	writeField(b, label, strings.Join(kept, ", "))
}
