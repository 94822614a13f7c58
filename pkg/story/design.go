package story

import (
	"strings"

	"fable/pkg/schema"
)

// ComposeDesignDocument merges the main character's profile and any
// secondary profiles into the single consistency reference prepended to
// every illustration prompt. Secondary profiles keep their given order.
func ComposeDesignDocument(mainProfile string, secondaries []schema.CharacterProfile) string {
	var b strings.Builder
	b.WriteString("CHARACTER DESIGN REFERENCE\n\nMAIN CHARACTER:\n")
	b.WriteString(strings.TrimSpace(mainProfile))

	if len(secondaries) > 0 {
		b.WriteString("\n\nSECONDARY CHARACTERS:\n")
		for i, sec := range secondaries {
			if i > 0 {
				b.WriteString("\n\n")
			}
			profile := strings.TrimSpace(sec.Profile)
			if sec.Name != "" && !strings.Contains(profile, sec.Name) {
				b.WriteString(sec.Name)
				b.WriteString(": ")
			}
			b.WriteString(profile)
		}
	}

	b.WriteString("\n\n")
	b.WriteString(designDocumentTrailer)
	return b.String()
}
