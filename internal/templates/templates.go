// Package templates holds the fixed catalog of document templates and tone
// options. The catalog is part of the API surface: template and tone names
// arriving in requests are checked against it.
package templates

// Template describes one document type offered by the writer.
type Template struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// Catalog lists the available templates; the last entry is the fallback.
var Catalog = []Template{
	{Name: "formal_letter", DisplayName: "Formal Letter", Description: "Business correspondence, requests, official letters"},
	{Name: "memo", DisplayName: "Memo", Description: "Internal communications, policy announcements"},
	{Name: "report", DisplayName: "Report", Description: "Research findings, analysis, structured reports"},
	{Name: "email_draft", DisplayName: "Email Draft", Description: "Professional emails, follow-ups, introductions"},
	{Name: "thank_you", DisplayName: "Thank You Note", Description: "Gratitude, acknowledgments, appreciation"},
	{Name: "meeting_summary", DisplayName: "Meeting Summary", Description: "Meeting notes to structured minutes"},
	{Name: "personal_letter", DisplayName: "Personal Letter", Description: "Family, friends, personal correspondence"},
	{Name: "general", DisplayName: "General Document", Description: "Freeform writing, no structure imposed"},
}

// Tones are the selectable writing tones.
var Tones = []string{
	"Formal",
	"Professional",
	"Friendly",
	"Casual",
	"Academic",
	"Persuasive",
}

// ByName looks up a template by its internal name, falling back to the
// general template for unknown names.
func ByName(name string) Template {
	for _, t := range Catalog {
		if t.Name == name {
			return t
		}
	}
	return Catalog[len(Catalog)-1]
}

// ValidTone reports whether tone is one of the selectable tones.
func ValidTone(tone string) bool {
	for _, t := range Tones {
		if t == tone {
			return true
		}
	}
	return false
}
