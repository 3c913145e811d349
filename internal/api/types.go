package api

// Section identifies one of the three named content slots of a blog.
type Section string

const (
	SectionTitle        Section = "TITLE"
	SectionIntroduction Section = "INTRODUCTION"
	SectionBody         Section = "BODY"
)

// AllSections lists the sections in document order.
var AllSections = []Section{SectionTitle, SectionIntroduction, SectionBody}

// Valid reports whether s is one of the three known sections.
func (s Section) Valid() bool {
	switch s {
	case SectionTitle, SectionIntroduction, SectionBody:
		return true
	}
	return false
}

// Field returns the lowercase JSON field name the generation endpoint
// uses for this section.
func (s Section) Field() string {
	switch s {
	case SectionTitle:
		return "title"
	case SectionIntroduction:
		return "introduction"
	case SectionBody:
		return "body"
	}
	return ""
}

// ParseSection normalizes a user-supplied section name.
func ParseSection(name string) (Section, bool) {
	switch name {
	case "title", "TITLE":
		return SectionTitle, true
	case "intro", "introduction", "INTRODUCTION":
		return SectionIntroduction, true
	case "body", "BODY":
		return SectionBody, true
	}
	return "", false
}

// Credentials is the result of a successful login.
type Credentials struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// Topic is a named content bucket owned by a user.
type Topic struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Sections holds the three text slots of a blog for one topic. Absent
// slots are empty strings. Values may contain HTML.
type Sections struct {
	Title        string `json:"title"`
	Introduction string `json:"intro"`
	Body         string `json:"body"`
}

// Get returns the content of the named section.
func (s Sections) Get(sec Section) string {
	switch sec {
	case SectionTitle:
		return s.Title
	case SectionIntroduction:
		return s.Introduction
	case SectionBody:
		return s.Body
	}
	return ""
}

// Set replaces the content of the named section.
func (s *Sections) Set(sec Section, content string) {
	switch sec {
	case SectionTitle:
		s.Title = content
	case SectionIntroduction:
		s.Introduction = content
	case SectionBody:
		s.Body = content
	}
}

// Empty reports whether every slot is blank.
func (s Sections) Empty() bool {
	return s.Title == "" && s.Introduction == "" && s.Body == ""
}

// GenerateRequest describes a section-generation call.
type GenerateRequest struct {
	UserID           string
	TopicID          string
	Topic            string
	Section          Section
	AdditionalPrompt string
}
