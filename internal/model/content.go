package model

// Go models for the career content read by the renderer. JSON tags match
// content.schema.json.

type PersonalInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type Experience struct {
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Period       string   `json:"period"`
	Location     string   `json:"location,omitempty"`
	Description  string   `json:"description,omitempty"`
	Highlights   []string `json:"highlights"`
	Technologies []string `json:"technologies"`
	Order        int      `json:"order"`
}

type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Period string `json:"period"`
	Order  int    `json:"order"`
}

// Skill is rendered as a flat list. Category is kept for callers that
// group skills; the templates ignore it.
type Skill struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Order    int    `json:"order"`
}

// Content is one consistent read of everything a résumé is built from.
type Content struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Experiences  []Experience `json:"experiences"`
	Education    []Education  `json:"education"`
	Skills       []Skill      `json:"skills"`
}

// SkillNames returns the skill names in slice order.
func (c Content) SkillNames() []string {
	out := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		out = append(out, s.Name)
	}
	return out
}
