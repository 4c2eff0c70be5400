package models

type ContactInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

type SkillSet struct {
	Technical  []string `json:"technical"`
	Languages  []string `json:"languages"`
	Frameworks []string `json:"frameworks"`
	Tools      []string `json:"tools"`
}

type ExperienceEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// ResumeAnalysis is the structured result of resume parsing by the gateway.
type ResumeAnalysis struct {
	ContactInfo     ContactInfo       `json:"contactInfo"`
	Skills          SkillSet          `json:"skills"`
	Experience      []ExperienceEntry `json:"experience"`
	Education       []EducationEntry  `json:"education"`
	ExperienceLevel ExperienceLevel   `json:"experienceLevel"`
	Summary         string            `json:"summary"`
}

// CandidateProfile is the input to question generation.
type CandidateProfile struct {
	Name            string
	Skills          []string
	ExperienceLevel ExperienceLevel
}
