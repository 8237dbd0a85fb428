// Package model holds the Persona entity and its owned content
// collections. Grounded on
// original_source/backend/app/models/persona.py and persona_content.py.
package model

import (
	"errors"
	"time"
)

type RemotePreference string

const (
	RemoteOnly     RemotePreference = "Remote Only"
	HybridOK       RemotePreference = "Hybrid OK"
	OnsiteOK       RemotePreference = "Onsite OK"
	NoPreference   RemotePreference = "No Preference"
)

type StretchAppetite string

const (
	StretchLow    StretchAppetite = "Low"
	StretchMedium StretchAppetite = "Medium"
	StretchHigh   StretchAppetite = "High"
)

// Persona is a user's professional identity: contact info, career
// goals, matching preferences and thresholds.
type Persona struct {
	ID          string
	UserID      string
	Email       string
	FullName    string
	Phone       string
	HomeCity    string
	HomeState   string
	HomeCountry string

	LinkedInURL   *string
	PortfolioURL  *string

	ProfessionalSummary *string
	YearsExperience     *int
	CurrentRole         *string
	CurrentCompany      *string

	TargetRoles        []string
	TargetSkills       []string
	CommutableCities   []string
	RelocationCities   []string
	IndustryExclusions []string

	StretchAppetite        StretchAppetite
	MinimumBaseSalary      *int
	SalaryCurrency         string
	MaxCommuteMinutes      *int
	RemotePreference       RemotePreference
	RelocationOpen         bool
	VisaSponsorshipRequired bool

	MinimumFitThreshold int
	AutoDraftThreshold  int

	OnboardingComplete bool
	OnboardingStep     *string

	OriginalResumeFileID *string

	// VoiceProfile is C10 step 6's cover-letter tone source; nil until
	// the persona has completed the onboarding step that captures it.
	VoiceProfile *VoiceProfile

	CreatedAt time.Time
	UpdatedAt time.Time
}

// VoiceProfile captures how a persona wants to sound in generated
// prose, so C10's cover-letter draft doesn't read generically.
type VoiceProfile struct {
	Tone          string   `json:"tone"`
	Style         string   `json:"style"`
	SamplePhrases []string `json:"sample_phrases"`
}

type SkillType string

const (
	SkillHard SkillType = "Hard"
	SkillSoft SkillType = "Soft"
)

// Skill is one professional skill possessed by the persona.
type Skill struct {
	ID           string
	PersonaID    string
	SkillName    string
	SkillType    SkillType
	Category     string
	Proficiency  string
	YearsUsed    int
	LastUsed     string
	DisplayOrder int
}

// WorkHistory is one employment entry on the persona's career timeline.
type WorkHistory struct {
	ID          string
	PersonaID   string
	CompanyName string
	Title       string
	Location    *string
	StartDate   time.Time
	EndDate     *time.Time
	IsCurrent   bool
	DisplayOrder int
}

// Education is one academic credential entry.
type Education struct {
	ID           string
	PersonaID    string
	Institution  string
	Degree       string
	FieldOfStudy *string
	GraduationYear *int
	DisplayOrder int
}

// AchievementStory is a STAR-format story used for cover-letter
// generation (C10 step 5).
type AchievementStory struct {
	ID                  string
	PersonaID           string
	Title               string
	Context             string
	Action              string
	Outcome             string
	SkillsDemonstrated  []string
	RelatedJobID        *string
	DisplayOrder        int
}

var (
	ErrPersonaNotFound    = errors.New("persona not found")
	ErrFullNameRequired   = errors.New("full name is required")
)
