// Package scoring implements C9's fit/stretch scoring pipeline. The
// pure functions in this file are grounded on
// original_source/backend/app/services/pool_scoring.py line-for-line
// and are reused by both the full LLM-assisted scorer (service.go) and
// the surfacing worker (modules/surfacing) for its embedding-free
// lightweight pass.
package scoring

import "strings"

// FitNeutralScore is substituted for any component that cannot be
// computed from the data on hand (missing persona/job fields, or,
// for the lightweight pass, components that require embeddings).
const FitNeutralScore = 70.0

// Fit-score component weights, re-exported from model.go so
// modules/surfacing's lightweight pass can reproduce C9's weighting
// exactly (spec.md §4.11 step 4).
const (
	WeightHardSkills        = weightHardSkills
	WeightSoftSkills        = weightSoftSkills
	WeightExperienceLevel   = weightExperienceLevel
	WeightRoleTitle         = weightRoleTitle
	WeightLocationLogistics = weightLocationLogistics
)

// workModelScores maps (personaPreference, jobWorkModel) to a score.
// "No Preference" always scores 100 and is handled before this lookup.
var workModelScores = map[[2]string]float64{
	{"Remote Only", "Remote"}: 100.0,
	{"Remote Only", "Hybrid"}: 30.0,
	{"Remote Only", "Onsite"}: 0.0,
	{"Hybrid OK", "Remote"}:   90.0,
	{"Hybrid OK", "Hybrid"}:   100.0,
	{"Hybrid OK", "Onsite"}:   40.0,
	{"Onsite OK", "Remote"}:   80.0,
	{"Onsite OK", "Hybrid"}:   90.0,
	{"Onsite OK", "Onsite"}:   100.0,
}

var seniorityOrder = map[string]int{
	"Entry":     0,
	"Mid":       1,
	"Senior":    2,
	"Lead":      3,
	"Executive": 4,
}

// yearsToSeniority maps persona years of experience to an approximate
// seniority level, thresholds ascending.
var yearsToSeniority = []struct {
	threshold int
	level     string
}{
	{0, "Entry"},
	{3, "Mid"},
	{6, "Senior"},
	{11, "Lead"},
	{16, "Executive"},
}

// KeywordPreScreen reports whether any persona skill name appears,
// case-insensitively, in the job title or description.
func KeywordPreScreen(jobTitle, jobDescription string, personaSkillNames []string) bool {
	if len(personaSkillNames) == 0 {
		return false
	}
	jobText := strings.ToLower(jobTitle + " " + jobDescription)
	for _, skill := range personaSkillNames {
		if strings.Contains(jobText, strings.ToLower(skill)) {
			return true
		}
	}
	return false
}

// ScoreExperienceAlignment scores how well persona experience matches a
// job's years-of-experience range: within range = 100, below min =
// 20pts penalty per year short, above max = 5pts penalty per year over.
func ScoreExperienceAlignment(personaYears *int, jobYearsMin, jobYearsMax *int) float64 {
	if personaYears == nil {
		return FitNeutralScore
	}
	if jobYearsMin == nil && jobYearsMax == nil {
		return FitNeutralScore
	}

	if jobYearsMin != nil && *personaYears < *jobYearsMin {
		gap := *jobYearsMin - *personaYears
		return maxFloat(0, 100-float64(gap)*20)
	}
	if jobYearsMax != nil && *personaYears > *jobYearsMax {
		gap := *personaYears - *jobYearsMax
		return maxFloat(0, 100-float64(gap)*5)
	}
	return 100
}

// ScoreWorkModelAlignment scores the (remote_preference, work_model)
// pair via the lookup matrix; "No Preference" always scores 100.
func ScoreWorkModelAlignment(personaPreference, jobWorkModel *string) float64 {
	if personaPreference == nil || *personaPreference == "No Preference" {
		return 100
	}
	if jobWorkModel == nil {
		return FitNeutralScore
	}
	if score, ok := workModelScores[[2]string{*personaPreference, *jobWorkModel}]; ok {
		return score
	}
	return FitNeutralScore
}

// ScoreSeniorityAlignment maps persona years to an approximate
// seniority level and penalizes 25pts per level of distance from the
// job's stated seniority.
func ScoreSeniorityAlignment(personaYears *int, jobSeniority *string) float64 {
	if personaYears == nil || jobSeniority == nil {
		return FitNeutralScore
	}
	jobLevel, ok := seniorityOrder[*jobSeniority]
	if !ok {
		return FitNeutralScore
	}
	personaLevel := seniorityOrder[yearsToSeniorityLevel(*personaYears)]
	distance := abs(personaLevel - jobLevel)
	return maxFloat(0, 100-float64(distance)*25)
}

func yearsToSeniorityLevel(years int) string {
	result := "Entry"
	for _, t := range yearsToSeniority {
		if years >= t.threshold {
			result = t.level
		}
	}
	return result
}

// ScoreKeywordOverlap approximates hard-skills match by the proportion
// of persona skill names that appear in the job text: 30%+ overlap
// scores 100, linear below that.
func ScoreKeywordOverlap(jobTitle, jobDescription string, personaSkillNames []string) float64 {
	if len(personaSkillNames) == 0 {
		return FitNeutralScore
	}
	jobText := strings.ToLower(jobTitle + " " + jobDescription)
	matches := 0
	for _, skill := range personaSkillNames {
		if strings.Contains(jobText, strings.ToLower(skill)) {
			matches++
		}
	}
	proportion := float64(matches) / float64(len(personaSkillNames))
	if proportion >= 0.3 {
		return 100
	}
	return round1(proportion / 0.3 * 100)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
