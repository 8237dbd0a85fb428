package scoring

import (
	"fmt"
	"strings"

	personamodel "github.com/jobscout/scouter/modules/persona/model"
	poolmodel "github.com/jobscout/scouter/modules/pool/model"
)

// nonNegotiableFailures evaluates spec.md §4.9 step 2's hard filters and
// returns every one the job fails; an empty slice means the job passes.
//
// The pool schema carries no structured industry or visa-sponsorship
// column (job_postings was built around the C2 ingestion pipeline's
// fields, not C9's filter set). The industry check is a best-effort
// substring match against the company name and description.
// Persona.VisaSponsorshipRequired is not checked: no filter here fails
// a job on visa grounds.
func nonNegotiableFailures(persona *personamodel.Persona, job *poolmodel.JobPosting) []string {
	var failed []string

	if persona.MinimumBaseSalary != nil && job.SalaryMax != nil && *job.SalaryMax < *persona.MinimumBaseSalary {
		failed = append(failed, "below_minimum_salary")
	}

	if !workModelCompatible(persona.RemotePreference, job.WorkModel) {
		failed = append(failed, "work_model_incompatible")
	}

	if persona.RemotePreference == personamodel.OnsiteOK && len(persona.CommutableCities) > 0 {
		if job.Location == nil || !containsFold(persona.CommutableCities, *job.Location) {
			failed = append(failed, "location_not_commutable")
		}
	}

	if excluded, industry := industryExcluded(persona.IndustryExclusions, job); excluded {
		failed = append(failed, fmt.Sprintf("industry_excluded:%s", industry))
	}

	return failed
}

func workModelCompatible(preference personamodel.RemotePreference, workModel *string) bool {
	if preference == "" || preference == personamodel.NoPreference || workModel == nil {
		return true
	}
	pref := string(preference)
	return ScoreWorkModelAlignment(&pref, workModel) > 0
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(needle)) {
			return true
		}
	}
	return false
}

func industryExcluded(exclusions []string, job *poolmodel.JobPosting) (bool, string) {
	if len(exclusions) == 0 {
		return false, ""
	}
	haystack := strings.ToLower(job.CompanyName + " " + job.Description)
	for _, industry := range exclusions {
		if strings.Contains(haystack, strings.ToLower(industry)) {
			return true, industry
		}
	}
	return false, ""
}
