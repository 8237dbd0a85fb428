// Package adzuna adapts the Adzuna job search API to source.Adapter.
package adzuna

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jobscout/scouter/internal/providers/source"
	"github.com/jobscout/scouter/internal/providers/source/httpjson"
)

const defaultBaseURL = "https://api.adzuna.com/v1/api/jobs/us/search/1"

type Adapter struct {
	client   *httpjson.Client
	appID    string
	appKey   string
}

func New(appID, appKey string) *Adapter {
	return &Adapter{client: httpjson.New(defaultBaseURL), appID: appID, appKey: appKey}
}

type searchResponse struct {
	Results []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		RedirectURL string `json:"redirect_url"`
		Company     struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
		SalaryMin float64 `json:"salary_min"`
		SalaryMax float64 `json:"salary_max"`
		Created   string  `json:"created"`
	} `json:"results"`
}

func (a *Adapter) FetchJobs(ctx context.Context, params source.SearchParams) ([]source.RawJob, error) {
	q := url.Values{}
	q.Set("app_id", a.appID)
	q.Set("app_key", a.appKey)
	q.Set("what", strings.Join(params.Keywords, " "))
	if params.ResultsPerPage > 0 {
		q.Set("results_per_page", strconv.Itoa(params.ResultsPerPage))
	}

	var resp searchResponse
	if err := a.client.GetJSON(ctx, "", q, &resp); err != nil {
		return nil, err
	}

	jobs := make([]source.RawJob, 0, len(resp.Results))
	for _, r := range resp.Results {
		job := source.RawJob{
			ExternalID:  r.ID,
			Title:       r.Title,
			Company:     r.Company.DisplayName,
			Description: r.Description,
			SourceURL:   r.RedirectURL,
			Location:    r.Location.DisplayName,
		}
		if r.SalaryMin > 0 {
			v := int(r.SalaryMin)
			job.SalaryMin = &v
		}
		if r.SalaryMax > 0 {
			v := int(r.SalaryMax)
			job.SalaryMax = &v
		}
		if posted, err := time.Parse(time.RFC3339, r.Created); err == nil {
			job.PostedDate = &posted
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
