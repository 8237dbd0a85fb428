// Package usajobs adapts the USAJobs federal job board API to
// source.Adapter.
package usajobs

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jobscout/scouter/internal/providers/source"
	"github.com/jobscout/scouter/internal/providers/source/httpjson"
)

const defaultBaseURL = "https://data.usajobs.gov/api/search"

type Adapter struct {
	client     *httpjson.Client
	userAgent  string
	authKey    string
}

func New(userAgent, authKey string) *Adapter {
	return &Adapter{client: httpjson.New(defaultBaseURL), userAgent: userAgent, authKey: authKey}
}

type searchResponse struct {
	SearchResult struct {
		SearchResultItems []struct {
			MatchedObjectDescriptor struct {
				PositionID    string `json:"PositionID"`
				PositionTitle string `json:"PositionTitle"`
				OrganizationName string `json:"OrganizationName"`
				PositionURI   string `json:"PositionURI"`
				UserArea      struct {
					Details struct {
						JobSummary string `json:"JobSummary"`
					} `json:"Details"`
				} `json:"UserArea"`
				PositionLocationDisplay string `json:"PositionLocationDisplay"`
				PositionRemuneration []struct {
					MinimumRange string `json:"MinimumRange"`
					MaximumRange string `json:"MaximumRange"`
				} `json:"PositionRemuneration"`
				PublicationStartDate string `json:"PublicationStartDate"`
			} `json:"MatchedObjectDescriptor"`
		} `json:"SearchResultItems"`
	} `json:"SearchResult"`
}

func (a *Adapter) FetchJobs(ctx context.Context, params source.SearchParams) ([]source.RawJob, error) {
	q := url.Values{}
	q.Set("Keyword", strings.Join(params.Keywords, " "))
	if params.ResultsPerPage > 0 {
		q.Set("ResultsPerPage", strconv.Itoa(params.ResultsPerPage))
	}

	var resp searchResponse
	if err := a.client.GetJSON(ctx, "", q, &resp); err != nil {
		return nil, err
	}

	items := resp.SearchResult.SearchResultItems
	jobs := make([]source.RawJob, 0, len(items))
	for _, item := range items {
		d := item.MatchedObjectDescriptor
		job := source.RawJob{
			ExternalID:  d.PositionID,
			Title:       d.PositionTitle,
			Company:     d.OrganizationName,
			Description: d.UserArea.Details.JobSummary,
			SourceURL:   d.PositionURI,
			Location:    d.PositionLocationDisplay,
		}
		if len(d.PositionRemuneration) > 0 {
			if v, err := strconv.Atoi(d.PositionRemuneration[0].MinimumRange); err == nil {
				job.SalaryMin = &v
			}
			if v, err := strconv.Atoi(d.PositionRemuneration[0].MaximumRange); err == nil {
				job.SalaryMax = &v
			}
		}
		if posted, err := time.Parse("2006-01-02", d.PublicationStartDate); err == nil {
			job.PostedDate = &posted
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
