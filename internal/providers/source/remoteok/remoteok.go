// Package remoteok adapts RemoteOK's public jobs feed to source.Adapter.
package remoteok

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jobscout/scouter/internal/providers/source"
	"github.com/jobscout/scouter/internal/providers/source/httpjson"
)

const defaultBaseURL = "https://remoteok.com/api"

type Adapter struct {
	client *httpjson.Client
}

func New() *Adapter {
	return &Adapter{client: httpjson.New(defaultBaseURL)}
}

// listing is RemoteOK's flat feed shape: one JSON array where element 0
// is a legend object and the rest are postings.
type listing struct {
	ID          any    `json:"id"`
	Position    string `json:"position"`
	Company     string `json:"company"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	SalaryMin   int    `json:"salary_min"`
	SalaryMax   int    `json:"salary_max"`
}

func (a *Adapter) FetchJobs(ctx context.Context, params source.SearchParams) ([]source.RawJob, error) {
	q := url.Values{}
	if len(params.Keywords) > 0 {
		q.Set("tags", strings.Join(params.Keywords, ","))
	}

	var resp []listing
	if err := a.client.GetJSON(ctx, "", q, &resp); err != nil {
		return nil, err
	}

	jobs := make([]source.RawJob, 0, len(resp))
	for _, r := range resp {
		if r.Position == "" {
			continue // skip the legend row
		}
		job := source.RawJob{
			ExternalID:  toExternalID(r.ID),
			Title:       r.Position,
			Company:     r.Company,
			Description: r.Description,
			SourceURL:   r.URL,
			Location:    r.Location,
		}
		if r.SalaryMin > 0 {
			v := r.SalaryMin
			job.SalaryMin = &v
		}
		if r.SalaryMax > 0 {
			v := r.SalaryMax
			job.SalaryMax = &v
		}
		if posted, err := time.Parse(time.RFC3339, r.Date); err == nil {
			job.PostedDate = &posted
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// toExternalID normalizes RemoteOK's feed id, which arrives as either a
// JSON string or a JSON number depending on the posting.
func toExternalID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}
