// Package themuse adapts TheMuse's job board to source.Adapter using a
// headless browser (go-rod) rather than a plain HTTP+JSON client: the
// board's listing page renders results client-side, so a bare HTTP GET
// returns an empty shell. This is the only source adapter that needs
// rod — Adzuna/RemoteOK/USAJobs are plain REST+JSON and use
// internal/providers/source/httpjson instead.
package themuse

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/jobscout/scouter/internal/providers/source"
)

const listingURL = "https://www.themuse.com/search/keyword--%s/"

type Adapter struct {
	browser *rod.Browser
}

// New wraps a browser controlled by rod; it does not launch or connect
// one. Callers own the browser's lifecycle (Close) since it's shared
// across poll cycles.
func New(browser *rod.Browser) *Adapter {
	return &Adapter{browser: browser}
}

func (a *Adapter) FetchJobs(ctx context.Context, params source.SearchParams) ([]source.RawJob, error) {
	keyword := url.QueryEscape(strings.Join(params.Keywords, " "))
	target := fmt.Sprintf(listingURL, keyword)

	page, err := a.browser.Page(rod.PageNewOptions{URL: target})
	if err != nil {
		return nil, source.NewError(source.ErrAPIDown, "opening listing page", err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.WaitStable(500 * time.Millisecond); err != nil {
		return nil, source.NewError(source.ErrTimeout, "waiting for listing to render", err)
	}

	cards, err := page.Elements("[data-testid='job-card']")
	if err != nil {
		return nil, source.NewError(source.ErrParse, "locating job cards", err)
	}

	limit := params.ResultsPerPage
	if limit <= 0 || limit > len(cards) {
		limit = len(cards)
	}

	jobs := make([]source.RawJob, 0, limit)
	for _, card := range cards[:limit] {
		job, err := extractCard(card)
		if err != nil {
			continue // one malformed card must not fail the whole fetch
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func extractCard(card *rod.Element) (source.RawJob, error) {
	title, err := card.Element("[data-testid='job-title']")
	if err != nil {
		return source.RawJob{}, err
	}
	titleText, err := title.Text()
	if err != nil {
		return source.RawJob{}, err
	}

	company, _ := card.Element("[data-testid='job-company']")
	companyText := ""
	if company != nil {
		companyText, _ = company.Text()
	}

	link, _ := card.Element("a")
	href := ""
	externalID := ""
	if link != nil {
		if attr, err := link.Attribute("href"); err == nil && attr != nil {
			href = *attr
			externalID = externalIDFromHref(href)
		}
	}

	location, _ := card.Element("[data-testid='job-location']")
	locationText := ""
	if location != nil {
		locationText, _ = location.Text()
	}

	return source.RawJob{
		ExternalID: externalID,
		Title:      titleText,
		Company:    companyText,
		SourceURL:  href,
		Location:   locationText,
	}, nil
}

func externalIDFromHref(href string) string {
	parts := strings.Split(strings.TrimRight(href, "/"), "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
