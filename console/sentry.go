package console

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Issue is one unresolved Sentry issue.
type Issue struct {
	ID        string    `json:"id"`
	ShortID   string    `json:"shortId"`
	Title     string    `json:"title"`
	Culprit   string    `json:"culprit"`
	Level     string    `json:"level"`
	Count     int       `json:"count"`
	UserCount int       `json:"userCount"`
	LastSeen  time.Time `json:"lastSeen"`
	Permalink string    `json:"permalink"`
}

// SentryPayload is the console view of unresolved issues.
type SentryPayload struct {
	Project string  `json:"project"`
	Issues  []Issue `json:"issues"`
	Mock    bool    `json:"mock"`
}

// Sentry returns the issue count as a string.
type sentryIssue struct {
	ID        string    `json:"id"`
	ShortID   string    `json:"shortId"`
	Title     string    `json:"title"`
	Culprit   string    `json:"culprit"`
	Level     string    `json:"level"`
	Count     string    `json:"count"`
	UserCount int       `json:"userCount"`
	LastSeen  time.Time `json:"lastSeen"`
	Permalink string    `json:"permalink"`
}

// SentryIssues lists unresolved issues seen in the last 24 hours.
func (s *Service) SentryIssues(ctx context.Context) (SentryPayload, error) {
	cfg := s.cfg.Sentry
	switch {
	case cfg.Token == "":
		return SentryPayload{}, notConfigured("sentry", "SENTRY_AUTH_TOKEN")
	case cfg.Org == "" || cfg.Project == "":
		return SentryPayload{}, notConfigured("sentry", "SENTRY_ORG/SENTRY_PROJECT")
	}

	q := url.Values{}
	q.Set("statsPeriod", "24h")
	q.Set("query", "is:unresolved")
	q.Set("limit", "10")
	endpoint := fmt.Sprintf("%s/api/0/projects/%s/%s/issues/?%s",
		cfg.BaseURL, url.PathEscape(cfg.Org), url.PathEscape(cfg.Project), q.Encode())

	var raw []sentryIssue
	if err := s.getJSON(ctx, endpoint, map[string]string{"Authorization": "Bearer " + cfg.Token}, &raw); err != nil {
		return SentryPayload{}, fmt.Errorf("sentry: list issues: %w", err)
	}

	out := SentryPayload{Project: cfg.Org + "/" + cfg.Project, Issues: make([]Issue, 0, len(raw))}
	for _, r := range raw {
		count, _ := strconv.Atoi(r.Count)
		out.Issues = append(out.Issues, Issue{
			ID:        r.ID,
			ShortID:   r.ShortID,
			Title:     r.Title,
			Culprit:   r.Culprit,
			Level:     r.Level,
			Count:     count,
			UserCount: r.UserCount,
			LastSeen:  r.LastSeen,
			Permalink: r.Permalink,
		})
	}
	return out, nil
}
