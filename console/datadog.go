package console

import (
	"context"
	"fmt"
)

// RUMMetrics summarizes browser RUM events over the last 24 hours.
type RUMMetrics struct {
	Views     int64 `json:"views"`
	Sessions  int64 `json:"sessions"`
	Actions   int64 `json:"actions"`
	Errors    int64 `json:"errors"`
	Resources int64 `json:"resources"`
}

// DatadogPayload is the console view of RUM activity.
type DatadogPayload struct {
	Period  string           `json:"period"`
	Metrics RUMMetrics       `json:"metrics"`
	ByType  map[string]int64 `json:"byType"`
	Mock    bool             `json:"mock"`
}

type rumAggregateRequest struct {
	Compute []rumCompute `json:"compute"`
	Filter  rumFilter    `json:"filter"`
	GroupBy []rumGroupBy `json:"group_by"`
}

type rumCompute struct {
	Aggregation string `json:"aggregation"`
}

type rumFilter struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Query string `json:"query"`
}

type rumGroupBy struct {
	Facet string `json:"facet"`
	Limit int    `json:"limit"`
}

type rumAggregateResponse struct {
	Data struct {
		Buckets []struct {
			By       map[string]any     `json:"by"`
			Computes map[string]float64 `json:"computes"`
		} `json:"buckets"`
	} `json:"data"`
}

// DatadogRUM counts RUM events per event type over the last 24 hours.
func (s *Service) DatadogRUM(ctx context.Context) (DatadogPayload, error) {
	cfg := s.cfg.Datadog
	switch {
	case cfg.APIKey == "":
		return DatadogPayload{}, notConfigured("datadog", "DATADOG_API_KEY")
	case cfg.AppKey == "":
		return DatadogPayload{}, notConfigured("datadog", "DATADOG_APP_KEY")
	}

	body := rumAggregateRequest{
		Compute: []rumCompute{{Aggregation: "count"}},
		Filter:  rumFilter{From: "now-24h", To: "now", Query: "*"},
		GroupBy: []rumGroupBy{{Facet: "@type", Limit: 10}},
	}
	var resp rumAggregateResponse
	err := s.postJSON(ctx, cfg.BaseURL+"/api/v2/rum/analytics/aggregate", map[string]string{
		"DD-API-KEY":         cfg.APIKey,
		"DD-APPLICATION-KEY": cfg.AppKey,
	}, body, &resp)
	if err != nil {
		return DatadogPayload{}, fmt.Errorf("datadog: aggregate rum: %w", err)
	}

	out := DatadogPayload{Period: "24h", ByType: make(map[string]int64)}
	for _, b := range resp.Data.Buckets {
		typ, _ := b.By["@type"].(string)
		if typ == "" {
			continue
		}
		out.ByType[typ] += int64(b.Computes["c0"])
	}
	out.Metrics = RUMMetrics{
		Views:     out.ByType["view"],
		Sessions:  out.ByType["session"],
		Actions:   out.ByType["action"],
		Errors:    out.ByType["error"],
		Resources: out.ByType["resource"],
	}
	return out, nil
}
