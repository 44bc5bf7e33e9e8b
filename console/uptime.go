package console

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Uptime Kuma heartbeat states.
const (
	StatusDown        = 0
	StatusUp          = 1
	StatusPending     = 2
	StatusMaintenance = 3
)

// Monitor is one Uptime Kuma monitor with its latest heartbeat.
type Monitor struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Group     string  `json:"group"`
	Status    string  `json:"status"`
	Ping      int     `json:"ping"`
	Uptime24h float64 `json:"uptime24h"`
	LastCheck string  `json:"lastCheck"`
	Message   string  `json:"message,omitempty"`
}

// UptimePayload is the console view of a status page.
type UptimePayload struct {
	Page     string    `json:"page"`
	Monitors []Monitor `json:"monitors"`
	Up       int       `json:"up"`
	Down     int       `json:"down"`
	Mock     bool      `json:"mock"`
}

type kumaStatusPage struct {
	PublicGroupList []struct {
		Name        string `json:"name"`
		MonitorList []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"monitorList"`
	} `json:"publicGroupList"`
}

type kumaHeartbeat struct {
	Status int    `json:"status"`
	Time   string `json:"time"`
	Msg    string `json:"msg"`
	Ping   *int   `json:"ping"`
}

type kumaHeartbeats struct {
	HeartbeatList map[string][]kumaHeartbeat `json:"heartbeatList"`
	UptimeList    map[string]float64         `json:"uptimeList"`
}

// StatusName maps an Uptime Kuma heartbeat state to a label.
func StatusName(status int) string {
	switch status {
	case StatusDown:
		return "down"
	case StatusUp:
		return "up"
	case StatusPending:
		return "pending"
	case StatusMaintenance:
		return "maintenance"
	default:
		return "unknown"
	}
}

// UptimeMonitors joins the status page layout with its latest heartbeats.
// Both documents are fetched concurrently.
func (s *Service) UptimeMonitors(ctx context.Context) (UptimePayload, error) {
	cfg := s.cfg.UptimeKuma
	switch {
	case cfg.BaseURL == "":
		return UptimePayload{}, notConfigured("uptime", "UPTIME_KUMA_URL")
	case cfg.StatusPage == "":
		return UptimePayload{}, notConfigured("uptime", "UPTIME_KUMA_STATUS_PAGE")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	slug := url.PathEscape(cfg.StatusPage)

	var (
		page  kumaStatusPage
		beats kumaHeartbeats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.getJSON(gctx, base+"/api/status-page/"+slug, nil, &page)
	})
	g.Go(func() error {
		return s.getJSON(gctx, base+"/api/status-page/heartbeat/"+slug, nil, &beats)
	})
	if err := g.Wait(); err != nil {
		return UptimePayload{}, fmt.Errorf("uptime: status page %q: %w", cfg.StatusPage, err)
	}

	out := UptimePayload{Page: cfg.StatusPage, Monitors: []Monitor{}}
	for _, group := range page.PublicGroupList {
		for _, m := range group.MonitorList {
			id := strconv.Itoa(m.ID)
			mon := Monitor{
				ID:        m.ID,
				Name:      m.Name,
				Group:     group.Name,
				Status:    "unknown",
				Uptime24h: beats.UptimeList[id+"_24"],
			}
			if list := beats.HeartbeatList[id]; len(list) > 0 {
				last := list[len(list)-1]
				mon.Status = StatusName(last.Status)
				mon.LastCheck = last.Time
				mon.Message = last.Msg
				if last.Ping != nil {
					mon.Ping = *last.Ping
				}
				switch last.Status {
				case StatusUp:
					out.Up++
				case StatusDown:
					out.Down++
				}
			}
			out.Monitors = append(out.Monitors, mon)
		}
	}
	sort.SliceStable(out.Monitors, func(i, j int) bool {
		return out.Monitors[i].ID < out.Monitors[j].ID
	})
	return out, nil
}
