package console

import "time"

// Mock payloads stand in for a source whose upstream call failed.
// They are fixed so the dashboard layout stays stable.

var mockTime = time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

// MockGitHub returns a placeholder list of workflow runs.
func MockGitHub() GitHubPayload {
	return GitHubPayload{
		Repository: "httpjpg/httpjpg",
		Total:      2,
		Mock:       true,
		Runs: []WorkflowRun{
			{ID: 2, Name: "CI", Title: "Update homepage", Status: "completed", Conclusion: "success", Branch: "main", Event: "push", RunNumber: 42, CreatedAt: mockTime},
			{ID: 1, Name: "Deploy", Title: "Release", Status: "in_progress", Branch: "main", Event: "workflow_dispatch", RunNumber: 41, CreatedAt: mockTime.Add(-time.Hour)},
		},
	}
}

// MockSentry returns a placeholder list of issues.
func MockSentry() SentryPayload {
	return SentryPayload{
		Project: "httpjpg/web",
		Mock:    true,
		Issues: []Issue{
			{ID: "1", ShortID: "WEB-1", Title: "TypeError: cannot read properties of undefined", Culprit: "layout", Level: "error", Count: 3, UserCount: 2, LastSeen: mockTime},
		},
	}
}

// MockDatadog returns placeholder RUM counts.
func MockDatadog() DatadogPayload {
	byType := map[string]int64{"view": 1280, "session": 312, "action": 540, "error": 4, "resource": 6100}
	return DatadogPayload{
		Period: "24h",
		Mock:   true,
		ByType: byType,
		Metrics: RUMMetrics{
			Views:     byType["view"],
			Sessions:  byType["session"],
			Actions:   byType["action"],
			Errors:    byType["error"],
			Resources: byType["resource"],
		},
	}
}

// MockUptime returns a placeholder status page.
func MockUptime() UptimePayload {
	return UptimePayload{
		Page: "default",
		Mock: true,
		Up:   2,
		Monitors: []Monitor{
			{ID: 1, Name: "Website", Group: "Services", Status: "up", Ping: 84, Uptime24h: 1, LastCheck: "2025-01-01 12:00:00"},
			{ID: 2, Name: "Storyblok API", Group: "Services", Status: "up", Ping: 120, Uptime24h: 0.999, LastCheck: "2025-01-01 12:00:00"},
		},
	}
}
