package dto

import "github.com/spec-kit/complaint-desk/internal/domain"

// AnalyticsResponse is the admin dashboard payload.
type AnalyticsResponse struct {
	TotalTickets    int              `json:"totalTickets"`
	OpenTickets     int              `json:"openTickets"`
	ResolvedTickets int              `json:"resolvedTickets"`
	CriticalTickets int              `json:"criticalTickets"`
	ByPriority      []map[string]any `json:"byPriority"`
	ByStatus        []map[string]any `json:"byStatus"`
	ByCategory      []map[string]any `json:"byCategory"`
}

// NewAnalyticsResponse keys each bucket by its dimension name, e.g. {"priority": "HIGH", "count": 2}.
func NewAnalyticsResponse(a *domain.TicketAnalytics) AnalyticsResponse {
	return AnalyticsResponse{
		TotalTickets:    a.TotalTickets,
		OpenTickets:     a.OpenTickets,
		ResolvedTickets: a.ResolvedTickets,
		CriticalTickets: a.CriticalTickets,
		ByPriority:      groupList("priority", a.ByPriority),
		ByStatus:        groupList("status", a.ByStatus),
		ByCategory:      groupList("category", a.ByCategory),
	}
}

func groupList(key string, groups []domain.GroupCount) []map[string]any {
	out := make([]map[string]any, 0, len(groups))
	for _, g := range groups {
		out = append(out, map[string]any{key: g.Key, "count": g.Count})
	}
	return out
}
