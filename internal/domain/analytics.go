package domain

// GroupCount is one bucket of a grouped ticket count.
type GroupCount struct {
	Key   string
	Count int
}

// TicketAnalytics aggregates the admin dashboard counters.
type TicketAnalytics struct {
	TotalTickets    int
	OpenTickets     int
	ResolvedTickets int
	CriticalTickets int
	ByPriority      []GroupCount
	ByStatus        []GroupCount
	ByCategory      []GroupCount
}
