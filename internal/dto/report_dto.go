package dto

import "time"

// ReportSummaryResponse is the dashboard overview for admins and managers.
type ReportSummaryResponse struct {
	TotalAccounts    int64            `json:"total_accounts"`
	AccountsByRole   map[string]int64 `json:"accounts_by_role"`
	ShiftsThisWeek   int64            `json:"shifts_this_week"`
	PendingTimeOff   int64            `json:"pending_time_off"`
	PendingApprovals int64            `json:"pending_approvals"`
	ConflictCount    int64            `json:"conflict_count"`
	GeneratedAt      time.Time        `json:"generated_at"`
	CacheHit         bool             `json:"cache_hit"`
}
