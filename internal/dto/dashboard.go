package dto

// SegmentLoad aggregates one segment's minutes across workflow stages.
type SegmentLoad struct {
	Segment            string `json:"segment"`
	PlannedMinutes     int    `json:"planned_minutes"`
	DistributedMinutes int    `json:"distributed_minutes"`
	AssignedMinutes    int    `json:"assigned_minutes"`
	RealizedMinutes    int    `json:"realized_minutes"`
}

// DailyLoad is one day's planned vs assigned totals.
type DailyLoad struct {
	Date            string `json:"date"`
	PlannedMinutes  int    `json:"planned_minutes"`
	AssignedMinutes int    `json:"assigned_minutes"`
}

// PeriodLoad is one day-period's totals.
type PeriodLoad struct {
	Period          string `json:"period"`
	Label           string `json:"label"`
	PlannedMinutes  int    `json:"planned_minutes"`
	AssignedMinutes int    `json:"assigned_minutes"`
}

// DashboardResponse is the aggregate view over a filter window.
type DashboardResponse struct {
	Segments []SegmentLoad `json:"segments"`
	Days     []DailyLoad   `json:"days"`
	Periods  []PeriodLoad  `json:"periods"`
}

// RealizedFeedRequest carries realized minutes per segment from an external
// time-tracking feed.
type RealizedFeedRequest struct {
	Realized map[string]int `json:"realized" binding:"required"`
}
