package dto

// CreateRecordRequest creates one record per selected interval, sharing the
// remaining fields.
type CreateRecordRequest struct {
	StartDate string   `json:"start_date" binding:"required"`
	EndDate   string   `json:"end_date"`
	DMM       string   `json:"dmm"`
	Segment   string   `json:"segment"`
	Operation string   `json:"operation"`
	Intervals []string `json:"intervals" binding:"required,min=1,dive,timeofday"`
	HC        int      `json:"hc_requested" binding:"required,min=1"`
	Motivo    string   `json:"motivo"`
}

// UpdateRecordRequest edits a record in place.
type UpdateRecordRequest struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	DMM           string `json:"dmm"`
	Segment       string `json:"segment"`
	Operation     string `json:"operation"`
	IntervalStart string `json:"interval_start" binding:"omitempty,timeofday"`
	HC            int    `json:"hc_requested"`
	Motivo        string `json:"motivo"`
}
