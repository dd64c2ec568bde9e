package dto

// ImportRow is one parsed CSV row held for preview.
type ImportRow struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	DMM           string `json:"dmm"`
	Segment       string `json:"segment"`
	Operation     string `json:"operation"`
	IntervalStart string `json:"interval_start"`
	HCRequested   int    `json:"hc_requested"`
	Motivo        string `json:"motivo"`
	CreatedBy     string `json:"created_by"`
}

// ImportPreview summarizes a parsed import buffer awaiting confirmation.
type ImportPreview struct {
	Rows    []ImportRow `json:"rows"`
	Count   int         `json:"count"`
	Dropped int         `json:"dropped"`
}

// ImportResult reports a confirmed import.
type ImportResult struct {
	Imported int `json:"imported"`
}
