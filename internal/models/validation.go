package models

import "time"

// GroupValidation is the stamp shared by every record of a validated group.
type GroupValidation struct {
	Key         string    `json:"key"`
	ValidatedAt time.Time `json:"validatedAt"`
	ValidatedBy string    `json:"validatedBy"`
	Supervisors []string  `json:"supervisors"`
	Aprovador   string    `json:"aprovador"`
}
