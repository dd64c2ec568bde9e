package dto

// CollaboratorShare is one collaborator's requested time in an allocation.
type CollaboratorShare struct {
	Matricula string `json:"matricula" binding:"required"`
	Hours     int    `json:"hours" binding:"min=0"`
	Minutes   int    `json:"minutes" binding:"min=0,max=59"`
}

// AllocateRequest spreads each collaborator's time over the selected
// periods of a group.
type AllocateRequest struct {
	Key           string              `json:"key" binding:"required"`
	Periods       []string            `json:"periods" binding:"required,min=1"`
	Collaborators []CollaboratorShare `json:"collaborators" binding:"required,min=1"`
}

// AllocateResult reports what was committed.
type AllocateResult struct {
	Assignments int            `json:"assignments"`
	MinutesBy   map[string]int `json:"minutes_by_matricula"`
	Records     []string       `json:"touched_records"`
}

// SimulateRequest generates demo assignments for one group.
type SimulateRequest struct {
	Key string `json:"key" binding:"required"`
}

// SimulateResult reports the chunks created.
type SimulateResult struct {
	Chunks int `json:"chunks"`
}

// EditAssignmentRequest replaces an assignment's minutes.
type EditAssignmentRequest struct {
	Minutes int `json:"minutes" binding:"min=0"`
}

// ValidateGroupsRequest validates one or more groups.
type ValidateGroupsRequest struct {
	Keys        []string `json:"keys" binding:"required,min=1"`
	Supervisors []string `json:"supervisors" binding:"required,min=1"`
	Aprovador   string   `json:"aprovador" binding:"required"`
}

// ValidateGroupsResult counts validated groups and records.
type ValidateGroupsResult struct {
	Groups  int `json:"groups"`
	Records int `json:"records"`
}
