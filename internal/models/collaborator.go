package models

// Role places a collaborator in the four-level organizational tree.
type Role string

const (
	RoleGerente     Role = "Gerente"
	RoleCoordenador Role = "Coordenador"
	RoleSupervisor  Role = "Supervisor"
	RoleColaborador Role = "Colaborador"
)

// Collaborator is one roster member, identified by a unique 6-digit
// matricula. Parent references are matriculas, not embedded objects.
type Collaborator struct {
	Matricula     string `json:"matricula"`
	Nome          string `json:"nome"`
	Role          Role   `json:"role"`
	GerenteID     string `json:"gerenteId,omitempty"`
	CoordenadorID string `json:"coordenadorId,omitempty"`
	SupervisorID  string `json:"supervisorId,omitempty"`

	// PasswordHash is set only for roster members that can log in.
	PasswordHash string `json:"password_hash,omitempty"`
}

// RosterFilter narrows roster listings down the hierarchy.
type RosterFilter struct {
	Role          Role
	GerenteID     string
	CoordenadorID string
	SupervisorID  string
	Search        string
}
