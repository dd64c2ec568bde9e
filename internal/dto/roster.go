package dto

// AddSupervisorRequest enrolls a new supervisor under an existing
// gerente/coordenador pair.
type AddSupervisorRequest struct {
	Nome          string `json:"nome" binding:"required"`
	GerenteID     string `json:"gerenteId" binding:"required"`
	CoordenadorID string `json:"coordenadorId" binding:"required"`
}
