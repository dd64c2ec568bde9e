package store

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/tabi-ops/tabi-api/internal/models"
)

// GenerateMatricula returns a 6-digit matricula not present in used, and
// marks it used. Uniqueness is guaranteed only within the batch sharing the
// set.
func GenerateMatricula(used map[string]struct{}) string {
	for {
		n := fmt.Sprintf("%06d", 100000+rand.Intn(900000))
		if _, taken := used[n]; !taken {
			used[n] = struct{}{}
			return n
		}
	}
}

// SeedState builds the demo roster and sample records for today. Roster
// members above Colaborador get the default password hash so they can log in.
func SeedState(passwordHash string) *State {
	st := newState()
	st.Collaborators = seedCollaborators(passwordHash)
	st.Records = seedRecords()
	st.Logs = append(st.Logs, models.LogEntry{
		Timestamp: time.Now().UTC(),
		Actor:     "system",
		Action:    "Seed",
		Details:   fmt.Sprintf("%d demo records, %d roster members", len(st.Records), len(st.Collaborators)),
	})
	return st
}

func seedCollaborators(passwordHash string) []*models.Collaborator {
	used := map[string]struct{}{}

	mk := func(nome string, role models.Role, gerente, coordenador, supervisor string) *models.Collaborator {
		c := &models.Collaborator{
			Matricula:     GenerateMatricula(used),
			Nome:          nome,
			Role:          role,
			GerenteID:     gerente,
			CoordenadorID: coordenador,
			SupervisorID:  supervisor,
		}
		if role != models.RoleColaborador {
			c.PasswordHash = passwordHash
		}
		return c
	}

	g1 := mk("Ana Paula Martins", models.RoleGerente, "", "", "")
	g2 := mk("José Carlos Ferreira", models.RoleGerente, "", "", "")

	c1 := mk("Bruno Henrique Silva", models.RoleCoordenador, g1.Matricula, "", "")
	c2 := mk("Paula Regina Mendes", models.RoleCoordenador, g2.Matricula, "", "")
	c3 := mk("Roberto Lima Santos", models.RoleCoordenador, g1.Matricula, "", "")

	s1 := mk("Carlos Eduardo Oliveira", models.RoleSupervisor, g1.Matricula, c1.Matricula, "")
	s2 := mk("Diana Cristina Costa", models.RoleSupervisor, g1.Matricula, c1.Matricula, "")
	s3 := mk("Eduardo Antônio Lima", models.RoleSupervisor, g2.Matricula, c2.Matricula, "")
	s4 := mk("Fernanda Beatriz Alves", models.RoleSupervisor, g2.Matricula, c2.Matricula, "")
	s5 := mk("Marcos Vinícius Rocha", models.RoleSupervisor, g1.Matricula, c3.Matricula, "")

	roster := []*models.Collaborator{g1, g2, c1, c2, c3, s1, s2, s3, s4, s5}

	team := []struct {
		nome string
		sup  *models.Collaborator
	}{
		{"Carla Beatriz Pereira", s1},
		{"Felipe Augusto Santos", s1},
		{"Lucas Gabriel Almeida", s2},
		{"Mariana Fernanda Rocha", s2},
		{"Rafael Alessandro Souza", s3},
		{"Patrícia Helena Gomes", s3},
		{"Thiago Rodrigo Castro", s4},
		{"Amanda Cristiane Lima", s4},
		{"Marcos Paulo da Silva Junior", s4},
		{"Gabriela Vitória Nunes", s2},
		{"André Luís Barbosa", s5},
		{"Juliana Aparecida Costa", s5},
		{"Ricardo Henrique Alves", s1},
		{"Vanessa Caroline Oliveira", s3},
	}
	for _, m := range team {
		roster = append(roster, mk(m.nome, models.RoleColaborador,
			m.sup.GerenteID, m.sup.CoordenadorID, m.sup.Matricula))
	}
	return roster
}

func seedRecords() []*models.ScheduleRecord {
	date := time.Now().Format("2006-01-02")

	var records []*models.ScheduleRecord
	push := func(segment, operation, interval string, hc int) {
		records = append(records, &models.ScheduleRecord{
			ID:            uuid.NewString(),
			StartDate:     date,
			EndDate:       date,
			DMM:           "1°",
			Segment:       segment,
			Operation:     operation,
			IntervalStart: interval,
			HCRequested:   hc,
			HEMinutes:     hc * 10,
			Motivo:        "Seed - demonstração",
			Status:        models.StatusPublished,
			CreatedAt:     time.Now().UTC(),
			CreatedBy:     "system",
		})
	}

	// morning 07:00-12:00
	push("CONTROLE FRONT MOC", "VIVO", "07:00:00", 4)
	push("CONTROLE FRONT MOC", "VIVO", "08:10:00", 3)
	push("CONTROLE GRE BH", "TIM", "09:20:00", 2)
	push("LABS LAB", "OI", "10:30:00", 3)
	push("PRÉ PAGO ESE BH", "CLARO", "11:40:00", 2)

	// afternoon 13:00-17:00
	push("PRÉ PAGO ESE BH", "CLARO", "13:10:00", 5)
	push("PRÉ PAGO ESE BH", "CLARO", "14:30:00", 3)
	push("LABS LAB", "OI", "15:40:00", 4)
	push("CONTROLE GRE BH", "TIM", "16:50:00", 2)

	// evening 18:00-22:00
	push("CONTROLE FRONT MOC", "VIVO", "18:00:00", 4)
	push("CONTROLE GRE BH", "TIM", "19:10:00", 3)
	push("LABS LAB", "OI", "20:20:00", 5)
	push("PRÉ PAGO ESE BH", "CLARO", "21:30:00", 2)

	return records
}
