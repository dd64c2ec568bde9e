package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/internal/store"
	"github.com/tabi-ops/tabi-api/pkg/config"
	appErrors "github.com/tabi-ops/tabi-api/pkg/errors"
)

// AuthService authenticates roster members by matricula and issues JWTs.
type AuthService struct {
	store  *store.Store
	logger *zap.Logger
	jwt    config.JWTConfig
	now    func() time.Time
}

func NewAuthService(st *store.Store, logger *zap.Logger, jwtCfg config.JWTConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{store: st, logger: logger, jwt: jwtCfg, now: time.Now}
}

// Login verifies credentials and returns a signed token. Members without a
// password hash (regular colaboradores) cannot log in.
func (s *AuthService) Login(ctx context.Context, matricula, password string) (*models.LoginResponse, error) {
	var member *models.Collaborator
	s.store.View(func(st *store.State) {
		if c := st.CollaboratorByMatricula(matricula); c != nil {
			copied := *c
			member = &copied
		}
	})
	if member == nil || member.PasswordHash == "" {
		return nil, appErrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(member)
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "token generation failed")
	}

	if err := s.store.Update(ctx, func(st *store.State) error {
		appendLog(st, member.Matricula, models.AuditActionLogin, member.Nome+" logged in")
		return nil
	}); err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.jwt.Expiration.Seconds()),
		Matricula: member.Matricula,
		Nome:      member.Nome,
		Role:      member.Role,
	}, nil
}

func (s *AuthService) generateToken(member *models.Collaborator) (string, error) {
	now := s.now()
	claims := models.JWTClaims{
		Matricula: member.Matricula,
		Nome:      member.Nome,
		Role:      member.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwt.Issuer,
			Subject:   member.Matricula,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwt.Expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwt.Secret))
}

// ValidateToken parses and verifies a bearer token.
func (s *AuthService) ValidateToken(raw string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return []byte(s.jwt.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}
