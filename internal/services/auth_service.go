package services

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"budgetron/internal/dto"
	"budgetron/internal/models"
	"budgetron/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrTokenRevoked        = errors.New("token has been revoked")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo             repositories.UserRepositoryInterface
	roleRepo             repositories.RoleRepositoryInterface
	refreshTokenRepo     repositories.RefreshTokenRepositoryInterface
	blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface
	passwordService      PasswordServiceInterface
	tokenService         TokenServiceInterface
	auditService         AuditServiceInterface
	metrics              MetricsRecorderInterface
	logger               *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	roleRepo repositories.RoleRepositoryInterface,
	refreshTokenRepo repositories.RefreshTokenRepositoryInterface,
	blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface,
	passwordService PasswordServiceInterface,
	tokenService TokenServiceInterface,
	auditService AuditServiceInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:             userRepo,
		roleRepo:             roleRepo,
		refreshTokenRepo:     refreshTokenRepo,
		blacklistedTokenRepo: blacklistedTokenRepo,
		passwordService:      passwordService,
		tokenService:         tokenService,
		auditService:         auditService,
		metrics:              metrics,
		logger:               logger,
	}
}

// Register creates a user with the "user" role and signs them in
func (s *AuthService) Register(req *dto.RegisterRequest, meta RequestMeta) (*models.User, *dto.TokenResponse, error) {
	if err := checkUserUniqueness(s.userRepo, &req.Username, &req.Email, nil); err != nil {
		s.auditFailure(models.AuditActionRegister, meta, models.AuditDetails{"reason": "duplicate"})
		return nil, nil, err
	}

	role, err := s.roleRepo.GetByName(models.RoleUser)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load default role: %w", err)
	}

	hashedPassword, err := s.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hashedPassword,
		Roles:        []models.Role{*role},
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	s.recordEvent(user.ID, models.AuditActionRegister, meta)
	return user, tokens, nil
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(req *dto.LoginRequest, meta RequestMeta) (*models.User, *dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.failedLogin(req.Email, "user_not_found", meta)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.passwordService.ComparePassword(req.Password, user.PasswordHash) {
		s.failedLogin(req.Email, "invalid_password", meta)
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		s.logger.Warn("failed to update last login",
			"error", err,
			"user_id", user.ID)
	} else {
		user.LastLoginAt = &now
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	s.recordEvent(user.ID, models.AuditActionLogin, meta)
	return user, tokens, nil
}

// RefreshTokens exchanges a refresh token for a new pair. Each refresh
// token is single use; presenting a rotated one revokes the whole family.
func (s *AuthService) RefreshTokens(refreshToken string, meta RequestMeta) (*dto.TokenResponse, error) {
	claims, err := s.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.auditFailure(models.AuditActionTokenRefresh, meta, models.AuditDetails{"reason": "invalid_token"})
		return nil, ErrInvalidRefreshToken
	}

	userID, err := claims.Owner()
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	stored, err := s.refreshTokenRepo.GetByTokenHash(hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if stored.RevokedAt != nil && stored.ReplacedByID != nil {
		s.logger.Warn("rotated refresh token presented again, revoking all sessions", "user_id", userID)
		if err := s.refreshTokenRepo.RevokeAllForUser(userID); err != nil {
			s.logger.Error("failed to revoke refresh tokens", "error", err, "user_id", userID)
		}
		return nil, ErrInvalidRefreshToken
	}
	if !stored.IsValid() {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	tokens, next, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	if err := s.refreshTokenRepo.Rotate(stored, next); err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenRevoked) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	s.recordEvent(user.ID, models.AuditActionTokenRefresh, meta)
	return tokens, nil
}

// Logout blacklists the access token and revokes every refresh token of its user
func (s *AuthService) Logout(accessToken string, meta RequestMeta) error {
	claims, err := s.tokenService.ValidateAccessToken(accessToken)
	if err != nil {
		return err
	}

	userID, err := claims.Owner()
	if err != nil {
		return ErrInvalidToken
	}

	blacklisted := &models.BlacklistedToken{
		JTI:       claims.ID,
		UserID:    userID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.blacklistedTokenRepo.Create(blacklisted); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	if err := s.refreshTokenRepo.RevokeAllForUser(userID); err != nil {
		// Non-critical: the access token is already unusable
		s.logger.Warn("failed to revoke refresh tokens",
			"error", err,
			"user_id", userID)
	}

	s.recordEvent(userID, models.AuditActionLogout, meta)
	return nil
}

// Authenticate validates an access token and loads the user it names. Roles
// come from the database so that changes apply before the token expires.
func (s *AuthService) Authenticate(accessToken string) (*models.User, *models.SessionClaims, error) {
	claims, err := s.tokenService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.blacklistedTokenRepo.IsBlacklisted(claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if revoked {
		return nil, nil, ErrTokenRevoked
	}

	userID, err := claims.Owner()
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, err
	}

	return user, claims, nil
}

func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile lets a user change their own username, email or password
func (s *AuthService) UpdateProfile(p Principal, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(p.UserID)
	if err != nil {
		return nil, err
	}

	changed, err := applyUserChanges(s.userRepo, s.passwordService, user, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return user, nil
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	s.auditService.LogAction(p, models.AuditActionProfileUpdated, models.AuditResourceUser, user.ID.String(),
		models.AuditDetails{"fields": changed})
	return user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*dto.TokenResponse, error) {
	tokens, refresh, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.refreshTokenRepo.Create(refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return tokens, nil
}

// generateTokens signs a new pair. The refresh token row is returned unsaved.
func (s *AuthService) generateTokens(user *models.User) (*dto.TokenResponse, *models.RefreshToken, error) {
	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.tokenService.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	refreshTokenModel := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: refreshExpiresAt,
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
	}, refreshTokenModel, nil
}

func hashToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

func (s *AuthService) failedLogin(email, reason string, meta RequestMeta) {
	s.auditFailure(models.AuditActionFailedLogin, meta, models.AuditDetails{
		"email":  strings.ToLower(email),
		"reason": reason,
	})
}

func (s *AuthService) auditFailure(action models.AuditAction, meta RequestMeta, details models.AuditDetails) {
	eventType := action.Verb()
	if action != models.AuditActionFailedLogin {
		eventType += "_failed"
	}
	s.metrics.IncrementCounter(MetricAuthenticationEvent, map[string]string{"event_type": eventType})
	s.auditService.Record(&models.AuditLog{
		Action:    action,
		Resource:  models.AuditResourceUser,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Details:   details,
	})
}

func (s *AuthService) recordEvent(userID uuid.UUID, action models.AuditAction, meta RequestMeta) {
	s.metrics.IncrementCounter(MetricAuthenticationEvent, map[string]string{"event_type": action.Verb()})
	s.auditService.LogAction(Principal{UserID: userID, RequestMeta: meta}, action, models.AuditResourceUser, userID.String(), nil)
}
