package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/internal/domain/repositories"
	"vendor-hub.backend/pkg/crypto"
	"vendor-hub.backend/pkg/jwt"
	"vendor-hub.backend/pkg/logger"
	"vendor-hub.backend/pkg/redis"
)

// AuthUsecase is the thin identity surface: it exists to turn a login into
// the current actor (id, name, role) the moderation engine consumes
type AuthUsecase struct {
	userRepo     repositories.UserRepository
	auditRepo    repositories.AuditRepository
	jwtService   *jwt.JWTService
	sessionStore *redis.SessionStore
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditRepository,
	jwtService *jwt.JWTService,
	sessionStore *redis.SessionStore,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		jwtService:   jwtService,
		sessionStore: sessionStore,
	}
}

// Register creates a vendor account. Moderator and manager roles are only
// assigned afterwards through UpdateRole.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.CreateUserInput) (*entities.User, error) {
	_, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, domainerrors.NewAppError(409, "ALREADY_EXISTS", "email already registered", domainerrors.ErrAlreadyExists)
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: passwordHash,
		Role:         entities.UserRoleVendor,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a token pair. With UseSession the
// tokens live encrypted in Redis and the caller only holds the session id.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("invalid credentials")
		}
		return nil, err
	}
	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.Unauthorized("invalid credentials")
	}

	pair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	if input.UseSession && u.sessionStore != nil {
		sessionID, err := crypto.GenerateSessionToken()
		if err != nil {
			return nil, err
		}
		data := &redis.SessionData{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
		if err := u.sessionStore.CreateSession(ctx, sessionID, data, 7*24*time.Hour); err != nil {
			logger.Error(ctx, "failed to create session", zap.Error(err))
			return nil, err
		}
		return &entities.AuthResponse{SessionID: sessionID, User: user}, nil
	}

	return &entities.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	}, nil
}

// Logout destroys a Redis-backed session
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if u.sessionStore == nil || sessionID == "" {
		return nil
	}
	return u.sessionStore.DeleteSession(ctx, sessionID)
}

// Me returns the account behind the current actor
func (u *AuthUsecase) Me(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, userID)
}

// UpdateRole promotes or demotes an account. Super admin only.
func (u *AuthUsecase) UpdateRole(ctx context.Context, actor entities.Actor, targetID uuid.UUID, role entities.UserRole) (*entities.User, error) {
	if actor.Role != entities.UserRoleSuperAdmin {
		return nil, domainerrors.Unauthorized("only a super admin may change roles")
	}
	switch role {
	case entities.UserRoleVendor, entities.UserRoleModerator, entities.UserRoleManager, entities.UserRoleSuperAdmin:
	default:
		return nil, domainerrors.Validation("unknown role")
	}

	if err := u.userRepo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, err
	}
	target, err := u.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	entry := &entities.AuditEntry{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     entities.AuditRoleChanged,
		TargetID:   target.ID,
		TargetName: target.Name,
	}
	entry.Notes.SetValid("role set to " + string(role))
	if err := u.auditRepo.Append(ctx, entry); err != nil {
		logger.Error(ctx, "failed to append audit entry",
			zap.String("action", string(entities.AuditRoleChanged)),
			zap.String("user_id", targetID.String()),
			zap.Error(err))
	}
	return target, nil
}

// ListUsers returns accounts for the admin screen, optionally filtered
func (u *AuthUsecase) ListUsers(ctx context.Context, actor entities.Actor, search string) ([]*entities.User, error) {
	if actor.Role != entities.UserRoleSuperAdmin && actor.Role != entities.UserRoleManager {
		return nil, domainerrors.Unauthorized("insufficient role")
	}
	return u.userRepo.List(ctx, search)
}
