package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolfees/backend/internal/domain/identity"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/schoolfees/backend/internal/infrastructure/auth"
)

// StudentLinker attaches a login account to a student record
type StudentLinker interface {
	LinkUserAccount(ctx context.Context, studentID, userID uuid.UUID) error
}

// UserService handles account administration
type UserService struct {
	userRepo      identity.UserRepository
	studentLinker StudentLinker
	jwtService    *auth.JWTService
	blacklist     auth.TokenBlacklist
	logger        *zap.Logger
}

// NewUserService creates a new user management service
func NewUserService(
	userRepo identity.UserRepository,
	studentLinker StudentLinker,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:      userRepo,
		studentLinker: studentLinker,
		jwtService:    jwtService,
		blacklist:     blacklist,
		logger:        logger,
	}
}

// CreateUser creates a staff or admin account
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserInfo, error) {
	role := identity.Role(req.Role)
	if role == identity.RoleStudent {
		return nil, shared.NewDomainError("INVALID_ROLE", "Student accounts are created through the student endpoint")
	}

	user, err := s.newUser(ctx, req.Username, req.Password, role)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != "" {
		user.SetDisplayName(req.DisplayName)
	}
	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()))

	info := toUserInfo(user)
	return &info, nil
}

// CreateStudentAccount creates a student login and links it to the student record
func (s *UserService) CreateStudentAccount(ctx context.Context, req CreateStudentAccountRequest) (*UserInfo, error) {
	user, err := s.newUser(ctx, req.Username, req.Password, identity.RoleStudent)
	if err != nil {
		return nil, err
	}
	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save student account", zap.Error(err))
		return nil, err
	}

	if err := s.studentLinker.LinkUserAccount(ctx, req.StudentID, user.ID); err != nil {
		// roll the orphan account back so the username can be retried
		if delErr := s.userRepo.Delete(ctx, user.ID); delErr != nil {
			s.logger.Error("Failed to remove orphan student account",
				zap.String("user_id", user.ID.String()), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("Student account created",
		zap.String("user_id", user.ID.String()),
		zap.String("student_id", req.StudentID.String()))

	info := toUserInfo(user)
	return &info, nil
}

// UpdateUser updates display name, email or role
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserInfo, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.SetDisplayName(*req.DisplayName)
	}
	if req.Email != nil {
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Role != nil {
		role := identity.Role(*req.Role)
		if !role.IsValid() {
			return nil, shared.NewDomainError("INVALID_ROLE", "Role is not valid")
		}
		if user.Role == identity.RoleStudent || role == identity.RoleStudent {
			return nil, shared.NewDomainError("INVALID_ROLE", "Student accounts cannot change role")
		}
		user.Role = role
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, err
	}

	info := toUserInfo(user)
	return &info, nil
}

// ResetPassword sets a new password without knowing the old one and revokes
// every token the account holds
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user after password reset", zap.Error(err))
		return err
	}

	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, id.String(), ttl); err != nil {
		s.logger.Error("Failed to revoke tokens after password reset", zap.Error(err))
	}

	s.logger.Info("User password reset", zap.String("user_id", id.String()))
	return nil
}

// DeactivateUser disables the account and revokes its tokens
func (s *UserService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}

	user.Deactivate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, id.String(), ttl); err != nil {
		s.logger.Error("Failed to revoke tokens after deactivation", zap.Error(err))
	}

	s.logger.Info("User deactivated", zap.String("user_id", id.String()))
	return nil
}

// ActivateUser re-enables a deactivated or locked account
func (s *UserService) ActivateUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}

	user.Activate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User activated", zap.String("user_id", id.String()))
	return nil
}

// GetUser returns a single account
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

// ListUsers returns a paginated list of accounts
func (s *UserService) ListUsers(ctx context.Context, filter shared.Filter) (*shared.Paginated[UserInfo], error) {
	page, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]UserInfo, 0, len(page.Items))
	for _, user := range page.Items {
		items = append(items, toUserInfo(user))
	}
	return &shared.Paginated[UserInfo]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

func (s *UserService) newUser(ctx context.Context, username, password string, role identity.Role) (*identity.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(username))
	exists, err := s.userRepo.ExistsByUsername(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}
	return identity.NewUser(username, password, role)
}

func (s *UserService) findUser(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}
	return user, nil
}
