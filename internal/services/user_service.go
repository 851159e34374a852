package services

import (
	"context"
	"errors"
	"log"

	"birs-backend/internal/auth"
	"birs-backend/internal/models"
)

// UserStore is the slice of the user repository the service needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id int) error
}

// TargetStore sets collection targets when an ATO account is provisioned.
type TargetStore interface {
	SetTarget(ctx context.Context, t *models.PerformanceTarget) error
}

type UserService struct {
	users      UserStore
	targets    TargetStore
	jwtManager *auth.JWTManager
}

func NewUserService(users UserStore, targets TargetStore, jwtManager *auth.JWTManager) *UserService {
	return &UserService{users: users, targets: targets, jwtManager: jwtManager}
}

var ErrInvalidCredentials = errors.New("invalid username or password")

// Login checks credentials and returns a signed token with the user row.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	log.Printf("[User] %s logged in (role %s)", user.Username, user.Role)
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Create provisions a new account with the requested role.
func (s *UserService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if !models.ValidRole(req.Role) {
		return nil, errors.New("invalid role")
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		LGA:          req.LGA,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("[User] created %s (role %s)", user.Username, user.Role)
	return user, nil
}

// CreateATO provisions an agent account and its collection target in one
// call. The target is optional; zero means not yet assigned.
func (s *UserService) CreateATO(ctx context.Context, adminID int, req *models.CreateATORequest) (*models.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         models.RoleATO,
		LGA:          req.LGA,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if req.TargetAmount > 0 {
		target := &models.PerformanceTarget{
			UserID:       user.ID,
			TargetAmount: req.TargetAmount,
			SetBy:        adminID,
		}
		if err := s.targets.SetTarget(ctx, target); err != nil {
			return nil, err
		}
	}
	log.Printf("[User] created ATO %s for %s", user.Username, user.LGA)
	return user, nil
}

// Delete removes an account. An admin cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, callerID, id int) error {
	if callerID == id {
		return models.ErrSelfDelete
	}
	return s.users.Delete(ctx, id)
}

// Update applies partial changes to an account.
func (s *UserService) Update(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if req.Role != "" {
		if !models.ValidRole(req.Role) {
			return nil, errors.New("invalid role")
		}
		user.Role = req.Role
	}
	if req.LGA != "" {
		user.LGA = req.LGA
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	return s.users.Get(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) ListATOs(ctx context.Context) ([]*models.User, error) {
	return s.users.ListByRole(ctx, models.RoleATO)
}
