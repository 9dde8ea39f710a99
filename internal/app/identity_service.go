package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"miniblog/internal/model"
	"miniblog/internal/repository"
)

// Principal is an authenticated identity as seen by the session layer.
type Principal interface {
	PrincipalID() uint
	PrincipalName() string
	CheckPassword(plaintext string) bool
}

type userPrincipal struct {
	user *model.User
}

func NewPrincipal(user *model.User) Principal {
	return userPrincipal{user: user}
}

func (p userPrincipal) PrincipalID() uint     { return p.user.ID }
func (p userPrincipal) PrincipalName() string { return p.user.Username }

func (p userPrincipal) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.user.PasswordHash), []byte(plaintext)) == nil
}

type IdentityService struct {
	tx       *repository.Transactor
	userRepo *repository.UserRepository
	activity ActivityPublisher
	hashCost int
	// decoy is compared against when the username is unknown so both
	// failure paths spend the same bcrypt time.
	decoy []byte
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

func NewIdentityService(tx *repository.Transactor, userRepo *repository.UserRepository, activity ActivityPublisher, hashCost int) *IdentityService {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &IdentityService{
		tx:       tx,
		userRepo: userRepo,
		activity: activity,
		hashCost: hashCost,
		decoy:    decoyDigest(bcrypt.GenerateFromPassword, hashCost),
	}
}

// fallbackDecoy is a well-formed cost-10 digest used when generating a fresh
// decoy fails. An empty decoy would make unknown-user checks return early.
const fallbackDecoy = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func decoyDigest(generate func(password []byte, cost int) ([]byte, error), cost int) []byte {
	decoy, err := generate([]byte("miniblog-decoy-password"), cost)
	if err != nil {
		log.Printf("generate decoy digest failed, using fallback: %v", err)
		return []byte(fallbackDecoy)
	}
	return decoy
}

func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := input.Password

	if username == "" || email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	err = s.tx.WithinTx(func(repos repository.Repos) error {
		taken, err := repos.Users.ExistsByUsernameOrEmail(username, email)
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}
		return repos.Users.Create(user)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}

	publishActivity(ctx, s.activity, model.ActivityLog{
		Kind:       model.ActivityUserRegistered,
		ActorID:    user.ID,
		OccurredAt: user.CreatedAt,
	})
	return user, nil
}

// Authenticate returns ErrInvalidCredentials for an unknown username and for
// a wrong password alike.
func (s *IdentityService) Authenticate(input LoginInput) (Principal, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.decoy, []byte(input.Password))
		return nil, ErrInvalidCredentials
	}

	principal := NewPrincipal(user)
	if !principal.CheckPassword(input.Password) {
		return nil, ErrInvalidCredentials
	}
	return principal, nil
}

func (s *IdentityService) GetUser(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}
