package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/localnerve/nutradaily/internal/models"
	"github.com/localnerve/nutradaily/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// NewUser is the signup input
type NewUser struct {
	Name          string
	Email         string
	Password      string
	HeightCM      float64
	WeightKG      float64
	Gender        string
	ActivityLevel string
	Goal          string
}

// UserUpdate carries the profile fields to merge. Nil fields are left as stored.
// The email is not part of it: it cannot change.
type UserUpdate struct {
	Name          *string
	Password      *string
	HeightCM      *float64
	WeightKG      *float64
	Gender        *string
	ActivityLevel *string
	Goal          *string
}

// AccountStore owns the user table.
// Every operation loads the whole table, works on it in memory and, for writes,
// replaces it in full; mu makes each of those sequences a critical section.
type AccountStore struct {
	mu         sync.Mutex
	users      store.Table[models.User]
	bcryptCost int
	now        func() time.Time
}

// NewAccountStore creates an account store over the given table
func NewAccountStore(users store.Table[models.User], bcryptCost int) *AccountStore {
	return &AccountStore{
		users:      users,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// CreateUser registers a new user and returns the stored record
func (s *AccountStore) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Password) == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}
	if in.HeightCM <= 0 || in.WeightKG <= 0 {
		return nil, fmt.Errorf("%w: height and weight must be positive", ErrValidation)
	}
	if err := checkPrintable("name", in.Name); err != nil {
		return nil, err
	}
	if err := checkPrintable("email", in.Email); err != nil {
		return nil, err
	}

	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		HeightCM: in.HeightCM,
		WeightKG: in.WeightKG,
	}
	var err error
	if user.Gender, err = models.ParseGender(in.Gender); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if user.ActivityLevel, err = models.ParseActivityLevel(in.ActivityLevel); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if user.Goal, err = models.ParseGoal(in.Goal); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if user.PasswordHash, err = s.hash(in.Password); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if indexOf(users, in.Email) >= 0 {
		return nil, ErrDuplicateEmail
	}

	user.CreatedAt = s.now().UTC()
	if err := s.users.ReplaceAll(ctx, append(users, user)); err != nil {
		return nil, err
	}

	return &user, nil
}

// Authenticate returns the user whose email and password both match, or nil
func (s *AccountStore) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	s.mu.Lock()
	users, err := s.users.LoadAll(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Email != email {
			continue
		}
		err := bcrypt.CompareHashAndPassword([]byte(users[i].PasswordHash), []byte(password))
		if err == nil {
			return &users[i], nil
		}
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, fmt.Errorf("stored credential for %s: %w", email, err)
		}
	}

	return nil, nil
}

// GetByEmail returns the user with the given email, or nil
func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	users, err := s.users.LoadAll(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if i := indexOf(users, email); i >= 0 {
		return &users[i], nil
	}
	return nil, nil
}

// UpdateUser merges the set fields of update into the stored user
func (s *AccountStore) UpdateUser(ctx context.Context, email string, update UserUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.LoadAll(ctx)
	if err != nil {
		return err
	}
	i := indexOf(users, email)
	if i < 0 {
		return ErrNotFound
	}

	if err := s.merge(&users[i], update); err != nil {
		return err
	}

	return s.users.ReplaceAll(ctx, users)
}

// DeleteUser removes the user with the given email. Deleting an absent user is not an error.
func (s *AccountStore) DeleteUser(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.LoadAll(ctx)
	if err != nil {
		return err
	}

	kept := slices.DeleteFunc(users, func(u models.User) bool {
		return u.Email == email
	})

	return s.users.ReplaceAll(ctx, kept)
}

func (s *AccountStore) merge(user *models.User, update UserUpdate) error {
	next := *user
	var err error

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		if err := checkPrintable("name", *update.Name); err != nil {
			return err
		}
		next.Name = *update.Name
	}
	if update.Password != nil {
		if strings.TrimSpace(*update.Password) == "" {
			return fmt.Errorf("%w: password cannot be empty", ErrValidation)
		}
		if next.PasswordHash, err = s.hash(*update.Password); err != nil {
			return err
		}
	}
	if update.HeightCM != nil {
		if *update.HeightCM <= 0 {
			return fmt.Errorf("%w: height must be positive", ErrValidation)
		}
		next.HeightCM = *update.HeightCM
	}
	if update.WeightKG != nil {
		if *update.WeightKG <= 0 {
			return fmt.Errorf("%w: weight must be positive", ErrValidation)
		}
		next.WeightKG = *update.WeightKG
	}
	if update.Gender != nil {
		if next.Gender, err = models.ParseGender(*update.Gender); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if update.ActivityLevel != nil {
		if next.ActivityLevel, err = models.ParseActivityLevel(*update.ActivityLevel); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if update.Goal != nil {
		if next.Goal, err = models.ParseGoal(*update.Goal); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	*user = next
	return nil
}

func (s *AccountStore) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password is longer than 72 bytes", ErrValidation)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func indexOf(users []models.User, email string) int {
	return slices.IndexFunc(users, func(u models.User) bool {
		return u.Email == email
	})
}
