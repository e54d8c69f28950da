package model

import (
	"context"
	"errors"
	"strings"
	"time"

	"dealership-service/internal/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleCustomer = "customer"
)

var (
	// ErrEmailTaken is returned on create/register when the email is
	// already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password so the two cases are indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User represents an account. The password hash never leaves the model
// layer: the field is excluded from JSON serialization structurally,
// not per call site.
type User struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email" gorm:"uniqueIndex"`
	Phone     string     `json:"phone"`
	Password  string     `json:"-"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// BeforeCreate assigns the store id
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserModel wraps the users collection
type UserModel struct {
	col store.Collection[User]
}

// NewUserModel creates a user model bound to the given collection
func NewUserModel(col store.Collection[User]) *UserModel {
	return &UserModel{col: col}
}

// Create hashes the plaintext password, enforces email uniqueness and
// inserts the user. An empty role defaults to customer.
func (m *UserModel) Create(ctx context.Context, user *User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	existing, err := m.col.FindOne(ctx, store.Filter{"email": user.Email})
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)

	if user.Role == "" {
		user.Role = RoleCustomer
	}
	user.IsActive = true

	return m.col.InsertOne(ctx, user)
}

// FindAll returns every user
func (m *UserModel) FindAll(ctx context.Context) ([]User, error) {
	return m.col.FindAll(ctx, store.Filter{})
}

// FindByID returns nil when no user matches
func (m *UserModel) FindByID(ctx context.Context, id string) (*User, error) {
	return m.col.FindByID(ctx, id)
}

// FindByRole returns the users holding the given role
func (m *UserModel) FindByRole(ctx context.Context, role string) ([]User, error) {
	return m.col.FindAll(ctx, store.Filter{"role": role})
}

// Update applies a partial document update. A plaintext password in the
// document is hashed before it reaches the store.
func (m *UserModel) Update(ctx context.Context, id string, doc map[string]any) (int64, error) {
	patch := store.NormalizePatch[User](doc, "createdAt", "lastLogin")

	if password, ok := doc["password"].(string); ok && password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return 0, err
		}
		patch["password"] = string(hashed)
	}

	return m.col.UpdateByID(ctx, id, patch)
}

// Delete removes the user and reports the deleted count
func (m *UserModel) Delete(ctx context.Context, id string) (int64, error) {
	return m.col.DeleteByID(ctx, id)
}

// Authenticate verifies the email/password pair and stamps the
// last-login time on success. Unknown email and wrong password both
// yield ErrInvalidCredentials.
func (m *UserModel) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := m.col.FindOne(ctx, store.Filter{"email": email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if _, err := m.col.UpdateByID(ctx, user.ID, store.Patch{"last_login": now}); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	return user, nil
}
