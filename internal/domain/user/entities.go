package user

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("a user with this email already exists")
)

type Role string

const (
	RoleFarmer       Role = "farmer"
	RoleMicrofinance Role = "microfinance"
	RoleAdmin        Role = "admin"
)

// ParseRole accepts the wire form of a role (case-insensitive).
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleFarmer, RoleMicrofinance, RoleAdmin:
		return r, true
	}
	return "", false
}

// Table: users
type User struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string    `gorm:"column:email;size:254;not null;uniqueIndex:ux_users_email"`
	FirstName    string    `gorm:"column:first_name;size:150"`
	PasswordHash string    `gorm:"column:password_hash;size:100;not null"`
	IsStaff      bool      `gorm:"column:is_staff;not null;default:false"`
	IsSuperuser  bool      `gorm:"column:is_superuser;not null;default:false"`
	Profile      *Profile  `gorm:"foreignKey:UserID"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

// Role resolves the account role: the profile wins, staff accounts without
// a profile are admins, everyone else is a farmer.
func (u *User) Role() Role {
	if u.Profile != nil && u.Profile.Role != "" {
		return u.Profile.Role
	}
	if u.IsStaff || u.IsSuperuser {
		return RoleAdmin
	}
	return RoleFarmer
}

// Table: user_profiles (1:1 with users)
type Profile struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"column:user_id;not null;uniqueIndex:ux_user_profiles_user"`
	Role      Role      `gorm:"column:role;size:20;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Profile) TableName() string { return "user_profiles" }

// Table: auth_tokens. One opaque bearer token per user.
type AuthToken struct {
	Token     string    `gorm:"column:token;primaryKey;size:40"`
	UserID    uint64    `gorm:"column:user_id;not null;uniqueIndex:ux_auth_tokens_user"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AuthToken) TableName() string { return "auth_tokens" }

// NormalizeEmail is the canonical stored form of an email address.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
