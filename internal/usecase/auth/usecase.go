package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"agrifin-backend/internal/domain/user"
	"agrifin-backend/internal/events"
	"agrifin-backend/internal/logging"
	"agrifin-backend/pkg/id"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidRole        = errors.New("role must be farmer or microfinance")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)

const (
	MinPasswordLen = 8
	// MaxPasswordLen is the bcrypt input limit, in bytes.
	MaxPasswordLen = 72
)

// PrincipalCache short-circuits token lookups. Get returns (nil, nil) on a miss.
type PrincipalCache interface {
	Get(ctx context.Context, token string) (*user.Principal, error)
	Set(ctx context.Context, token string, p user.Principal) error
}

type Usecase struct {
	users  user.Repository
	tokens user.TokenRepository
	cache  PrincipalCache
	pub    events.Publisher
	log    *zap.Logger
	cost   int
}

// NewUsecase: cache may be nil.
func NewUsecase(users user.Repository, tokens user.TokenRepository, cache PrincipalCache, pub events.Publisher, log *zap.Logger) *Usecase {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{users: users, tokens: tokens, cache: cache, pub: pub, log: log, cost: bcrypt.DefaultCost}
}

// SetBcryptCost is for tests.
func (u *Usecase) SetBcryptCost(cost int) { u.cost = cost }

func (u *Usecase) HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLen {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Register creates the user with its role profile and signs it in.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*AuthDTO, error) {
	role := user.RoleFarmer
	if strings.TrimSpace(in.Role) != "" {
		r, ok := user.ParseRole(in.Role)
		if !ok || r == user.RoleAdmin {
			return nil, ErrInvalidRole
		}
		role = r
	}

	email := user.NormalizeEmail(in.Email)
	_, err := u.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, user.ErrEmailTaken
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	hash, err := u.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	usr := &user.User{
		Email:        email,
		FirstName:    strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Profile:      &user.Profile{Role: role},
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, err
	}

	e := events.NewEvent(events.TypeUserRegistered, map[string]any{"user_id": usr.ID, "role": string(role)})
	if err := u.pub.Publish(ctx, e); err != nil {
		logging.FromContext(ctx, u.log).Warn("publish event failed", zap.String("type", e.Type), zap.Error(err))
	}
	return u.signIn(ctx, usr)
}

func (u *Usecase) Login(ctx context.Context, email, password string) (*AuthDTO, error) {
	usr, err := u.users.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u.signIn(ctx, usr)
}

func (u *Usecase) signIn(ctx context.Context, usr *user.User) (*AuthDTO, error) {
	tok, err := u.tokens.GetOrCreate(ctx, usr.ID, id.NewID32())
	if err != nil {
		return nil, err
	}
	p := user.NewPrincipal(usr)
	return &AuthDTO{Token: tok.Token, User: ToUserDTO(p)}, nil
}

func ToUserDTO(p user.Principal) UserDTO {
	return UserDTO{ID: p.UserID, Email: p.Email, Username: p.Email, Role: string(p.Role)}
}

// Authenticate resolves a bearer token to its principal. The role is
// resolved here once and travels with the principal.
func (u *Usecase) Authenticate(ctx context.Context, token string) (*user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	log := logging.FromContext(ctx, u.log)
	if u.cache != nil {
		p, err := u.cache.Get(ctx, token)
		if err != nil {
			log.Warn("principal cache read failed", zap.Error(err))
		} else if p != nil {
			return p, nil
		}
	}

	tok, err := u.tokens.GetByToken(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	usr, err := u.users.GetByID(ctx, tok.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	p := user.NewPrincipal(usr)
	if u.cache != nil {
		if err := u.cache.Set(ctx, token, p); err != nil {
			log.Warn("principal cache write failed", zap.Error(err))
		}
	}
	return &p, nil
}

// CreateAdmin creates a staff account without a role profile; it resolves
// to the admin role.
func (u *Usecase) CreateAdmin(ctx context.Context, email, password string) (*UserDTO, error) {
	hash, err := u.HashPassword(password)
	if err != nil {
		return nil, err
	}
	usr := &user.User{
		Email:        user.NormalizeEmail(email),
		PasswordHash: hash,
		IsStaff:      true,
		IsSuperuser:  true,
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, err
	}
	dto := ToUserDTO(user.NewPrincipal(usr))
	return &dto, nil
}
