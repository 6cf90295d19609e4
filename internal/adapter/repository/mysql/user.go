package mysql

import (
	"context"
	"errors"

	userDomain "agrifin-backend/internal/domain/user"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	u.Email = userDomain.NormalizeEmail(u.Email)
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return userDomain.ErrEmailTaken
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Preload("Profile").Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).
		Preload("Profile").
		Where("LOWER(email) = ?", userDomain.NormalizeEmail(email)).
		First(&out)
	return &out, res.Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	res := r.db.WithContext(ctx).Model(&userDomain.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) ListWithProfile(ctx context.Context, role userDomain.Role, limit int) ([]userDomain.User, error) {
	profiles := r.db.Model(&userDomain.Profile{}).Select("user_id")
	if role != "" {
		profiles = profiles.Where("role = ?", role)
	}
	var out []userDomain.User
	res := r.db.WithContext(ctx).
		Preload("Profile").
		Where("id IN (?)", profiles).
		Order("id ASC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

func (r *UserRepository) CountByRole(ctx context.Context, role userDomain.Role) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&userDomain.Profile{}).Where("role = ?", role).Count(&n)
	return n, res.Error
}

type TokenRepository struct{ db *gorm.DB }

func NewTokenRepository(db *gorm.DB) *TokenRepository { return &TokenRepository{db: db} }

func (r *TokenRepository) GetOrCreate(ctx context.Context, userID uint64, candidate string) (*userDomain.AuthToken, error) {
	db := r.db.WithContext(ctx)
	// concurrent logins race on the unique user index; the loser re-reads
	res := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&userDomain.AuthToken{Token: candidate, UserID: userID})
	if res.Error != nil {
		return nil, res.Error
	}
	var out userDomain.AuthToken
	if err := db.Where("user_id = ?", userID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *TokenRepository) GetByToken(ctx context.Context, token string) (*userDomain.AuthToken, error) {
	var out userDomain.AuthToken
	res := r.db.WithContext(ctx).Where("token = ?", token).First(&out)
	return &out, res.Error
}
