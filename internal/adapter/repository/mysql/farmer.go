package mysql

import (
	"context"

	farmerDomain "agrifin-backend/internal/domain/farmer"

	"gorm.io/gorm"
)

type FarmerRepository struct{ db *gorm.DB }

func NewFarmerRepository(db *gorm.DB) *FarmerRepository { return &FarmerRepository{db: db} }

func (r *FarmerRepository) GetOrCreateProfile(ctx context.Context, userID uint64) (*farmerDomain.Profile, error) {
	var out farmerDomain.Profile
	res := r.db.WithContext(ctx).
		Where(farmerDomain.Profile{UserID: userID}).
		FirstOrCreate(&out)
	return &out, res.Error
}

func (r *FarmerRepository) SaveProfile(ctx context.Context, p *farmerDomain.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *FarmerRepository) CreateRecord(ctx context.Context, rec *farmerDomain.AgriculturalRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *FarmerRepository) ListRecords(ctx context.Context, userID uint64, limit int) ([]farmerDomain.AgriculturalRecord, error) {
	var out []farmerDomain.AgriculturalRecord
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}
