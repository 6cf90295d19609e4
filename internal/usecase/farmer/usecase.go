package farmer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"agrifin-backend/internal/domain/farmer"
)

const RecordPageSize = 100

var ErrCropTypeRequired = errors.New("crop_type is required")

// ProfilePatch: nil fields are left unchanged.
type ProfilePatch struct {
	Location        *string
	Phone           *string
	CooperativeName *string
}

type RecordInput struct {
	CropType         string
	LandSizeHectares decimal.Decimal
	EstimatedYieldKg decimal.Decimal
	Season           string
}

type RecordDTO struct {
	ID               uint64          `json:"id"`
	CropType         string          `json:"crop_type"`
	LandSizeHectares decimal.Decimal `json:"land_size_hectares"`
	EstimatedYieldKg decimal.Decimal `json:"estimated_yield_kg"`
	Season           string          `json:"season"`
	CreatedAt        time.Time       `json:"created_at"`
}

type Usecase struct{ repo farmer.Repository }

func NewUsecase(r farmer.Repository) *Usecase { return &Usecase{repo: r} }

func (u *Usecase) GetProfile(ctx context.Context, userID uint64) (*farmer.Profile, error) {
	return u.repo.GetOrCreateProfile(ctx, userID)
}

func (u *Usecase) UpdateProfile(ctx context.Context, userID uint64, in ProfilePatch) (*farmer.Profile, error) {
	p, err := u.repo.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Location != nil {
		p.Location = clip(*in.Location, farmer.MaxLocationLen)
	}
	if in.Phone != nil {
		p.Phone = clip(*in.Phone, farmer.MaxPhoneLen)
	}
	if in.CooperativeName != nil {
		p.CooperativeName = clip(*in.CooperativeName, farmer.MaxCooperativeNameLen)
	}
	if err := u.repo.SaveProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *Usecase) CreateRecord(ctx context.Context, userID uint64, in RecordInput) (*RecordDTO, error) {
	crop := clip(in.CropType, farmer.MaxCropTypeLen)
	if crop == "" {
		return nil, ErrCropTypeRequired
	}
	r := &farmer.AgriculturalRecord{
		UserID:           userID,
		CropType:         crop,
		LandSizeHectares: in.LandSizeHectares.Round(2),
		EstimatedYieldKg: in.EstimatedYieldKg.Round(2),
		Season:           clip(in.Season, farmer.MaxSeasonLen),
	}
	if err := u.repo.CreateRecord(ctx, r); err != nil {
		return nil, err
	}
	dto := toRecordDTO(*r)
	return &dto, nil
}

func (u *Usecase) ListRecords(ctx context.Context, userID uint64) ([]RecordDTO, error) {
	rs, err := u.repo.ListRecords(ctx, userID, RecordPageSize)
	if err != nil {
		return nil, err
	}
	return lo.Map(rs, func(r farmer.AgriculturalRecord, _ int) RecordDTO { return toRecordDTO(r) }), nil
}

func toRecordDTO(r farmer.AgriculturalRecord) RecordDTO {
	return RecordDTO{
		ID:               r.ID,
		CropType:         r.CropType,
		LandSizeHectares: r.LandSizeHectares,
		EstimatedYieldKg: r.EstimatedYieldKg,
		Season:           r.Season,
		CreatedAt:        r.CreatedAt,
	}
}

func clip(s string, n int) string { return lo.Substring(strings.TrimSpace(s), 0, uint(n)) }
