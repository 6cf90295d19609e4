package farmer

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MaxLocationLen        = 200
	MaxPhoneLen           = 20
	MaxCooperativeNameLen = 200
	MaxCropTypeLen        = 100
	MaxSeasonLen          = 50
)

// Table: farmer_profiles (1:1 with a farmer user)
type Profile struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserID          uint64    `gorm:"column:user_id;not null;uniqueIndex:ux_farmer_profiles_user" json:"-"`
	Location        string    `gorm:"column:location;size:200" json:"location"`
	Phone           string    `gorm:"column:phone;size:20" json:"phone"`
	CooperativeName string    `gorm:"column:cooperative_name;size:200" json:"cooperative_name"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "farmer_profiles" }

// Table: agricultural_records (many per farmer)
type AgriculturalRecord struct {
	ID               uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	UserID           uint64          `gorm:"column:user_id;not null;index:idx_agri_records_user"`
	CropType         string          `gorm:"column:crop_type;size:100;not null"`
	LandSizeHectares decimal.Decimal `gorm:"column:land_size_hectares;type:decimal(10,2);not null"`
	EstimatedYieldKg decimal.Decimal `gorm:"column:estimated_yield_kg;type:decimal(12,2);not null"`
	Season           string          `gorm:"column:season;size:50"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (AgriculturalRecord) TableName() string { return "agricultural_records" }
