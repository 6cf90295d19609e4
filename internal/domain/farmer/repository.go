package farmer

import "context"

type Repository interface {
	GetOrCreateProfile(ctx context.Context, userID uint64) (*Profile, error)
	SaveProfile(ctx context.Context, p *Profile) error

	CreateRecord(ctx context.Context, r *AgriculturalRecord) error
	// ListRecords returns the user's records, newest first.
	ListRecords(ctx context.Context, userID uint64, limit int) ([]AgriculturalRecord, error)
}
