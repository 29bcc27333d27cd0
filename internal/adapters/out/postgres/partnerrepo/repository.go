package partnerrepo

import (
	"context"
	"errors"

	"partnerdelivery/internal/adapters/out/postgres/pgerr"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/partner"
	"partnerdelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPartnerRepository implements ports.PartnerRepository using GORM.
type GormPartnerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPartnerRepository(db *gorm.DB, tracker aggregateTracker) *GormPartnerRepository {
	return &GormPartnerRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormPartnerRepository) Add(ctx context.Context, aggregate *partner.Partner) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Translate(err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the partner row and replaces its zone set. The caller is expected to run
// inside a transaction so the row and its zones change together.
func (r *GormPartnerRepository) Update(ctx context.Context, aggregate *partner.Partner) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&PartnerDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id", "joined_at", "SavedLocations").
		Updates(&dto)
	if result.Error != nil {
		return pgerr.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("partner", aggregate.ID().String())
	}

	if err := r.replaceSavedLocations(db, dto); err != nil {
		return pgerr.Translate(err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPartnerRepository) replaceSavedLocations(db *gorm.DB, dto PartnerDTO) error {
	keep := make([]uuid.UUID, 0, len(dto.SavedLocations))
	for _, l := range dto.SavedLocations {
		keep = append(keep, l.ID)
	}

	removed := db.Where("partner_id = ?", dto.ID)
	if len(keep) > 0 {
		removed = removed.Where("id NOT IN ?", keep)
	}
	if err := removed.Delete(&SavedLocationDTO{}).Error; err != nil {
		return err
	}

	if len(dto.SavedLocations) == 0 {
		return nil
	}

	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto.SavedLocations).Error
}

func (r *GormPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate locks the partner row. Zones are read without a lock; they only change
// through Update on the same locked row.
func (r *GormPartnerRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*partner.Partner, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormPartnerRepository) get(db *gorm.DB, id kernel.UUID) (*partner.Partner, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PartnerDTO
	err := db.Preload("SavedLocations", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("name")
	}).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("partner", id.String())
		}
		return nil, pgerr.Translate(err)
	}

	return toDomain(dto)
}
