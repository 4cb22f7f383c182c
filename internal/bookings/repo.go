package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/sharekit-app/sharekit-backend/pkg/db/models"
	"github.com/sharekit-app/sharekit-backend/pkg/enums"
	"github.com/sharekit-app/sharekit-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository encapsulates booking persistence. Listing queries are a closed
// set of named filters built by one scope helper rather than a method per
// state/side combination.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a booking repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Booker").
		First(&booking, id).Error
	return booking, err
}

func (r *Repository) Save(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

// stateScope applies the temporal or status predicate for a listing state.
// ALL applies nothing; callers validate the state before reaching here.
func stateScope(q *gorm.DB, state enums.BookingState, now time.Time) *gorm.DB {
	switch state {
	case enums.BookingStateCurrent:
		return q.Where("bookings.start_date < ? AND bookings.end_date > ?", now, now)
	case enums.BookingStatePast:
		return q.Where("bookings.end_date < ?", now)
	case enums.BookingStateFuture:
		return q.Where("bookings.start_date > ?", now)
	case enums.BookingStateWaiting:
		return q.Where("bookings.status = ?", enums.BookingStatusWaiting)
	case enums.BookingStateRejected:
		return q.Where("bookings.status = ?", enums.BookingStatusRejected)
	default:
		return q
	}
}

func (r *Repository) list(ctx context.Context, base *gorm.DB, state enums.BookingState, now time.Time, rng pagination.Range) ([]models.Booking, error) {
	var bookings []models.Booking
	q := stateScope(base, state, now).
		Preload("Item").
		Preload("Booker").
		Order("bookings.end_date DESC")
	if rng.Enabled() {
		q = q.Offset(rng.Offset()).Limit(rng.Limit())
	}
	err := q.Find(&bookings).Error
	return bookings, err
}

func (r *Repository) ListByBooker(ctx context.Context, bookerID int64, state enums.BookingState, now time.Time, rng pagination.Range) ([]models.Booking, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("bookings.booker_id = ?", bookerID)
	return r.list(ctx, base, state, now, rng)
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID int64, state enums.BookingState, now time.Time, rng pagination.Range) ([]models.Booking, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", ownerID)
	return r.list(ctx, base, state, now, rng)
}

// LastForItem returns the booking with the latest end among those already
// started, regardless of status. Nil when the item has none.
func (r *Repository) LastForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND start_date < ?", itemID, now).
		Order("end_date DESC").
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// NextForItem returns the earliest not-yet-started booking, regardless of
// status. Nil when the item has none.
func (r *Repository) NextForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND start_date > ?", itemID, now).
		Order("start_date ASC").
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// HasApprovedStarted reports whether the booker holds at least one APPROVED
// booking of the item that has already started.
func (r *Repository) HasApprovedStarted(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("booker_id = ? AND item_id = ? AND status = ? AND start_date < ?",
			bookerID, itemID, enums.BookingStatusApproved, now).
		Count(&count).Error
	return count > 0, err
}
