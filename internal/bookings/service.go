package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sharekit-app/sharekit-backend/pkg/db/models"
	"github.com/sharekit-app/sharekit-backend/pkg/enums"
	pkgerrors "github.com/sharekit-app/sharekit-backend/pkg/errors"
	"github.com/sharekit-app/sharekit-backend/pkg/pagination"
	"gorm.io/gorm"
)

type bookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id int64) (models.Booking, error)
	Save(ctx context.Context, booking *models.Booking) error
	ListByBooker(ctx context.Context, bookerID int64, state enums.BookingState, now time.Time, rng pagination.Range) ([]models.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state enums.BookingState, now time.Time, rng pagination.Range) ([]models.Booking, error)
}

type userGetter interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
}

type itemGetter interface {
	GetByID(ctx context.Context, id int64) (models.Item, error)
}

// Service exposes booking operations. Bookings move WAITING → APPROVED or
// WAITING → REJECTED; both end states are terminal.
type Service interface {
	Create(ctx context.Context, userID int64, input CreateInput) (BookingDTO, error)
	Approve(ctx context.Context, userID, bookingID int64, approved bool) (BookingDTO, error)
	Get(ctx context.Context, userID, bookingID int64) (BookingDTO, error)
	ListByBooker(ctx context.Context, userID int64, state string, rng pagination.Range) ([]BookingDTO, error)
	ListByOwner(ctx context.Context, userID int64, state string, rng pagination.Range) ([]BookingDTO, error)
}

type service struct {
	repo  bookingRepository
	users userGetter
	items itemGetter
	now   func() time.Time
}

// NewService builds a booking service with the provided collaborators.
func NewService(repo bookingRepository, users userGetter, items itemGetter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("items repository required")
	}
	return &service{
		repo:  repo,
		users: users,
		items: items,
		now:   time.Now,
	}, nil
}

func (s *service) resolveUser(ctx context.Context, userID int64) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "Not found user %d", userID)
		}
		return models.User{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) resolveBooking(ctx context.Context, bookingID int64) (models.Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "Not found booking %d", bookingID)
		}
		return models.Booking{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	return booking, nil
}

func (s *service) Create(ctx context.Context, userID int64, input CreateInput) (BookingDTO, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return BookingDTO{}, err
	}

	item, err := s.items.GetByID(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BookingDTO{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "Not found item %d", input.ItemID)
		}
		return BookingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	if !item.Available {
		return BookingDTO{}, pkgerrors.Newf(pkgerrors.CodeValidation, "Item %d not available!", item.ID)
	}

	now := s.now()
	if !input.End.After(now) {
		return BookingDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "End date of booking before now!")
	}
	if !input.End.After(input.Start) {
		return BookingDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "End date of booking before start!")
	}
	if !input.Start.After(now) {
		return BookingDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "Start date of booking before now!")
	}

	// Booking your own item is reported as a missing item, not a
	// forbidden action, so owners cannot probe which ids exist.
	if item.OwnerID == user.ID {
		return BookingDTO{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "Not found item %d", item.ID)
	}

	booking := models.Booking{
		StartDate: input.Start,
		EndDate:   input.End,
		ItemID:    item.ID,
		Item:      item,
		BookerID:  user.ID,
		Booker:    user,
		Status:    enums.BookingStatusWaiting,
	}
	if err := s.repo.Create(ctx, &booking); err != nil {
		return BookingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
	}
	return toDTO(booking), nil
}

func (s *service) Approve(ctx context.Context, userID, bookingID int64, approved bool) (BookingDTO, error) {
	booking, err := s.resolveBooking(ctx, bookingID)
	if err != nil {
		return BookingDTO{}, err
	}

	if !booking.Item.Available {
		return BookingDTO{}, pkgerrors.Newf(pkgerrors.CodeValidation, "Item %d not available!", booking.ItemID)
	}

	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return BookingDTO{}, err
	}

	// Only the item owner decides; everyone else gets the same answer
	// as for an item that does not exist.
	if booking.Item.OwnerID != user.ID {
		return BookingDTO{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "Not found item %d", booking.ItemID)
	}

	if approved {
		if booking.Status == enums.BookingStatusApproved {
			return BookingDTO{}, pkgerrors.Newf(pkgerrors.CodeValidation, "Status booking %d is bad!", booking.ID)
		}
		booking.Status = enums.BookingStatusApproved
	} else {
		booking.Status = enums.BookingStatusRejected
	}

	if err := s.repo.Save(ctx, &booking); err != nil {
		return BookingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking")
	}
	return toDTO(booking), nil
}

func (s *service) Get(ctx context.Context, userID, bookingID int64) (BookingDTO, error) {
	booking, err := s.resolveBooking(ctx, bookingID)
	if err != nil {
		return BookingDTO{}, err
	}
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return BookingDTO{}, err
	}

	if booking.Item.OwnerID != user.ID && booking.BookerID != user.ID {
		return BookingDTO{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "Not found booking %d", bookingID)
	}
	return toDTO(booking), nil
}

func (s *service) ListByBooker(ctx context.Context, userID int64, state string, rng pagination.Range) ([]BookingDTO, error) {
	now := s.now()

	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	parsed, err := parseState(state)
	if err != nil {
		return nil, err
	}
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	bookings, err := s.repo.ListByBooker(ctx, user.ID, parsed, now, rng)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}
	return toDTOs(bookings), nil
}

func (s *service) ListByOwner(ctx context.Context, userID int64, state string, rng pagination.Range) ([]BookingDTO, error) {
	now := s.now()

	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	parsed, err := parseState(state)
	if err != nil {
		return nil, err
	}
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	bookings, err := s.repo.ListByOwner(ctx, user.ID, parsed, now, rng)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}
	return toDTOs(bookings), nil
}

// parseState keeps the historical error text: the message names the literal
// UNSUPPORTED_STATUS token rather than the rejected value.
func parseState(state string) (enums.BookingState, error) {
	parsed := enums.BookingState(state)
	if !parsed.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "Unknown state: UNSUPPORTED_STATUS")
	}
	return parsed, nil
}
