package items

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sharekit-app/sharekit-backend/pkg/db/models"
	"github.com/sharekit-app/sharekit-backend/pkg/enums"
	pkgerrors "github.com/sharekit-app/sharekit-backend/pkg/errors"
	"github.com/sharekit-app/sharekit-backend/pkg/pagination"
	"gorm.io/gorm"
)

type itemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id int64) (models.Item, error)
	Save(ctx context.Context, item *models.Item) error
	ListByOwner(ctx context.Context, ownerID int64, rng pagination.Range) ([]models.Item, error)
	Search(ctx context.Context, text string, rng pagination.Range) ([]models.Item, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, itemID int64) ([]models.Comment, error)
}

type userGetter interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
}

type bookingReader interface {
	LastForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	NextForItem(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	HasApprovedStarted(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
}

// Service exposes item operations.
type Service interface {
	Create(ctx context.Context, userID int64, input CreateInput) (ItemDTO, error)
	Update(ctx context.Context, userID, itemID int64, input UpdateInput) (ItemDTO, error)
	Get(ctx context.Context, userID, itemID int64) (ItemDTO, error)
	ListByOwner(ctx context.Context, userID int64, rng pagination.Range) ([]ItemDTO, error)
	Search(ctx context.Context, text string, rng pagination.Range) ([]ItemDTO, error)
	AddComment(ctx context.Context, userID, itemID int64, input CommentInput) (CommentDTO, error)
}

type service struct {
	repo     itemRepository
	users    userGetter
	bookings bookingReader
	now      func() time.Time
}

// NewService builds an item service with the provided collaborators.
func NewService(repo itemRepository, users userGetter, bookings bookingReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if bookings == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	return &service{
		repo:     repo,
		users:    users,
		bookings: bookings,
		now:      time.Now,
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

func (s *service) resolveItem(ctx context.Context, itemID int64) (models.Item, error) {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Item{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "Not found item %d", itemID)
		}
		return models.Item{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

func (s *service) Create(ctx context.Context, userID int64, input CreateInput) (ItemDTO, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return ItemDTO{}, err
	}

	item := models.Item{
		Name:        input.Name,
		Description: input.Description,
		Available:   input.Available,
		OwnerID:     user.ID,
		RequestID:   input.RequestID,
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}
	return ToDTO(item), nil
}

func (s *service) Update(ctx context.Context, userID, itemID int64, input UpdateInput) (ItemDTO, error) {
	item, err := s.resolveItem(ctx, itemID)
	if err != nil {
		return ItemDTO{}, err
	}
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return ItemDTO{}, err
	}
	if item.OwnerID != user.ID {
		return ItemDTO{}, pkgerrors.Newf(pkgerrors.CodeForbidden, "Another user for item %d", itemID)
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Available != nil {
		item.Available = *input.Available
	}

	if err := s.repo.Save(ctx, &item); err != nil {
		return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}
	return ToDTO(item), nil
}

func (s *service) Get(ctx context.Context, userID, itemID int64) (ItemDTO, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return ItemDTO{}, err
	}
	item, err := s.resolveItem(ctx, itemID)
	if err != nil {
		return ItemDTO{}, err
	}
	return s.annotate(ctx, item, user.ID)
}

func (s *service) ListByOwner(ctx context.Context, userID int64, rng pagination.Range) ([]ItemDTO, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByOwner(ctx, user.ID, rng)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}

	out := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dto, err := s.annotate(ctx, item, user.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

func (s *service) Search(ctx context.Context, text string, rng pagination.Range) ([]ItemDTO, error) {
	if strings.TrimSpace(text) == "" {
		return []ItemDTO{}, nil
	}
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	items, err := s.repo.Search(ctx, text, rng)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search items")
	}
	return ToDTOs(items), nil
}

func (s *service) AddComment(ctx context.Context, userID, itemID int64, input CommentInput) (CommentDTO, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return CommentDTO{}, err
	}
	item, err := s.resolveItem(ctx, itemID)
	if err != nil {
		return CommentDTO{}, err
	}

	eligible, err := s.bookings.HasApprovedStarted(ctx, user.ID, item.ID, s.now())
	if err != nil {
		return CommentDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check bookings")
	}
	if !eligible {
		return CommentDTO{}, pkgerrors.Newf(pkgerrors.CodeValidation,
			"No bookings for user %d, item %d", user.ID, item.ID)
	}

	comment := models.Comment{
		Text:      input.Text,
		ItemID:    item.ID,
		AuthorID:  user.ID,
		Author:    user,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateComment(ctx, &comment); err != nil {
		return CommentDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create comment")
	}
	return toCommentDTO(comment), nil
}

// annotate attaches comments and, for the owner's view, the last and next
// booking short infos. An annotation is attached only when the candidate
// booking is APPROVED; a WAITING or REJECTED candidate suppresses it rather
// than falling through to an older one.
func (s *service) annotate(ctx context.Context, item models.Item, viewerID int64) (ItemDTO, error) {
	dto := ToDTO(item)

	comments, err := s.repo.ListComments(ctx, item.ID)
	if err != nil {
		return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}
	dto.Comments = toCommentDTOs(comments)

	if item.OwnerID != viewerID {
		return dto, nil
	}

	now := s.now()
	last, err := s.bookings.LastForItem(ctx, item.ID, now)
	if err != nil {
		return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load last booking")
	}
	if last != nil && last.Status == enums.BookingStatusApproved {
		dto.LastBooking = &BookingShortInfo{ID: last.ID, BookerID: last.BookerID}
	}

	next, err := s.bookings.NextForItem(ctx, item.ID, now)
	if err != nil {
		return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load next booking")
	}
	if next != nil && next.Status == enums.BookingStatusApproved {
		dto.NextBooking = &BookingShortInfo{ID: next.ID, BookerID: next.BookerID}
	}

	return dto, nil
}
