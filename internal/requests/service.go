package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sharekit-app/sharekit-backend/internal/items"
	"github.com/sharekit-app/sharekit-backend/pkg/db/models"
	pkgerrors "github.com/sharekit-app/sharekit-backend/pkg/errors"
	"gorm.io/gorm"
)

type requestRepository interface {
	Create(ctx context.Context, request *models.Request) error
	GetByID(ctx context.Context, id int64) (models.Request, error)
	ListByRequestor(ctx context.Context, requestorID int64) ([]models.Request, error)
	ListPage(ctx context.Context, pageIndex, size int) ([]models.Request, error)
}

type userGetter interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
}

type itemsByRequestLister interface {
	ListByRequest(ctx context.Context, requestID int64) ([]models.Item, error)
}

// Service exposes item-request operations.
type Service interface {
	Create(ctx context.Context, userID int64, input CreateInput) (RequestDTO, error)
	ListOwn(ctx context.Context, userID int64) ([]RequestDTO, error)
	ListOthers(ctx context.Context, userID int64, from, size *int) ([]RequestDTO, error)
	Get(ctx context.Context, userID, requestID int64) (RequestDTO, error)
}

type service struct {
	repo  requestRepository
	users userGetter
	items itemsByRequestLister
	now   func() time.Time
}

// NewService builds a request service with the provided collaborators.
func NewService(repo requestRepository, users userGetter, itemsRepo itemsByRequestLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("request repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if itemsRepo == nil {
		return nil, fmt.Errorf("items repository required")
	}
	return &service{
		repo:  repo,
		users: users,
		items: itemsRepo,
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

func (s *service) withItems(ctx context.Context, request models.Request) (RequestDTO, error) {
	dto := toDTO(request)
	linked, err := s.items.ListByRequest(ctx, request.ID)
	if err != nil {
		return RequestDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list request items")
	}
	dto.Items = items.ToDTOs(linked)
	return dto, nil
}

func (s *service) Create(ctx context.Context, userID int64, input CreateInput) (RequestDTO, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return RequestDTO{}, err
	}

	request := models.Request{
		Description: input.Description,
		RequestorID: user.ID,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, &request); err != nil {
		return RequestDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create request")
	}
	return toDTO(request), nil
}

func (s *service) ListOwn(ctx context.Context, userID int64) ([]RequestDTO, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	own, err := s.repo.ListByRequestor(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}

	out := make([]RequestDTO, 0, len(own))
	for _, request := range own {
		dto, err := s.withItems(ctx, request)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

// ListOthers pages through everyone's requests and drops the caller's own
// after fetching, so a page may come back shorter than `size`. The page
// index is the raw `from` value here, unlike the item and booking listings.
func (s *service) ListOthers(ctx context.Context, userID int64, from, size *int) ([]RequestDTO, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if from == nil || size == nil {
		return []RequestDTO{}, nil
	}
	if *from < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from must not be negative")
	}
	if *size <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size must be positive")
	}

	page, err := s.repo.ListPage(ctx, *from, *size)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}

	out := make([]RequestDTO, 0, len(page))
	for _, request := range page {
		if request.RequestorID == user.ID {
			continue
		}
		dto, err := s.withItems(ctx, request)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, userID, requestID int64) (RequestDTO, error) {
	if _, err := s.resolveUser(ctx, userID); err != nil {
		return RequestDTO{}, err
	}

	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestDTO{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "Not found request %d", requestID)
		}
		return RequestDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	return s.withItems(ctx, request)
}
