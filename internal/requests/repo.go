package requests

import (
	"context"

	"github.com/sharekit-app/sharekit-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates item-request persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a request repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, request *models.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (models.Request, error) {
	var request models.Request
	err := r.db.WithContext(ctx).First(&request, id).Error
	return request, err
}

func (r *Repository) ListByRequestor(ctx context.Context, requestorID int64) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.WithContext(ctx).
		Where("requestor_id = ?", requestorID).
		Order("id ASC").
		Find(&requests).Error
	return requests, err
}

// ListPage returns one page of all requests. Exclusion of the caller's own
// requests happens after paging, keeping the historical page composition.
func (r *Repository) ListPage(ctx context.Context, pageIndex, size int) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(pageIndex * size).
		Limit(size).
		Find(&requests).Error
	return requests, err
}
