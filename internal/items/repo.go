package items

import (
	"context"
	"strings"

	"github.com/sharekit-app/sharekit-backend/pkg/db/models"
	"github.com/sharekit-app/sharekit-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository encapsulates item and comment persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an item repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func paged(q *gorm.DB, rng pagination.Range) *gorm.DB {
	if rng.Enabled() {
		q = q.Offset(rng.Offset()).Limit(rng.Limit())
	}
	return q
}

func (r *Repository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).First(&item, id).Error
	return item, err
}

func (r *Repository) Save(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID int64, rng pagination.Range) ([]models.Item, error) {
	var items []models.Item
	q := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC")
	err := paged(q, rng).Find(&items).Error
	return items, err
}

// Search matches available items whose name or description contains the
// text, case-insensitively.
func (r *Repository) Search(ctx context.Context, text string, rng pagination.Range) ([]models.Item, error) {
	var items []models.Item
	pattern := "%" + strings.ToLower(text) + "%"
	q := r.db.WithContext(ctx).
		Where("available = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("id ASC")
	err := paged(q, rng).Find(&items).Error
	return items, err
}

func (r *Repository) ListByRequest(ctx context.Context, requestID int64) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *Repository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *Repository) ListComments(ctx context.Context, itemID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("item_id = ?", itemID).
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}
