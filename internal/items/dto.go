package items

import (
	"time"

	"github.com/sharekit-app/sharekit-backend/pkg/db/models"
)

// BookingShortInfo is the trimmed booking view attached to an owner's item.
type BookingShortInfo struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

// CommentDTO is the wire representation of a comment. The `item` field is
// the item id, matching the historical payload shape.
type CommentDTO struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	Item       int64     `json:"item"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// ItemDTO is the wire representation of an item. Booking annotations are
// only populated for the owner's view.
type ItemDTO struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Available   bool              `json:"available"`
	RequestID   *int64            `json:"requestId"`
	LastBooking *BookingShortInfo `json:"lastBooking"`
	NextBooking *BookingShortInfo `json:"nextBooking"`
	Comments    []CommentDTO      `json:"comments"`
}

// CreateInput carries the fields accepted when publishing an item.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

// UpdateInput carries a partial item update. Nil fields are left untouched.
type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// CommentInput carries the comment body.
type CommentInput struct {
	Text string `json:"text"`
}

// ToDTO maps an item without annotations.
func ToDTO(item models.Item) ItemDTO {
	return ItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		RequestID:   item.RequestID,
	}
}

// ToDTOs maps items without annotations, the shape used for search results
// and request-linked item listings.
func ToDTOs(items []models.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, ToDTO(item))
	}
	return out
}

func toCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:         comment.ID,
		Text:       comment.Text,
		Item:       comment.ItemID,
		AuthorName: comment.Author.Name,
		Created:    comment.CreatedAt,
	}
}

func toCommentDTOs(comments []models.Comment) []CommentDTO {
	out := make([]CommentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentDTO(c))
	}
	return out
}
