package requests

import (
	"time"

	"github.com/sharekit-app/sharekit-backend/internal/items"
	"github.com/sharekit-app/sharekit-backend/pkg/db/models"
)

// RequestDTO is the wire representation of an item request together with
// the items published in answer to it.
type RequestDTO struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Created     time.Time       `json:"created"`
	Items       []items.ItemDTO `json:"items"`
}

// CreateInput carries the fields accepted when posting a request.
type CreateInput struct {
	Description string `json:"description"`
}

func toDTO(request models.Request) RequestDTO {
	return RequestDTO{
		ID:          request.ID,
		Description: request.Description,
		Created:     request.CreatedAt,
	}
}
