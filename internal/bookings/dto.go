package bookings

import (
	"time"

	"github.com/sharekit-app/sharekit-backend/internal/items"
	"github.com/sharekit-app/sharekit-backend/internal/users"
	"github.com/sharekit-app/sharekit-backend/pkg/db/models"
	"github.com/sharekit-app/sharekit-backend/pkg/enums"
)

// BookingDTO is the wire representation of a booking, carrying the full
// item and booker views the way the historical payload did.
type BookingDTO struct {
	ID     int64               `json:"id"`
	Start  time.Time           `json:"start"`
	End    time.Time           `json:"end"`
	ItemID int64               `json:"itemId"`
	Item   items.ItemDTO       `json:"item"`
	Booker users.UserDTO       `json:"booker"`
	Status enums.BookingStatus `json:"status"`
}

// CreateInput carries the fields accepted when requesting a booking.
type CreateInput struct {
	ItemID int64     `json:"itemId"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

func toDTO(booking models.Booking) BookingDTO {
	return BookingDTO{
		ID:     booking.ID,
		Start:  booking.StartDate,
		End:    booking.EndDate,
		ItemID: booking.ItemID,
		Item:   items.ToDTO(booking.Item),
		Booker: users.ToDTO(booking.Booker),
		Status: booking.Status,
	}
}

func toDTOs(bookings []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toDTO(b))
	}
	return out
}
