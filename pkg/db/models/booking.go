package models

import (
	"time"

	"github.com/sharekit-app/sharekit-backend/pkg/enums"
)

// Booking is the relationship entity between an item and the user who
// wants to borrow it for [StartDate, EndDate).
type Booking struct {
	ID        int64               `gorm:"column:id;primaryKey;autoIncrement"`
	StartDate time.Time           `gorm:"column:start_date;not null"`
	EndDate   time.Time           `gorm:"column:end_date;not null"`
	ItemID    int64               `gorm:"column:item_id;not null;index:bookings_item_id_idx"`
	Item      Item                `gorm:"foreignKey:ItemID"`
	BookerID  int64               `gorm:"column:booker_id;not null;index:bookings_booker_id_idx"`
	Booker    User                `gorm:"foreignKey:BookerID"`
	Status    enums.BookingStatus `gorm:"column:status;type:text;not null"`
}
