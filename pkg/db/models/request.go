package models

import "time"

// Request is a "looking for an item like this" post. Items can reference
// it back through Item.RequestID.
type Request struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Description string    `gorm:"column:description;not null"`
	RequestorID int64     `gorm:"column:requestor_id;not null;index:requests_requestor_id_idx"`
	Requestor   User      `gorm:"foreignKey:RequestorID"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
}
