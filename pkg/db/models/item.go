package models

// Item is a shareable thing listed by its owner. RequestID links the item
// to the request it was created to fulfil, when there is one.
type Item struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string `gorm:"column:name;not null"`
	Description string `gorm:"column:description;not null"`
	Available   bool   `gorm:"column:available;not null"`
	OwnerID     int64  `gorm:"column:owner_id;not null;index:items_owner_id_idx"`
	Owner       User   `gorm:"foreignKey:OwnerID"`
	RequestID   *int64 `gorm:"column:request_id;index:items_request_id_idx"`
}
