package models

import "time"

// Comment is feedback left on an item by a past booker.
type Comment struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Text      string    `gorm:"column:text;not null"`
	ItemID    int64     `gorm:"column:item_id;not null;index:comments_item_id_idx"`
	Item      Item      `gorm:"foreignKey:ItemID"`
	AuthorID  int64     `gorm:"column:author_id;not null"`
	Author    User      `gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}
