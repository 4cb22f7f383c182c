package models

// User is the canonical identity entity. Email is unique across the
// directory.
type User struct {
	ID    int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name  string `gorm:"column:name;not null"`
	Email string `gorm:"column:email;type:text;not null;uniqueIndex:users_email_key"`
}
