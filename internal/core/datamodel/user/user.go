package user

import "time"

// User is the persistence model for the users collection.
type User struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Username     string    `gorm:"column:username;uniqueIndex;size:100;not null"`
	Name         string    `gorm:"column:name;size:255"`
	Email        string    `gorm:"column:email;size:255"`
	Role         string    `gorm:"column:role;size:20;default:'user'"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}
