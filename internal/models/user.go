package models

import "time"

// User owns a wallet. The wallet is created in the same atomic unit as the
// user row during registration.
type User struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Email         string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone         string    `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	FirstName     string    `gorm:"size:100;not null" json:"first_name"`
	LastName      string    `gorm:"size:100;not null" json:"last_name"`
	PasswordHash  string    `gorm:"not null" json:"-"`
	BVN           string    `gorm:"column:bvn;size:11;not null" json:"-"`
	IsBlacklisted bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
