package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	IsVerified   bool      `gorm:"not null;default:false"   json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Book struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string     `gorm:"not null"             json:"title"`
	Author        string     `gorm:"not null"             json:"author"`
	Publisher     string     `gorm:"not null"             json:"publisher"`
	PublishedDate string     `json:"published_date"`
	PageCount     int        `json:"page_count"`
	Language      string     `json:"language"`
	UserID        *uuid.UUID `gorm:"type:uuid;index"      json:"user_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	Rating     int       `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	ReviewText string    `gorm:"not null"                      json:"review_text"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null"      json:"user_id"`
	BookID     uuid.UUID `gorm:"type:uuid;index;not null"      json:"book_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
