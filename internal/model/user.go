package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a recipient of stock notifications. Authentication and password
// management live outside this service; only identity and email matter here.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Name      string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
