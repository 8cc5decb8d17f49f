package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Label is an owner-scoped tag. Names are unique per owner.
type Label struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_labels_user_name" json:"user_id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex:idx_labels_user_name" json:"name"`
	Color       string    `gorm:"size:20" json:"color"`
	Icon        string    `gorm:"size:50" json:"icon"`
	Description string    `json:"description"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (l *Label) FromJSON(data []byte) error {
	return json.Unmarshal(data, l)
}

func (l *Label) ToJSON() ([]byte, error) {
	return json.Marshal(l)
}
