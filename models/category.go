package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Category is an owner-scoped tag that may form a tree through ParentID.
// Deleting a parent detaches its children, it never cascades down the tree.
type Category struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name" json:"user_id"`
	Name        string     `gorm:"size:100;not null;uniqueIndex:idx_categories_user_name" json:"name"`
	Color       string     `gorm:"size:20" json:"color"`
	Icon        string     `gorm:"size:50" json:"icon"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index" json:"parent_category_id"`
	Children    []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (c *Category) FromJSON(data []byte) error {
	return json.Unmarshal(data, c)
}

func (c *Category) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}
