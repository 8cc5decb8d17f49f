package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Note is the central document entity. Exactly one of Content and
// EncryptedContent is populated at any time, selected by IsEncrypted.
// EncryptedContent never leaves the API boundary.
type Note struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Content          *string   `json:"content"`
	EncryptedContent *string   `json:"-"`
	// The flag columns carry no gorm default tags: a tagged default would
	// override a zero-valued plain bool on insert, turning an explicit
	// is_draft=false back into a draft. The service always sets all three.
	IsEncrypted   bool       `gorm:"not null" json:"is_encrypted"`
	IsDraft       bool       `gorm:"not null" json:"is_draft"`
	IsPublic      bool       `gorm:"not null" json:"is_public"`
	PublicShareID *string    `gorm:"size:12;uniqueIndex" json:"public_share_id"`
	Tags          []string   `gorm:"type:text[]" json:"tags"`
	Labels        []Label    `gorm:"many2many:note_labels" json:"labels,omitempty"`
	Categories    []Category `gorm:"many2many:note_categories" json:"categories,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;default:now()" json:"updated_at"`
	PublishedAt   *time.Time `json:"published_at"`
	AutoSavedAt   *time.Time `json:"auto_saved_at"`
}

func (n *Note) FromJSON(data []byte) error {
	return json.Unmarshal(data, n)
}

func (n *Note) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}
