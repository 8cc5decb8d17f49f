package models

import "github.com/google/uuid"

// Join rows between notes and tags. The composite primary key enforces
// uniqueness per pair; rows have no lifecycle of their own and are replaced
// wholesale by the tag service.

type NoteLabel struct {
	NoteID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"note_id"`
	LabelID uuid.UUID `gorm:"type:uuid;primaryKey" json:"label_id"`
}

func (NoteLabel) TableName() string { return "note_labels" }

type NoteCategory struct {
	NoteID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"note_id"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey" json:"category_id"`
}

func (NoteCategory) TableName() string { return "note_categories" }
