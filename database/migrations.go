package database

import (
	"log"

	"inkwell-notes/inkwell/models"

	"gorm.io/gorm"
)

// RunMigrations keeps the schema in sync with the models. The join tables
// are registered as explicit models so their composite primary keys enforce
// uniqueness per (note, tag) pair.
func RunMigrations(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Note{}, "Labels", &models.NoteLabel{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&models.Note{}, "Categories", &models.NoteCategory{}); err != nil {
		return err
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Label{},
		&models.Category{},
		&models.Note{},
		&models.NoteLabel{},
		&models.NoteCategory{},
		&models.Event{},
	)

	if err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	return nil
}
