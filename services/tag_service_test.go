package services

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"inkwell-notes/inkwell/testutils"
)

func TestReplaceNoteLabels_Success(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	noteID := uuid.New()
	userID := uuid.New()
	labelID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "notes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title"}).
			AddRow(noteID.String(), userID.String(), "Tagged"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "labels"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`DELETE FROM "note_labels"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "note_labels"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectQuery(`SELECT (.+) FROM "labels"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(labelID.String(), userID.String(), "work"))
	mock.ExpectCommit()

	service := &TagService{}
	labels, err := service.ReplaceNoteLabels(db, userID, noteID.String(), []string{labelID.String()})

	assert.NoError(t, err)
	if assert.Len(t, labels, 1) {
		assert.Equal(t, "work", labels[0].Name)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceNoteLabels_EmptySetClears(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	noteID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "notes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title"}).
			AddRow(noteID.String(), userID.String(), "Tagged"))
	mock.ExpectExec(`DELETE FROM "note_labels"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(`INSERT INTO "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	service := &TagService{}
	labels, err := service.ReplaceNoteLabels(db, userID, noteID.String(), []string{})

	assert.NoError(t, err)
	assert.Empty(t, labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceNoteLabels_UnknownLabelRejected(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	noteID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "notes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title"}).
			AddRow(noteID.String(), userID.String(), "Tagged"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "labels"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	service := &TagService{}
	_, err := service.ReplaceNoteLabels(db, userID, noteID.String(), []string{
		uuid.New().String(),
		uuid.New().String(),
	})

	assert.ErrorIs(t, err, ErrLabelNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceNoteLabels_NoteNotFound(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "notes"`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	service := &TagService{}
	_, err := service.ReplaceNoteLabels(db, uuid.New(), uuid.New().String(), []string{uuid.New().String()})

	assert.ErrorIs(t, err, ErrNoteNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceNoteCategories_Success(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	noteID := uuid.New()
	userID := uuid.New()
	categoryID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "notes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title"}).
			AddRow(noteID.String(), userID.String(), "Filed"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`DELETE FROM "note_categories"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "note_categories"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectQuery(`SELECT (.+) FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(categoryID.String(), userID.String(), "projects"))
	mock.ExpectCommit()

	service := &TagService{}
	categories, err := service.ReplaceNoteCategories(db, userID, noteID.String(), []string{categoryID.String()})

	assert.NoError(t, err)
	if assert.Len(t, categories, 1) {
		assert.Equal(t, "projects", categories[0].Name)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParseTagIDs(t *testing.T) {
	id := uuid.New()

	ids, err := parseTagIDs([]string{id.String(), id.String()})
	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, ids, "duplicates collapse")

	_, err = parseTagIDs([]string{"not-a-uuid"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	ids, err = parseTagIDs(nil)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}
