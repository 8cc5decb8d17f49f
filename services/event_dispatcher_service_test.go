package services

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"inkwell-notes/inkwell/models"
	"inkwell-notes/inkwell/testutils"
)

func TestEventDispatcher_StartStopIsIdempotent(t *testing.T) {
	db, _, close := testutils.SetupMockDB()
	defer close()

	dispatcher := NewEventDispatcherService(db).(*EventDispatcherService)

	// Stop before Start is a no-op.
	dispatcher.Stop()

	dispatcher.Start()
	dispatcher.Start()
	assert.True(t, dispatcher.running)

	dispatcher.Stop()
	dispatcher.Stop()
	assert.False(t, dispatcher.running)

	// The loop can be restarted after a stop.
	dispatcher.Start()
	assert.True(t, dispatcher.running)
	dispatcher.Stop()
	assert.False(t, dispatcher.running)
}

func TestProcessPendingEvents_NothingPending(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	dispatcher := NewEventDispatcherService(db)
	dispatcher.ProcessPendingEvents()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessPendingEvents_FailedPublishStaysPending(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	event, err := models.NewEvent("note.created", "note", "create", uuid.New().String(),
		map[string]interface{}{"id": uuid.New().String()})
	assert.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event", "entity", "operation", "timestamp", "actor_id", "data", "dispatched"}).
			AddRow(event.ID.String(), event.Event, event.Entity, event.Operation,
				event.Timestamp, event.ActorID, []byte(event.Data), false))

	// No broker connection in tests: the publish fails and the row must
	// not be marked dispatched, so no UPDATE is issued.
	dispatcher := NewEventDispatcherService(db)
	dispatcher.ProcessPendingEvents()

	assert.NoError(t, mock.ExpectationsWereMet())
}
