package broker

type EventType string

const (
	// Standardized event types in format: <resource>.<action>. The event
	// type doubles as the publish subject.
	NoteCreated   EventType = "note.created"
	NoteUpdated   EventType = "note.updated"
	NoteDeleted   EventType = "note.deleted"
	NotePublished EventType = "note.published"
	NoteShared    EventType = "note.shared"
	NoteUnshared  EventType = "note.unshared"

	LabelCreated  EventType = "label.created"
	LabelUpdated  EventType = "label.updated"
	LabelDeleted  EventType = "label.deleted"
	LabelAssigned EventType = "label.assigned"

	CategoryCreated  EventType = "category.created"
	CategoryUpdated  EventType = "category.updated"
	CategoryDeleted  EventType = "category.deleted"
	CategoryAssigned EventType = "category.assigned"

	UserCreated EventType = "user.created"
)

// Wildcard subjects for consumers.
const (
	NoteSubject     = "note.*"
	LabelSubject    = "label.*"
	CategorySubject = "category.*"
	UserSubject     = "user.*"
)
