package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"inkwell-notes/inkwell/broker"
	"inkwell-notes/inkwell/database"
	"inkwell-notes/inkwell/models"
)

type EventDispatcherServiceInterface interface {
	Start()
	Stop()
	ProcessPendingEvents()
}

// EventDispatcherService drains the outbox: events written transactionally
// by the other services are published to the broker and marked dispatched.
type EventDispatcherService struct {
	db       *database.Database
	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
}

func NewEventDispatcherService(db *database.Database) EventDispatcherServiceInterface {
	return &EventDispatcherService{db: db}
}

var EventDispatcherServiceInstance EventDispatcherServiceInterface

func (s *EventDispatcherService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	go s.run(s.stopChan)
}

func (s *EventDispatcherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopChan)
}

func (s *EventDispatcherService) run(stop <-chan struct{}) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.ProcessPendingEvents()
		case <-stop:
			return
		}
	}
}

// ProcessPendingEvents drains one batch of undispatched outbox rows. Rows
// that fail to publish stay pending and are retried on the next pass.
func (s *EventDispatcherService) ProcessPendingEvents() {
	var events []models.Event
	if err := s.db.DB.Where("dispatched = ?", false).Order("timestamp ASC").Limit(100).Find(&events).Error; err != nil {
		log.Printf("Error fetching pending events: %v", err)
		return
	}

	for _, event := range events {
		if err := s.dispatchEvent(event); err != nil {
			log.Printf("Error dispatching event %s: %v", event.ID, err)
			continue
		}
	}
}

func (s *EventDispatcherService) dispatchEvent(event models.Event) error {
	var dataMap map[string]interface{}
	if err := json.Unmarshal(event.Data, &dataMap); err != nil {
		log.Printf("Warning: could not unmarshal event data for %s: %v", event.ID, err)
		dataMap = make(map[string]interface{})
	}

	payload := map[string]interface{}{
		"event_id":  event.ID.String(),
		"type":      event.Event,
		"entity":    event.Entity,
		"timestamp": event.Timestamp,
		"payload":   dataMap,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	// The event type doubles as the broker subject.
	if err := broker.Publish(event.Event, jsonData); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.db.DB.Model(&models.Event{}).Where("id = ?", event.ID).
		Updates(map[string]interface{}{"dispatched": true, "dispatched_at": now}).Error
}
