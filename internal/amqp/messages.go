package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"estoque/internal/core"
)

// EventLogCreated is the only event published today.
const EventLogCreated = "log.created"

// LogEventMessage carries a freshly recorded log entry to consumers such as the sheet mirror.
// It is self-contained, so consumers never need to reach back into the session store.
type LogEventMessage struct {
	Event       string         `json:"event"`
	EntryID     string         `json:"entry_id"`
	ItemName    string         `json:"item_name"`
	Change      string         `json:"change"`
	Direction   core.Direction `json:"direction"`
	LoggedAt    time.Time      `json:"logged_at"`
	PublishedAt time.Time      `json:"published_at"`
}

func NewLogEventMessage(e core.LogEntry) *LogEventMessage {
	return &LogEventMessage{
		Event:       EventLogCreated,
		EntryID:     e.ID,
		ItemName:    e.ItemName,
		Change:      e.Change,
		Direction:   e.Direction,
		LoggedAt:    e.Timestamp,
		PublishedAt: time.Now(),
	}
}

// Entry rebuilds the log entry the message was created from.
func (m *LogEventMessage) Entry() core.LogEntry {
	return core.LogEntry{
		ID:        m.EntryID,
		Timestamp: m.LoggedAt,
		ItemName:  m.ItemName,
		Change:    m.Change,
		Direction: m.Direction,
	}
}

func (m *LogEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LogEventMessageFromJSON(data []byte) (*LogEventMessage, error) {
	var msg LogEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.EntryID == "" {
		return nil, errors.New("log event without entry id")
	}
	return &msg, nil
}
