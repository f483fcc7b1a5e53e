package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event é o que trafega na fila; Type é também a routing key (ex.: "order.paid").
// Data é o contexto usado pelos templates das automações.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data"`
}

func NewEvent(eventType string, data map[string]any) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OccurredAt: time.Now(),
		Data:       data,
	}
}

// Get devolve Data[key] como texto, "" se ausente.
func (e Event) Get(key string) string {
	v, ok := e.Data[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
