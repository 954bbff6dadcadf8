package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewBaseEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("PET", -5*3600))
	e := NewBaseEvent("quote.preapproval.approved", "quote-1", "Quote", at)

	if _, err := uuid.Parse(e.EventID()); err != nil {
		t.Errorf("EventID() = %q is not a UUID: %v", e.EventID(), err)
	}
	if e.EventType() != "quote.preapproval.approved" {
		t.Errorf("EventType() = %q", e.EventType())
	}
	if e.AggregateID() != "quote-1" || e.AggregateType() != "Quote" {
		t.Errorf("aggregate = %q/%q", e.AggregateID(), e.AggregateType())
	}
	if !e.OccurredAt().Equal(at) || e.OccurredAt().Location() != time.UTC {
		t.Errorf("OccurredAt() = %v, want %v in UTC", e.OccurredAt(), at)
	}
}

func TestNewBaseEvent_ZeroTimeUsesNow(t *testing.T) {
	before := time.Now().UTC()
	e := NewBaseEvent("x", "a", "A", time.Time{})
	if e.OccurredAt().Before(before) {
		t.Errorf("OccurredAt() = %v, want >= %v", e.OccurredAt(), before)
	}
}

func TestNewBaseEvent_UniqueIDs(t *testing.T) {
	a := NewBaseEvent("x", "a", "A", time.Now())
	b := NewBaseEvent("x", "a", "A", time.Now())
	if a.EventID() == b.EventID() {
		t.Error("expected distinct event IDs")
	}
}

func TestBaseEvent_JSONEnvelope(t *testing.T) {
	type embedded struct {
		BaseEvent
		Reason string `json:"reason"`
	}
	payload, err := json.Marshal(embedded{
		BaseEvent: NewBaseEvent("quote.preapproval.declined", "q", "Quote", time.Now()),
		Reason:    "no apto",
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"event_id", "event_type", "aggregate_id", "aggregate_type", "occurred_at", "reason"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing %q in %s", key, payload)
		}
	}
}
