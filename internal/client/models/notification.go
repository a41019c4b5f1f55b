package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is the canonical instant used for ordering notifications.
//
// The feed delivers timestamps in two encodings: an absolute RFC 3339
// string, or a [year, month, day, hour, minute, second] tuple (month
// 1-based, trailing components optional, an optional seventh component
// carrying nanoseconds). Both normalize here, at the ingestion boundary;
// nothing downstream ever compares raw representations.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		t.Time = parsed.UTC()
		return nil
	}

	var parts []int
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("timestamp is neither a string nor a tuple: %s", data)
	}
	if len(parts) < 3 || len(parts) > 7 {
		return fmt.Errorf("timestamp tuple has %d components, want 3..7", len(parts))
	}

	padded := make([]int, 7)
	copy(padded, parts)

	t.Time = time.Date(padded[0], time.Month(padded[1]), padded[2],
		padded[3], padded[4], padded[5], padded[6], time.UTC)
	return nil
}

// Event is one notification record. Events are immutable once received;
// the client only ever holds a bounded recent window of them.
type Event struct {
	ID          int64     `json:"id"`
	RecipientID int64     `json:"recipientId"`
	Message     string    `json:"message"`
	Timestamp   Timestamp `json:"timestamp"`
}
