package querycache

import (
	"encoding/json"
	"time"
)

// Entry is the cached result of a query, kept as the raw JSON the server sent.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	Meta      json.RawMessage `json:"meta,omitempty"`
	Stale     bool            `json:"stale"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (e Entry) clone() Entry {
	e.Data = append(json.RawMessage(nil), e.Data...)
	if e.Meta != nil {
		e.Meta = append(json.RawMessage(nil), e.Meta...)
	}
	return e
}
