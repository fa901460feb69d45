package models

import "time"

const EventStateChanged = "state_changed"

type StateEvent struct {
	Event string    `json:"event"`
	Bytes int       `json:"bytes"`
	At    time.Time `json:"at"`
}
