package entity

import "time"

type Event struct {
	Name      string    `json:"name"`
	EventName string    `json:"eventName"`
	EventDate time.Time `json:"eventDate"`
	Style     string    `json:"style,omitempty"`
}
