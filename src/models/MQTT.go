package models

import (
	"encoding/json"
	"time"

	"github.com/gofrs/uuid"
	"github.com/kerberos-io/translator/src/log"
)

// RawDevice is a configuration update as it arrives from the host, before
// the options are validated against the options schema.
type RawDevice struct {
	UUID    string                 `json:"uuid"`
	Options map[string]interface{} `json:"options"`
}

// Device is a validated configuration update for the translator.
type Device struct {
	UUID    string        `json:"uuid"`
	Options CameraProfile `json:"options"`
}

// RawMessage is a command as it arrives from the host, before the payload is
// validated against the message schema.
type RawMessage struct {
	Mid      string                 `json:"mid"`
	Devices  []string               `json:"devices"`
	FromUUID string                 `json:"fromUuid"`
	Topic    string                 `json:"topic"`
	Payload  map[string]interface{} `json:"payload"`
}

// Message is a validated command.
type Message struct {
	Mid      string        `json:"mid"`
	Devices  []string      `json:"devices"`
	FromUUID string        `json:"fromUuid"`
	Topic    string        `json:"topic"`
	Payload  ActionMessage `json:"payload"`
}

const (
	EventConfig   = "config"
	EventResponse = "response"
	EventError    = "error"
)

// Event is emitted by the plugin so the host (and anyone listening on the
// websocket) can observe what happened to a config update or a command.
type Event struct {
	Mid       string                 `json:"mid"`
	Type      string                 `json:"type"`
	DeviceId  string                 `json:"device_id"`
	Timestamp int64                  `json:"timestamp"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// NewEvent stamps an event with an unique id and the current time.
func NewEvent(eventType string, deviceId string, message string, data map[string]interface{}) Event {
	event := Event{
		Type:      eventType,
		DeviceId:  deviceId,
		Timestamp: time.Now().Unix(),
		Message:   message,
		Data:      data,
	}
	u2, err := uuid.NewV4()
	if err != nil {
		log.Log.Error("models.mqtt.NewEvent(): failed to generate UUID: " + err.Error())
	} else {
		event.Mid = u2.String()
	}
	return event
}

// PackageEvent serializes an event before it is published.
func PackageEvent(event Event) ([]byte, error) {
	if event.Mid == "" {
		u2, err := uuid.NewV4()
		if err == nil {
			event.Mid = u2.String()
		}
	}
	return json.Marshal(event)
}
