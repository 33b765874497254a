package models

import (
	"github.com/tevino/abool"
)

// HostInput is one delivery from the host, either a configuration update or
// a command. Exactly one of the fields is set.
type HostInput struct {
	Config  *Device
	Message *Message
}

// The communication struct that is managing
// all the communication between the different goroutines.
type Communication struct {
	// HandleHost carries configuration updates and commands on one channel,
	// so they reach the plugin in arrival order.
	HandleHost    chan HostInput
	HandleEvent   chan Event
	IsConfiguring *abool.AtomicBool
}

// NewCommunication creates the channels used between the transports, the
// plugin and the event publishers.
func NewCommunication() *Communication {
	return &Communication{
		HandleHost:    make(chan HostInput, 100),
		HandleEvent:   make(chan Event, 100),
		IsConfiguring: abool.New(),
	}
}
