package models

import "testing"

func TestNewCommunication(t *testing.T) {
	communication := NewCommunication()
	if cap(communication.HandleHost) == 0 || cap(communication.HandleEvent) == 0 {
		t.Fatal("expected buffered channels")
	}
	if communication.IsConfiguring.IsSet() {
		t.Error("configuring flag must start unset")
	}

	device := Device{UUID: "dev-1"}
	message := Message{Mid: "m-1"}
	communication.HandleHost <- HostInput{Config: &device}
	communication.HandleHost <- HostInput{Message: &message}
	if input := <-communication.HandleHost; input.Config == nil || input.Config.UUID != "dev-1" {
		t.Errorf("expected the configuration first, got %+v", input)
	}
	if input := <-communication.HandleHost; input.Message == nil || input.Message.Mid != "m-1" {
		t.Errorf("expected the message second, got %+v", input)
	}
}
