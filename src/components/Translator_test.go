package components

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kerberos-io/translator/src/models"
)

type recordingHost struct {
	mu       sync.Mutex
	calls    []string
	expected int
	done     chan struct{}
}

func (h *recordingHost) record(call string) {
	h.mu.Lock()
	h.calls = append(h.calls, call)
	n := len(h.calls)
	h.mu.Unlock()
	if n == h.expected {
		close(h.done)
	}
}

func (h *recordingHost) OnConfig(ctx context.Context, device models.Device) error {
	h.record("config:" + device.UUID)
	return nil
}

func (h *recordingHost) OnMessage(ctx context.Context, message models.Message) error {
	h.record("message:" + message.Mid)
	return nil
}

func TestHandleHostMessagesKeepsArrivalOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	communication := models.NewCommunication()
	expected := []string{"config:dev-1", "message:m-1", "config:dev-2", "message:m-2", "message:m-3"}
	host := &recordingHost{expected: len(expected), done: make(chan struct{})}

	// Queue everything before the loop starts, so the order is decided by the
	// channel alone.
	communication.HandleHost <- models.HostInput{Config: &models.Device{UUID: "dev-1"}}
	communication.HandleHost <- models.HostInput{Message: &models.Message{Mid: "m-1"}}
	communication.HandleHost <- models.HostInput{Config: &models.Device{UUID: "dev-2"}}
	communication.HandleHost <- models.HostInput{Message: &models.Message{Mid: "m-2"}}
	communication.HandleHost <- models.HostInput{Message: &models.Message{Mid: "m-3"}}
	go HandleHostMessages(ctx, communication, host)

	select {
	case <-host.done:
	case <-time.After(2 * time.Second):
		t.Fatal("host messages were not delivered")
	}
	host.mu.Lock()
	defer host.mu.Unlock()
	for i, call := range expected {
		if host.calls[i] != call {
			t.Fatalf("expected %v, got %v", expected, host.calls)
		}
	}
}

func TestHandleEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	communication := models.NewCommunication()
	first := make(chan models.Event, 1)
	second := make(chan models.Event, 1)
	go HandleEvents(ctx, communication,
		func(event models.Event) { first <- event },
		func(event models.Event) { second <- event },
	)

	communication.HandleEvent <- models.NewEvent(models.EventResponse, "dev-1", "ok", nil)
	for _, publisher := range []chan models.Event{first, second} {
		select {
		case event := <-publisher:
			if event.Message != "ok" {
				t.Errorf("unexpected event %+v", event)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("event was not published")
		}
	}
}

func TestInitialProfile(t *testing.T) {
	profile := InitialProfile(models.Config{CameraModel: "Other"})
	if profile.IPCameraHost != "localhost" {
		t.Errorf("unexpected profile %+v", profile)
	}
	profile = InitialProfile(models.Config{CameraModel: "Unknown"})
	if profile.CameraModel != models.CameraModelDCS5020L {
		t.Errorf("expected the default model, got %+v", profile)
	}
}
