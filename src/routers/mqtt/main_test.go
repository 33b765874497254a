package mqtt

import (
	"errors"
	"testing"
	"time"

	"github.com/kerberos-io/translator/src/cameras"
	"github.com/kerberos-io/translator/src/models"
	"github.com/kerberos-io/translator/src/schema"
)

func TestTopic(t *testing.T) {
	config := models.Config{Key: "cam-1", MQTTPrefix: "acme"}
	if got := Topic(config, "config"); got != "acme/cam-1/config" {
		t.Errorf("unexpected topic %q", got)
	}
	config.MQTTPrefix = ""
	if got := Topic(config, "events"); got != "translator/cam-1/events" {
		t.Errorf("unexpected topic %q", got)
	}
}

func TestParseMessage(t *testing.T) {
	message, err := ParseMessage([]byte(`{
		"mid": "m-1",
		"devices": ["dev-1"],
		"fromUuid": "host",
		"topic": "message",
		"payload": {"CameraAction": "move-West", "PanStepValue": 10}
	}`))
	if err != nil {
		t.Fatalf("ParseMessage failed: %v", err)
	}
	if message.Mid != "m-1" || message.FromUUID != "host" || len(message.Devices) != 1 {
		t.Errorf("unexpected envelope %+v", message)
	}
	if message.Payload.CameraAction != models.ActionMoveWest || message.Payload.PanStepValue != 10 || message.Payload.TiltStepValue != 5 {
		t.Errorf("unexpected payload %+v", message.Payload)
	}
}

func TestParseMessageInvalid(t *testing.T) {
	_, err := ParseMessage([]byte(`{"payload": {"CameraAction": "spin"}}`))
	var validationErr *schema.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "CameraAction" {
		t.Errorf("expected a validation error on CameraAction, got %v", err)
	}

	if _, err := ParseMessage([]byte(`not json`)); err == nil {
		t.Error("expected an error for malformed json")
	}
}

func TestParseDevice(t *testing.T) {
	defaults, _ := cameras.Lookup(models.CameraModelDCS5020L)
	device, err := ParseDevice([]byte(`{"uuid": "dev-1", "options": {"IP_Camera_Host": "192.168.1.50", "IP_Camera_Port": 8080}}`), schema.OptionsSchema(defaults))
	if err != nil {
		t.Fatalf("ParseDevice failed: %v", err)
	}
	expected := defaults
	expected.IPCameraHost = "192.168.1.50"
	expected.IPCameraPort = 8080
	if device.UUID != "dev-1" || device.Options != expected {
		t.Errorf("unexpected device %+v", device)
	}

	_, err = ParseDevice([]byte(`{"uuid": "dev-1", "options": {"IP_Camera_Port": "eighty"}}`), schema.OptionsSchema(defaults))
	var validationErr *schema.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "IP_Camera_Port" {
		t.Errorf("expected a validation error on IP_Camera_Port, got %v", err)
	}
}

func TestDeliverDoesNotBlockWhenFull(t *testing.T) {
	communication := &models.Communication{HandleHost: make(chan models.HostInput, 1)}
	device := models.Device{UUID: "dev-1"}
	if !Deliver(communication, models.HostInput{Config: &device}) {
		t.Fatal("expected the first input to be queued")
	}

	done := make(chan bool)
	go func() {
		done <- Deliver(communication, models.HostInput{Config: &device})
	}()
	select {
	case queued := <-done:
		if queued {
			t.Error("expected the input to be dropped on a full queue")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Deliver blocked on a full queue")
	}
}
