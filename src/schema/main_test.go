package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/kerberos-io/translator/src/cameras"
	"github.com/kerberos-io/translator/src/models"
)

func TestDecodeActionAppliesDefaults(t *testing.T) {
	action, err := DecodeAction(map[string]interface{}{})
	if err != nil {
		t.Fatalf("DecodeAction failed: %v", err)
	}
	if action.CameraAction != models.ActionHome {
		t.Errorf("expected default action home, got %q", action.CameraAction)
	}
	if action.PanStepValue != 5 || action.TiltStepValue != 5 {
		t.Errorf("expected default steps 5/5, got %d/%d", action.PanStepValue, action.TiltStepValue)
	}
}

func TestDecodeActionFromJSON(t *testing.T) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(`{"CameraAction":"move-East","PanStepValue":10,"TiltStepValue":3}`), &raw); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	action, err := DecodeAction(raw)
	if err != nil {
		t.Fatalf("DecodeAction failed: %v", err)
	}
	if action.CameraAction != models.ActionMoveEast || action.PanStepValue != 10 || action.TiltStepValue != 3 {
		t.Errorf("unexpected action: %+v", action)
	}
}

func TestValidateRejectsMalformedInput(t *testing.T) {
	testCases := []struct {
		name  string
		raw   map[string]interface{}
		field string
	}{
		{"unknown action", map[string]interface{}{"CameraAction": "spin"}, "CameraAction"},
		{"action not a string", map[string]interface{}{"CameraAction": 4}, "CameraAction"},
		{"fractional step", map[string]interface{}{"PanStepValue": 2.5}, "PanStepValue"},
		{"step as string", map[string]interface{}{"TiltStepValue": "5"}, "TiltStepValue"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MessageSchema().Validate(tc.raw)
			var validationError *ValidationError
			if !errors.As(err, &validationError) {
				t.Fatalf("expected a ValidationError, got %v", err)
			}
			if validationError.Field != tc.field {
				t.Errorf("expected field %s, got %s", tc.field, validationError.Field)
			}
		})
	}
}

func TestValidateRequiredWithoutDefault(t *testing.T) {
	s := Schema{Fields: []Field{{Name: "Cam_User", Type: TypeString, Required: true}}}
	if _, err := s.Validate(map[string]interface{}{}); err == nil {
		t.Fatal("expected an error for a missing required field")
	}
}

func TestDecodeProfileDefaultsFromRegistry(t *testing.T) {
	defaults, _ := cameras.Lookup(models.CameraModelDCS5020L)
	profile, err := DecodeProfile(map[string]interface{}{
		"IP_Camera_Host": "192.168.1.50",
		"IP_Camera_Port": float64(8080),
	}, defaults)
	if err != nil {
		t.Fatalf("DecodeProfile failed: %v", err)
	}

	expected := defaults
	expected.IPCameraHost = "192.168.1.50"
	expected.IPCameraPort = 8080
	if profile != expected {
		t.Errorf("expected %+v, got %+v", expected, profile)
	}
}

func TestDecodeProfileRejectsProtocol(t *testing.T) {
	defaults, _ := cameras.Lookup(models.CameraModelOther)
	_, err := DecodeProfile(map[string]interface{}{"IP_Camera_Protocol": "ftp"}, defaults)
	var validationError *ValidationError
	if !errors.As(err, &validationError) || validationError.Field != "IP_Camera_Protocol" {
		t.Fatalf("expected a ValidationError on IP_Camera_Protocol, got %v", err)
	}
}

func TestSchemaMarshalJSON(t *testing.T) {
	b, err := json.Marshal(MessageSchema())
	if err != nil {
		t.Fatalf("failed to marshal schema: %v", err)
	}

	var rendered struct {
		Type       string `json:"type"`
		Properties map[string]struct {
			Type     string      `json:"type"`
			Required bool        `json:"required"`
			Default  interface{} `json:"default"`
			Enum     []string    `json:"enum"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(b, &rendered); err != nil {
		t.Fatalf("failed to unmarshal schema: %v", err)
	}
	if rendered.Type != "object" {
		t.Errorf("expected object, got %q", rendered.Type)
	}
	action := rendered.Properties["CameraAction"]
	if len(action.Enum) != 10 {
		t.Errorf("expected 10 actions, got %d", len(action.Enum))
	}
	if action.Default != "home" || !action.Required {
		t.Errorf("unexpected CameraAction property: %+v", action)
	}
	if rendered.Properties["PanStepValue"].Type != "integer" {
		t.Errorf("expected integer PanStepValue, got %q", rendered.Properties["PanStepValue"].Type)
	}
}

func TestDecodeRejectsCaseVariantProperties(t *testing.T) {
	defaults, _ := cameras.Lookup(models.CameraModelDCS5020L)
	testCases := []struct {
		name  string
		raw   map[string]interface{}
		field string
	}{
		{"lower case protocol", map[string]interface{}{"IP_Camera_Protocol": "http", "ip_camera_protocol": "gopher"}, "IP_Camera_Protocol"},
		{"lower case model", map[string]interface{}{"cameramodel": "NoSuchModel"}, "CameraModel"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			profile, err := DecodeProfile(tc.raw, defaults)
			var validationError *ValidationError
			if !errors.As(err, &validationError) {
				t.Fatalf("expected a ValidationError, got %v with profile %+v", err, profile)
			}
			if validationError.Field != tc.field {
				t.Errorf("expected field %s, got %s", tc.field, validationError.Field)
			}
		})
	}

	action, err := DecodeAction(map[string]interface{}{"cameraaction": "bogus"})
	if err == nil {
		t.Fatalf("expected an error, got action %+v", action)
	}
}

func TestDecodeProfileIgnoresUnknownProperties(t *testing.T) {
	defaults, _ := cameras.Lookup(models.CameraModelOther)
	profile, err := DecodeProfile(map[string]interface{}{
		"IP_Camera_Port": float64(8080),
		"Extra":          "ignored",
	}, defaults)
	if err != nil {
		t.Fatalf("DecodeProfile failed: %v", err)
	}
	expected := defaults
	expected.IPCameraPort = 8080
	if profile != expected {
		t.Errorf("expected %+v, got %+v", expected, profile)
	}
}
