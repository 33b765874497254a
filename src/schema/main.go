// Package schema describes the shape of the messages and options the host
// delivers, and validates raw host input against those descriptions before
// it reaches the plugin. Defaults are applied here and nowhere else.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kerberos-io/translator/src/models"
)

type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
)

// Field is one property of an object schema.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	Default  interface{}
	Enum     []string
}

// Schema is an object schema with its properties in declaration order.
type Schema struct {
	Fields []Field
}

// ValidationError reports the first property that did not satisfy the schema.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed on " + e.Field + ": " + e.Reason
}

// MessageSchema describes the payload of a camera move command.
func MessageSchema() Schema {
	actions := make([]string, 0, len(models.CameraActions))
	for _, action := range models.CameraActions {
		actions = append(actions, string(action))
	}
	return Schema{
		Fields: []Field{
			{Name: "CameraAction", Type: TypeString, Required: true, Default: string(models.ActionHome), Enum: actions},
			{Name: "PanStepValue", Type: TypeInteger, Required: true, Default: 5},
			{Name: "TiltStepValue", Type: TypeInteger, Required: true, Default: 5},
		},
	}
}

// OptionsSchema describes the camera options; every property defaults to the
// value found in the given profile, usually the registry entry of the
// configured camera model.
func OptionsSchema(defaults models.CameraProfile) Schema {
	return Schema{
		Fields: []Field{
			{Name: "CameraModel", Type: TypeString, Required: true, Default: string(defaults.CameraModel),
				Enum: []string{string(models.CameraModelDCS5020L), string(models.CameraModelOther)}},
			{Name: "StreamProtocol", Type: TypeString, Required: true, Default: string(defaults.StreamProtocol),
				Enum: []string{
					string(models.StreamProtocolMJPG),
					string(models.StreamProtocolH264),
					string(models.StreamProtocolH323),
					string(models.StreamProtocolSIP),
				}},
			{Name: "IP_Camera_Host", Type: TypeString, Required: true, Default: defaults.IPCameraHost},
			{Name: "IP_Camera_Protocol", Type: TypeString, Required: true, Default: string(defaults.IPCameraProtocol),
				Enum: []string{
					string(models.CameraProtocolHTTP),
					string(models.CameraProtocolHTTPS),
					string(models.CameraProtocolRTSP),
				}},
			{Name: "IP_Camera_Port", Type: TypeInteger, Required: true, Default: defaults.IPCameraPort},
			{Name: "IP_Camera_Stream_Query", Type: TypeString, Required: true, Default: defaults.IPCameraStreamQuery},
			{Name: "IP_Camera_Command_Query", Type: TypeString, Required: true, Default: defaults.IPCameraCommandQuery},
			{Name: "Cam_User", Type: TypeString, Required: true, Default: defaults.CamUser},
			{Name: "Cam_Password", Type: TypeString, Required: true, Default: defaults.CamPassword},
		},
	}
}

// Field returns the property with the given name.
func (s Schema) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// caseVariant reports the field a key names with a different letter case.
func (s Schema) caseVariant(key string) (Field, bool) {
	for _, field := range s.Fields {
		if key != field.Name && strings.EqualFold(key, field.Name) {
			return field, true
		}
	}
	return Field{}, false
}

// Validate checks raw input against the schema and returns a copy with the
// defaults filled in and integers normalized. Properties unknown to the
// schema are passed through untouched.
func (s Schema) Validate(raw map[string]interface{}) (map[string]interface{}, error) {
	validated := make(map[string]interface{}, len(raw)+len(s.Fields))
	for key, value := range raw {
		if field, ok := s.caseVariant(key); ok {
			return nil, &ValidationError{Field: field.Name, Reason: "property " + strconv.Quote(key) + " differs only in case"}
		}
		validated[key] = value
	}

	for _, field := range s.Fields {
		value, ok := validated[field.Name]
		if !ok || value == nil {
			if field.Default != nil {
				validated[field.Name] = field.Default
				continue
			}
			if field.Required {
				return nil, &ValidationError{Field: field.Name, Reason: "is required"}
			}
			continue
		}

		switch field.Type {
		case TypeString:
			str, isString := value.(string)
			if !isString {
				return nil, &ValidationError{Field: field.Name, Reason: fmt.Sprintf("expected a string, got %T", value)}
			}
			if len(field.Enum) > 0 && !contains(field.Enum, str) {
				return nil, &ValidationError{Field: field.Name, Reason: "value " + strconv.Quote(str) + " is not allowed"}
			}
		case TypeInteger:
			number, err := toInteger(value)
			if err != nil {
				return nil, &ValidationError{Field: field.Name, Reason: err.Error()}
			}
			validated[field.Name] = number
		}
	}
	return validated, nil
}

// MarshalJSON renders the schema the way the host expects it.
func (s Schema) MarshalJSON() ([]byte, error) {
	properties := make(map[string]interface{}, len(s.Fields))
	for _, field := range s.Fields {
		property := map[string]interface{}{
			"type":     field.Type,
			"required": field.Required,
		}
		if field.Default != nil {
			property["default"] = field.Default
		}
		if len(field.Enum) > 0 {
			property["enum"] = field.Enum
		}
		properties[field.Name] = property
	}
	return json.Marshal(map[string]interface{}{
		"type":       "object",
		"properties": properties,
	})
}

// DecodeAction validates a raw command payload into an ActionMessage.
func DecodeAction(raw map[string]interface{}) (models.ActionMessage, error) {
	validated, err := MessageSchema().Validate(raw)
	if err != nil {
		return models.ActionMessage{}, err
	}
	return actionFrom(validated), nil
}

// DecodeProfile validates raw options into a CameraProfile, using defaults
// for the missing properties.
func DecodeProfile(raw map[string]interface{}, defaults models.CameraProfile) (models.CameraProfile, error) {
	return OptionsSchema(defaults).DecodeProfile(raw)
}

// DecodeProfile validates raw options against s and builds the profile from
// the validated values only.
func (s Schema) DecodeProfile(raw map[string]interface{}) (models.CameraProfile, error) {
	validated, err := s.Validate(raw)
	if err != nil {
		return models.CameraProfile{}, err
	}
	return profileFrom(validated), nil
}

func actionFrom(validated map[string]interface{}) models.ActionMessage {
	return models.ActionMessage{
		CameraAction:  models.CameraAction(stringValue(validated, "CameraAction")),
		PanStepValue:  intValue(validated, "PanStepValue"),
		TiltStepValue: intValue(validated, "TiltStepValue"),
	}
}

func profileFrom(validated map[string]interface{}) models.CameraProfile {
	return models.CameraProfile{
		CameraModel:          models.CameraModel(stringValue(validated, "CameraModel")),
		StreamProtocol:       models.StreamProtocol(stringValue(validated, "StreamProtocol")),
		IPCameraHost:         stringValue(validated, "IP_Camera_Host"),
		IPCameraProtocol:     models.CameraProtocol(stringValue(validated, "IP_Camera_Protocol")),
		IPCameraPort:         intValue(validated, "IP_Camera_Port"),
		IPCameraStreamQuery:  stringValue(validated, "IP_Camera_Stream_Query"),
		IPCameraCommandQuery: stringValue(validated, "IP_Camera_Command_Query"),
		CamUser:              stringValue(validated, "Cam_User"),
		CamPassword:          stringValue(validated, "Cam_Password"),
	}
}

func stringValue(validated map[string]interface{}, name string) string {
	str, _ := validated[name].(string)
	return str
}

func intValue(validated map[string]interface{}, name string) int {
	number, _ := validated[name].(int)
	return number
}

func toInteger(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("expected an integer, got %v", v)
		}
		return int(v), nil
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %s", v.String())
		}
		return int(i), nil
	}
	return 0, fmt.Errorf("expected an integer, got %T", value)
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

// ValidateDevice turns a raw configuration update into a Device, validating
// the options against the given options schema.
func ValidateDevice(raw models.RawDevice, options Schema) (models.Device, error) {
	device := models.Device{UUID: raw.UUID}
	profile, err := options.DecodeProfile(raw.Options)
	if err != nil {
		return device, err
	}
	device.Options = profile
	return device, nil
}

// ValidateMessage turns a raw command into a Message, validating the payload
// against the message schema.
func ValidateMessage(raw models.RawMessage) (models.Message, error) {
	message := models.Message{
		Mid:      raw.Mid,
		Devices:  raw.Devices,
		FromUUID: raw.FromUUID,
		Topic:    raw.Topic,
	}
	action, err := DecodeAction(raw.Payload)
	message.Payload = action
	return message, err
}
