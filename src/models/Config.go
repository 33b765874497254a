package models

// Configuration holds the merged configuration of the translator together
// with the two layers it was built from: the built-in defaults (global) and
// the file found in the config directory (custom).
type Configuration struct {
	Name         string
	Port         string
	Config       Config
	CustomConfig Config
	GlobalConfig Config
}

// Config is the highlevel struct which contains all the configuration of
// the translator instance.
type Config struct {
	Key         string         `json:"key" mapstructure:"key"`
	Name        string         `json:"name" mapstructure:"name"`
	Timezone    string         `json:"timezone,omitempty" mapstructure:"timezone"`
	LogLevel    string         `json:"log_level,omitempty" mapstructure:"log_level"`
	LogOutput   string         `json:"log_output,omitempty" mapstructure:"log_output"`
	CameraModel string         `json:"camera_model" mapstructure:"camera_model"`
	TLSInsecure string         `json:"tls_insecure,omitempty" mapstructure:"tls_insecure"`
	Settings    SettingsConfig `json:"settings" mapstructure:"settings"`

	MQTTURI      string `json:"mqtturi,omitempty" mapstructure:"mqtturi"`
	MQTTUsername string `json:"mqtt_username,omitempty" mapstructure:"mqtt_username"`
	MQTTPassword string `json:"mqtt_password,omitempty" mapstructure:"mqtt_password"`
	MQTTPrefix   string `json:"mqtt_prefix,omitempty" mapstructure:"mqtt_prefix"`

	APIUsername string `json:"api_username,omitempty" mapstructure:"api_username"`
	APIPassword string `json:"api_password,omitempty" mapstructure:"api_password"`
	APISecret   string `json:"api_secret,omitempty" mapstructure:"api_secret"`
}

// SettingsConfig tells where the camera connection record is persisted.
// Backend is one of "file", "mongodb" or "sqlite".
type SettingsConfig struct {
	Backend  string `json:"backend" mapstructure:"backend"`
	URI      string `json:"uri,omitempty" mapstructure:"uri"`
	Database string `json:"database,omitempty" mapstructure:"database"`
	Location string `json:"location,omitempty" mapstructure:"location"`
}
