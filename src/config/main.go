package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/InVisionApp/conjungo"
	"github.com/kerberos-io/translator/src/cameras"
	"github.com/kerberos-io/translator/src/log"
	"github.com/kerberos-io/translator/src/models"
	"github.com/spf13/viper"
)

// DefaultConfig is the global layer every configuration is merged onto.
func DefaultConfig() models.Config {
	return models.Config{
		Key:         "translator",
		Name:        "IP camera translator",
		Timezone:    "UTC",
		LogLevel:    "info",
		LogOutput:   "logrus",
		CameraModel: string(cameras.DefaultModel),
		TLSInsecure: "false",
		Settings: models.SettingsConfig{
			Backend:  "file",
			Database: "translator",
			Location: models.DefaultSettingsLocation,
		},
		MQTTPrefix:  "translator",
		APIUsername: "root",
		APIPassword: "root",
		APISecret:   "TOBECHANGED",
	}
}

// OpenConfig reads <configDirectory>/data/config/config.(json|yaml) into the
// custom layer and merges it over the defaults. A missing file is not an
// error, the defaults are used instead.
func OpenConfig(configDirectory string, configuration *models.Configuration) error {
	configuration.GlobalConfig = DefaultConfig()
	configuration.CustomConfig = models.Config{}

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(configDirectory, "data", "config"))

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		log.Log.Warning("config.main.OpenConfig(): no config file found in " + configDirectory + "/data/config, using defaults.")
	} else if err != nil {
		log.Log.Error("config.main.OpenConfig(): config file not valid: " + err.Error())
		return err
	} else {
		log.Log.Info("config.main.OpenConfig(): successfully opened " + v.ConfigFileUsed())
		if err := v.Unmarshal(&configuration.CustomConfig); err != nil {
			log.Log.Error("config.main.OpenConfig(): config file not valid: " + err.Error())
			return err
		}
	}

	return MergeConfig(configuration)
}

// MergeConfig merges the global and custom layers into Config. A non-empty
// custom string wins over the global value.
func MergeConfig(configuration *models.Configuration) error {
	opts := conjungo.NewOptions()
	opts.SetTypeMergeFunc(
		reflect.TypeOf(""),
		func(t, s reflect.Value, o *conjungo.Options) (reflect.Value, error) {
			targetStr, _ := t.Interface().(string)
			sourceStr, _ := s.Interface().(string)
			finalStr := targetStr
			if sourceStr != "" {
				finalStr = sourceStr
			}
			return reflect.ValueOf(finalStr), nil
		},
	)

	configuration.Config = models.Config{}
	if err := conjungo.Merge(&configuration.Config, configuration.GlobalConfig, opts); err != nil {
		return err
	}
	return conjungo.Merge(&configuration.Config, configuration.CustomConfig, opts)
}

// OverrideWithEnvironmentVariables applies TRANSLATOR_* variables on top of
// the merged configuration.
func OverrideWithEnvironmentVariables(configuration *models.Configuration) {
	environmentVariables := os.Environ()
	for _, env := range environmentVariables {
		if !strings.HasPrefix(env, "TRANSLATOR_") {
			continue
		}
		key := strings.SplitN(env, "=", 2)[0]
		value := os.Getenv(key)
		switch key {

		/* General configuration */
		case "TRANSLATOR_KEY":
			configuration.Config.Key = value
		case "TRANSLATOR_NAME":
			configuration.Config.Name = value
		case "TRANSLATOR_TIMEZONE":
			configuration.Config.Timezone = value
		case "TRANSLATOR_LOG_LEVEL":
			configuration.Config.LogLevel = value
		case "TRANSLATOR_LOG_OUTPUT":
			configuration.Config.LogOutput = value
		case "TRANSLATOR_TLS_INSECURE":
			configuration.Config.TLSInsecure = value

		/* Camera */
		case "TRANSLATOR_CAMERA_MODEL":
			configuration.Config.CameraModel = value

		/* Persisted settings */
		case "TRANSLATOR_SETTINGS_BACKEND":
			configuration.Config.Settings.Backend = value
		case "TRANSLATOR_SETTINGS_URI":
			configuration.Config.Settings.URI = value
		case "TRANSLATOR_SETTINGS_DATABASE":
			configuration.Config.Settings.Database = value
		case "TRANSLATOR_SETTINGS_LOCATION":
			configuration.Config.Settings.Location = value

		/* MQTT settings for the host connection */
		case "TRANSLATOR_MQTT_URI":
			configuration.Config.MQTTURI = value
		case "TRANSLATOR_MQTT_USERNAME":
			configuration.Config.MQTTUsername = value
		case "TRANSLATOR_MQTT_PASSWORD":
			configuration.Config.MQTTPassword = value
		case "TRANSLATOR_MQTT_PREFIX":
			configuration.Config.MQTTPrefix = value

		/* REST API */
		case "TRANSLATOR_API_USERNAME":
			configuration.Config.APIUsername = value
		case "TRANSLATOR_API_PASSWORD":
			configuration.Config.APIPassword = value
		case "TRANSLATOR_API_SECRET":
			configuration.Config.APISecret = value
		}
	}
}
