package mqtt

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/kerberos-io/translator/src/log"
	"github.com/kerberos-io/translator/src/models"
	"github.com/kerberos-io/translator/src/schema"
)

// Schemas gives access to the schemas incoming host messages are validated
// against. The options schema follows the active camera model.
type Schemas interface {
	MessageSchema() schema.Schema
	OptionsSchema() schema.Schema
}

// Topic builds the topic for this translator: <prefix>/<key>/<name>.
func Topic(config models.Config, name string) string {
	prefix := config.MQTTPrefix
	if prefix == "" {
		prefix = "translator"
	}
	return prefix + "/" + config.Key + "/" + name
}

func ConfigureMQTT(configuration *models.Configuration, communication *models.Communication, schemas Schemas) mqtt.Client {

	config := configuration.Config

	opts := mqtt.NewClientOptions()

	// We will set the MQTT endpoint to which we want to connect
	// and share and receive messages to/from.
	mqttURL := config.MQTTURI
	opts.AddBroker(mqttURL)
	log.Log.Info("routers.mqtt.main.ConfigureMQTT(): set broker uri " + mqttURL)

	// Our MQTT broker can have username/password credentials
	// to protect it from the outside.
	mqttUsername := config.MQTTUsername
	mqttPassword := config.MQTTPassword
	if mqttUsername != "" || mqttPassword != "" {
		opts.SetUsername(mqttUsername)
		opts.SetPassword(mqttPassword)
		log.Log.Info("routers.mqtt.main.ConfigureMQTT(): set username " + mqttUsername)
	}

	opts.SetCleanSession(true)
	opts.SetConnectRetry(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(30 * time.Second)

	// The random suffix avoids client id conflicts between restarts.
	mqttClientID := config.Key + strconv.Itoa(rand.Intn(100))
	opts.SetClientID(mqttClientID)
	log.Log.Info("routers.mqtt.main.ConfigureMQTT(): set ClientID " + mqttClientID)

	opts.OnConnect = func(c mqtt.Client) {
		log.Log.Info("routers.mqtt.main.ConfigureMQTT(): " + mqttClientID + " connected to " + mqttURL)

		// Configuration updates of the camera options.
		MQTTListenerHandleConfig(c, configuration, communication, schemas)

		// Camera move commands.
		MQTTListenerHandleMessage(c, configuration, communication)

		// Let the host know which messages and options we accept.
		PublishSchemas(c, configuration, schemas)
	}

	mqc := mqtt.NewClient(opts)
	if token := mqc.Connect(); token.WaitTimeout(3 * time.Second) {
		if token.Error() != nil {
			log.Log.Error("routers.mqtt.main.ConfigureMQTT(): unable to establish mqtt broker connection, error was: " + token.Error().Error())
		}
	}
	return mqc
}

func MQTTListenerHandleConfig(mqttClient mqtt.Client, configuration *models.Configuration, communication *models.Communication, schemas Schemas) {
	topic := Topic(configuration.Config, "config")
	mqttClient.Subscribe(topic, 1, func(c mqtt.Client, msg mqtt.Message) {
		device, err := ParseDevice(msg.Payload(), schemas.OptionsSchema())
		if err != nil {
			log.Log.Error("routers.mqtt.main.MQTTListenerHandleConfig(): " + err.Error())
			sendEvent(communication, models.NewEvent(models.EventError, device.UUID, err.Error(), map[string]interface{}{
				"topic": topic,
			}))
			return
		}
		log.Log.Info("routers.mqtt.main.MQTTListenerHandleConfig(): received configuration for " + device.UUID)
		if !Deliver(communication, models.HostInput{Config: &device}) {
			log.Log.Warning("routers.mqtt.main.MQTTListenerHandleConfig(): host queue is full, dropping configuration for " + device.UUID)
		}
	})
}

func MQTTListenerHandleMessage(mqttClient mqtt.Client, configuration *models.Configuration, communication *models.Communication) {
	topic := Topic(configuration.Config, "message")
	mqttClient.Subscribe(topic, 0, func(c mqtt.Client, msg mqtt.Message) {
		message, err := ParseMessage(msg.Payload())
		if err != nil {
			log.Log.Error("routers.mqtt.main.MQTTListenerHandleMessage(): " + err.Error())
			sendEvent(communication, models.NewEvent(models.EventError, message.FromUUID, err.Error(), map[string]interface{}{
				"topic": topic,
				"mid":   message.Mid,
			}))
			return
		}
		if !Deliver(communication, models.HostInput{Message: &message}) {
			log.Log.Warning("routers.mqtt.main.MQTTListenerHandleMessage(): host queue is full, dropping " + message.Mid)
		}
	})
}

// ParseDevice decodes a configuration update and validates its options.
func ParseDevice(payload []byte, options schema.Schema) (models.Device, error) {
	var raw models.RawDevice
	if err := json.Unmarshal(payload, &raw); err != nil {
		return models.Device{}, fmt.Errorf("invalid configuration payload: %w", err)
	}
	return schema.ValidateDevice(raw, options)
}

// ParseMessage decodes a command and validates its payload.
func ParseMessage(payload []byte) (models.Message, error) {
	var raw models.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return models.Message{}, fmt.Errorf("invalid message payload: %w", err)
	}
	return schema.ValidateMessage(raw)
}

// PublishSchemas publishes both schemas as a retained message.
func PublishSchemas(mqttClient mqtt.Client, configuration *models.Configuration, schemas Schemas) {
	payload, err := json.Marshal(map[string]interface{}{
		"messageSchema": schemas.MessageSchema(),
		"optionsSchema": schemas.OptionsSchema(),
	})
	if err != nil {
		log.Log.Error("routers.mqtt.main.PublishSchemas(): " + err.Error())
		return
	}
	mqttClient.Publish(Topic(configuration.Config, "schema"), 1, true, payload)
}

// PublishEvent sends an event to the host.
func PublishEvent(mqttClient mqtt.Client, configuration *models.Configuration, event models.Event) {
	if mqttClient == nil || !mqttClient.IsConnected() {
		return
	}
	payload, err := models.PackageEvent(event)
	if err != nil {
		log.Log.Error("routers.mqtt.main.PublishEvent(): " + err.Error())
		return
	}
	token := mqttClient.Publish(Topic(configuration.Config, "events"), 0, false, payload)
	if token.WaitTimeout(3*time.Second) && token.Error() != nil {
		log.Log.Error("routers.mqtt.main.PublishEvent(): " + token.Error().Error())
	}
}

func DisconnectMQTT(mqttClient mqtt.Client, config *models.Config) {
	if mqttClient != nil {
		mqttClient.Unsubscribe(Topic(*config, "config"), Topic(*config, "message"))
		mqttClient.Disconnect(1000)
		log.Log.Info("routers.mqtt.main.DisconnectMQTT(): disconnected from " + config.MQTTURI)
	}
}

// Deliver queues a host input without blocking the paho callback. It
// reports false when the queue is full and the input was dropped.
func Deliver(communication *models.Communication, input models.HostInput) bool {
	select {
	case communication.HandleHost <- input:
		return true
	default:
		return false
	}
}

func sendEvent(communication *models.Communication, event models.Event) {
	select {
	case communication.HandleEvent <- event:
	default:
	}
}
