package components

import (
	"context"
	"errors"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/kerberos-io/translator/src/camera"
	"github.com/kerberos-io/translator/src/cameras"
	configService "github.com/kerberos-io/translator/src/config"
	"github.com/kerberos-io/translator/src/log"
	"github.com/kerberos-io/translator/src/models"
	"github.com/kerberos-io/translator/src/plugin"
	"github.com/kerberos-io/translator/src/routers"
	routersMQTT "github.com/kerberos-io/translator/src/routers/mqtt"
	"github.com/kerberos-io/translator/src/routers/websocket"
	"github.com/kerberos-io/translator/src/settings"
)

// Host is what the host messages are delivered to.
type Host interface {
	OnConfig(ctx context.Context, device models.Device) error
	OnMessage(ctx context.Context, message models.Message) error
}

// InitialProfile returns the registry entry of the configured camera model,
// or the default model when it is unknown.
func InitialProfile(config models.Config) models.CameraProfile {
	profile, err := cameras.Lookup(models.CameraModel(config.CameraModel))
	if err != nil {
		log.Log.Warning("components.Translator.InitialProfile(): unknown camera model " + config.CameraModel + ", using " + string(cameras.DefaultModel))
		profile, _ = cameras.Lookup(cameras.DefaultModel)
	}
	return profile
}

func Bootstrap(ctx context.Context, configDirectory string, configuration *models.Configuration, communication *models.Communication) error {
	log.Log.Debug("components.Translator.Bootstrap(): started")
	config := configuration.Config

	store, err := settings.Open(ctx, configDirectory, config.Settings)
	if err != nil {
		log.Log.Error("components.Translator.Bootstrap(): unable to open settings store: " + err.Error())
		return err
	}
	defer store.Close()

	reconciler := configService.NewReconciler(store, config.Settings.Location)
	dispatcher := camera.NewDispatcher(config.TLSInsecure == "true")
	translator := plugin.New(ctx, InitialProfile(config), reconciler, dispatcher, communication)

	// We'll create a MQTT handler, which will be used to communicate with the host.
	var mqttClient mqtt.Client
	if config.MQTTURI != "" {
		mqttClient = routersMQTT.ConfigureMQTT(configuration, communication, translator)
	} else {
		log.Log.Info("components.Translator.Bootstrap(): no MQTT broker configured, only the REST API is available.")
	}

	hub := websocket.NewHub()

	go HandleHostMessages(ctx, communication, translator)
	go HandleEvents(ctx, communication,
		func(event models.Event) { routersMQTT.PublishEvent(mqttClient, configuration, event) },
		hub.Broadcast,
	)

	// Blocks until the context is cancelled.
	err = routers.StartWebserver(ctx, configuration, communication, translator, hub)

	// Let in-flight camera commands finish before closing the store.
	translator.Wait()
	if mqttClient != nil {
		routersMQTT.DisconnectMQTT(mqttClient, &config)
	}
	log.Log.Debug("components.Translator.Bootstrap(): finished")
	return err
}

// HandleHostMessages delivers configuration updates and commands to the host
// one at a time, in the order they were received.
func HandleHostMessages(ctx context.Context, communication *models.Communication, host Host) {
	for {
		select {
		case <-ctx.Done():
			return
		case input := <-communication.HandleHost:
			switch {
			case input.Config != nil:
				if err := host.OnConfig(ctx, *input.Config); err != nil {
					var persistenceErr *configService.PersistenceError
					if errors.As(err, &persistenceErr) {
						log.Log.Warning("components.Translator.HandleHostMessages(): configuration adopted but not persisted: " + err.Error())
					} else {
						log.Log.Error("components.Translator.HandleHostMessages(): " + err.Error())
					}
				}
			case input.Message != nil:
				if err := host.OnMessage(ctx, *input.Message); err != nil {
					log.Log.Error("components.Translator.HandleHostMessages(): " + err.Error())
				}
			}
		}
	}
}

// HandleEvents fans every plugin event out to the publishers.
func HandleEvents(ctx context.Context, communication *models.Communication, publishers ...func(models.Event)) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-communication.HandleEvent:
			log.Log.Debug("components.Translator.HandleEvents(): " + event.Type + " event " + event.Mid)
			for _, publish := range publishers {
				publish(event)
			}
		}
	}
}
