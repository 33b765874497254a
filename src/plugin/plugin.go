// Package plugin is the entry point the host talks to. It owns the active
// camera profile and turns configuration updates and move commands into
// settings writes and camera requests.
package plugin

import (
	"context"
	"errors"
	"sync"

	"github.com/kerberos-io/translator/src/camera"
	"github.com/kerberos-io/translator/src/cameras"
	"github.com/kerberos-io/translator/src/config"
	"github.com/kerberos-io/translator/src/log"
	"github.com/kerberos-io/translator/src/models"
	"github.com/kerberos-io/translator/src/schema"
)

type Plugin struct {
	mu      sync.RWMutex
	options models.CameraProfile
	// persisted is the profile the stored settings were last written from.
	// Updates are compared against it, so a failed write is retried when the
	// host sends the same options again.
	persisted models.CameraProfile

	ctx           context.Context
	reconciler    *config.Reconciler
	dispatcher    *camera.Dispatcher
	communication *models.Communication
	wg            sync.WaitGroup
}

// New creates the plugin with profile as the active configuration. Dispatches
// run with ctx, so cancelling it aborts in-flight camera requests.
func New(ctx context.Context, profile models.CameraProfile, reconciler *config.Reconciler, dispatcher *camera.Dispatcher, communication *models.Communication) *Plugin {
	return &Plugin{
		options:       profile,
		persisted:     profile,
		ctx:           ctx,
		reconciler:    reconciler,
		dispatcher:    dispatcher,
		communication: communication,
	}
}

// OnConfig reconciles the incoming options with the last persisted profile
// and persists the settings when something changed. The incoming profile is
// adopted even when persisting fails.
func (p *Plugin) OnConfig(ctx context.Context, device models.Device) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.communication.IsConfiguring.Set()
	defer p.communication.IsConfiguring.UnSet()

	result, err := p.reconciler.Apply(ctx, p.persisted, device.Options)
	p.options = result.Next
	if err != nil {
		log.Log.Error("plugin.plugin.OnConfig(): " + err.Error())
		p.emit(models.NewEvent(models.EventError, device.UUID, err.Error(), map[string]interface{}{
			"stage": "config",
		}))
		return err
	}
	p.persisted = result.Next

	changed := make([]string, 0, len(result.Changes))
	for _, change := range result.Changes {
		changed = append(changed, change.Field)
	}
	message := "no configuration changes"
	if result.Changed {
		message = "configuration updated"
	}
	p.emit(models.NewEvent(models.EventConfig, device.UUID, message, map[string]interface{}{
		"changed": result.Changed,
		"fields":  changed,
	}))
	return nil
}

// SetOptions replaces the active profile without comparing or persisting.
// The profile is taken as the one the stored settings describe.
func (p *Plugin) SetOptions(profile models.CameraProfile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.options = profile
	p.persisted = profile
}

// Options returns a copy of the active profile.
func (p *Plugin) Options() models.CameraProfile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.options
}

// OnMessage translates a move command. An unsupported action is rejected
// before anything is sent. The camera request itself runs in the background
// with a snapshot of the active profile, its outcome is reported as an event.
func (p *Plugin) OnMessage(ctx context.Context, message models.Message) error {
	action := message.Payload
	if _, err := camera.Encode(action.CameraAction); err != nil {
		log.Log.Warning("plugin.plugin.OnMessage(): " + err.Error())
		p.emit(models.NewEvent(models.EventError, deviceOf(message), err.Error(), map[string]interface{}{
			"mid":    message.Mid,
			"action": string(action.CameraAction),
		}))
		return err
	}

	profile := p.Options()
	log.Log.Info("plugin.plugin.OnMessage(): received " + string(action.CameraAction) + " for " + string(profile.CameraModel))

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.dispatch(message, profile)
	}()
	return nil
}

func (p *Plugin) dispatch(message models.Message, profile models.CameraProfile) {
	action := message.Payload
	response, err := p.dispatcher.Dispatch(p.ctx, action, profile)
	if err != nil {
		log.Log.Error("plugin.plugin.dispatch(): " + err.Error())
		data := map[string]interface{}{
			"mid":    message.Mid,
			"action": string(action.CameraAction),
		}
		var transportErr *camera.TransportError
		if errors.As(err, &transportErr) {
			data["url"] = transportErr.URL
		}
		p.emit(models.NewEvent(models.EventError, deviceOf(message), err.Error(), data))
		return
	}
	p.emit(models.NewEvent(models.EventResponse, deviceOf(message), response.Body, map[string]interface{}{
		"mid":    message.Mid,
		"action": string(action.CameraAction),
		"url":    response.URL,
		"status": response.StatusCode,
	}))
}

// Wait blocks until all camera requests started by OnMessage are finished.
func (p *Plugin) Wait() {
	p.wg.Wait()
}

func (p *Plugin) MessageSchema() schema.Schema {
	return schema.MessageSchema()
}

// OptionsSchema uses the registry entry of the active model as defaults,
// falling back to the default model when the active one is unknown.
func (p *Plugin) OptionsSchema() schema.Schema {
	defaults, err := cameras.Lookup(p.Options().CameraModel)
	if err != nil {
		defaults, _ = cameras.Lookup(cameras.DefaultModel)
	}
	return schema.OptionsSchema(defaults)
}

// emit never blocks, a full event channel drops the event.
func (p *Plugin) emit(event models.Event) {
	if p.communication == nil || p.communication.HandleEvent == nil {
		return
	}
	select {
	case p.communication.HandleEvent <- event:
	default:
		log.Log.Warning("plugin.plugin.emit(): event channel is full, dropping " + event.Type + " event")
	}
}

func deviceOf(message models.Message) string {
	if len(message.Devices) > 0 {
		return message.Devices[0]
	}
	return message.FromUUID
}
