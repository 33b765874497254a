package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/kerberos-io/translator/src/log"
	"github.com/kerberos-io/translator/src/metrics"
	"github.com/kerberos-io/translator/src/models"
)

var ErrPersistence = errors.New("settings could not be persisted")

// PersistenceError wraps a failed write of the camera connection record.
type PersistenceError struct {
	Location string
	Err      error
}

func (e *PersistenceError) Error() string {
	return "persisting settings to " + e.Location + " failed: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// SettingsWriter persists the camera connection record as one logical write.
type SettingsWriter interface {
	Put(ctx context.Context, settings models.Settings) error
}

// FieldChange is a single property that differs between two profiles.
type FieldChange struct {
	Field string
	From  interface{}
	To    interface{}
}

// Result is the outcome of comparing the active profile with an incoming one.
type Result struct {
	Changed bool
	Next    models.CameraProfile
	Changes []FieldChange
}

// Diff compares every property of the two profiles. New properties on
// CameraProfile must be added here as well.
func Diff(active models.CameraProfile, incoming models.CameraProfile) []FieldChange {
	var changes []FieldChange
	compare := func(field string, from interface{}, to interface{}) {
		if from != to {
			changes = append(changes, FieldChange{Field: field, From: from, To: to})
		}
	}
	compare("CameraModel", active.CameraModel, incoming.CameraModel)
	compare("StreamProtocol", active.StreamProtocol, incoming.StreamProtocol)
	compare("IP_Camera_Host", active.IPCameraHost, incoming.IPCameraHost)
	compare("IP_Camera_Protocol", active.IPCameraProtocol, incoming.IPCameraProtocol)
	compare("IP_Camera_Port", active.IPCameraPort, incoming.IPCameraPort)
	compare("IP_Camera_Stream_Query", active.IPCameraStreamQuery, incoming.IPCameraStreamQuery)
	compare("IP_Camera_Command_Query", active.IPCameraCommandQuery, incoming.IPCameraCommandQuery)
	compare("Cam_User", active.CamUser, incoming.CamUser)
	compare("Cam_Password", active.CamPassword, incoming.CamPassword)
	return changes
}

// Reconcile decides whether the incoming profile replaces the active one.
// A change in any property replaces the whole profile.
func Reconcile(active models.CameraProfile, incoming models.CameraProfile) Result {
	changes := Diff(active, incoming)
	for _, change := range changes {
		log.Log.Info(fmt.Sprintf("config.reconcile.Reconcile(): %s changed from %v to %v", change.Field, change.From, change.To))
	}
	if len(changes) == 0 {
		return Result{Changed: false, Next: active}
	}
	return Result{Changed: true, Next: incoming, Changes: changes}
}

// CameraURL is the stream address handed to the camera software.
func CameraURL(profile models.CameraProfile) string {
	path := profile.IPCameraStreamQuery
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	host := net.JoinHostPort(profile.IPCameraHost, strconv.Itoa(profile.IPCameraPort))
	return string(profile.IPCameraProtocol) + "://" + host + path
}

// SettingsFor derives the persisted record from a profile.
func SettingsFor(profile models.CameraProfile, location string) models.Settings {
	return models.Settings{
		Location: location,
		URL:      CameraURL(profile),
		Username: profile.CamUser,
		Password: profile.CamPassword,
	}
}

// Reconciler persists the connection record whenever the profile changes.
type Reconciler struct {
	store    SettingsWriter
	location string
}

func NewReconciler(store SettingsWriter, location string) *Reconciler {
	if location == "" {
		location = models.DefaultSettingsLocation
	}
	return &Reconciler{
		store:    store,
		location: location,
	}
}

// Apply reconciles and, on change, writes the record once. Without a change
// no I/O happens. The result is returned even when the write fails.
func (r *Reconciler) Apply(ctx context.Context, active models.CameraProfile, incoming models.CameraProfile) (Result, error) {
	result := Reconcile(active, incoming)
	if !result.Changed {
		log.Log.Info("config.reconcile.Apply(): no configuration changes.")
		metrics.ConfigUpdatesTotal.WithLabelValues("unchanged").Inc()
		return result, nil
	}

	log.Log.Info("config.reconcile.Apply(): new configuration set.")
	settings := SettingsFor(result.Next, r.location)
	if err := r.store.Put(ctx, settings); err != nil {
		log.Log.Error("config.reconcile.Apply(): " + err.Error())
		metrics.SettingsWritesTotal.WithLabelValues("failed").Inc()
		metrics.ConfigUpdatesTotal.WithLabelValues("failed").Inc()
		return result, &PersistenceError{Location: r.location, Err: err}
	}
	metrics.SettingsWritesTotal.WithLabelValues("written").Inc()
	metrics.ConfigUpdatesTotal.WithLabelValues("changed").Inc()
	return result, nil
}
