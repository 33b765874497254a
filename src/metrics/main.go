package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// CommandsTotal counts the commands sent to the camera by action and result.
	CommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "translator",
		Name:      "camera_commands_total",
		Help:      "Camera commands dispatched, labeled by action and result.",
	}, []string{"action", "result"})

	// ConfigUpdatesTotal counts config updates by outcome (changed, unchanged, failed).
	ConfigUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "translator",
		Name:      "config_updates_total",
		Help:      "Configuration updates received from the host, labeled by outcome.",
	}, []string{"outcome"})

	// SettingsWritesTotal counts writes to the settings store by result.
	SettingsWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "translator",
		Name:      "settings_writes_total",
		Help:      "Writes of the camera connection record, labeled by result.",
	}, []string{"result"})
)

// Registry holds the translator collectors; it is served on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(CommandsTotal, ConfigUpdatesTotal, SettingsWritesTotal)
}
