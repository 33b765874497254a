// Package cameras holds the default connection profile of every camera model
// the translator knows how to drive. Adding a model is a data-only change.
package cameras

import (
	"errors"
	"sort"

	"github.com/kerberos-io/translator/src/models"
)

// DefaultModel is used when no camera model is configured.
const DefaultModel = models.CameraModelDCS5020L

var ErrCameraNotFound = errors.New("camera model not found")

var knownCameras = map[models.CameraModel]models.CameraProfile{
	models.CameraModelDCS5020L: {
		CameraModel:          models.CameraModelDCS5020L,
		StreamProtocol:       models.StreamProtocolMJPG,
		IPCameraHost:         "10.232.0.34",
		IPCameraProtocol:     models.CameraProtocolHTTP,
		IPCameraPort:         80,
		IPCameraStreamQuery:  "/video/mjpg.cgi",
		IPCameraCommandQuery: "/pantiltcontrol.cgi",
		CamUser:              "admin",
		CamPassword:          "camPass$2",
	},
	models.CameraModelOther: {
		CameraModel:          models.CameraModelOther,
		StreamProtocol:       models.StreamProtocolH264,
		IPCameraHost:         "localhost",
		IPCameraProtocol:     models.CameraProtocolHTTP,
		IPCameraPort:         80,
		IPCameraStreamQuery:  "/video",
		IPCameraCommandQuery: "/movecamera.cgi",
		CamUser:              "admin",
		CamPassword:          "password",
	},
}

// Lookup returns a copy of the default profile for a model.
func Lookup(model models.CameraModel) (models.CameraProfile, error) {
	profile, ok := knownCameras[model]
	if !ok {
		return models.CameraProfile{}, ErrCameraNotFound
	}
	return profile, nil
}

// Models returns the known camera models, sorted.
func Models() []models.CameraModel {
	list := make([]models.CameraModel, 0, len(knownCameras))
	for model := range knownCameras {
		list = append(list, model)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i] < list[j]
	})
	return list
}

// All returns every known profile ordered by model.
func All() []models.CameraProfile {
	profiles := make([]models.CameraProfile, 0, len(knownCameras))
	for _, model := range Models() {
		profiles = append(profiles, knownCameras[model])
	}
	return profiles
}
