package models

type APIResponse struct {
	Data    interface{} `json:"data" bson:"data"`
	Message interface{} `json:"message" bson:"message"`
}

// ConfigResponse is returned when the active camera profile is requested.
type ConfigResponse struct {
	Options     CameraProfile `json:"options"`
	Configuring bool          `json:"configuring"`
}
