package models

// DefaultSettingsLocation is where the camera software expects its
// connection record.
const DefaultSettingsLocation = `Software\IP Webcam`

// Settings is the connection record persisted for the camera software,
// written whenever an accepted configuration changes.
type Settings struct {
	Location string `json:"location" bson:"location"`
	URL      string `json:"url" bson:"url"`
	Username string `json:"username" bson:"username"`
	Password string `json:"password" bson:"password"`
}
