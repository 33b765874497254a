package models

type CameraModel string

const (
	CameraModelDCS5020L CameraModel = "DCS_5020L"
	CameraModelOther    CameraModel = "Other"
)

type StreamProtocol string

const (
	StreamProtocolMJPG StreamProtocol = "mjpg"
	StreamProtocolH264 StreamProtocol = "h.264"
	StreamProtocolH323 StreamProtocol = "h.323"
	StreamProtocolSIP  StreamProtocol = "sip"
)

type CameraProtocol string

const (
	CameraProtocolHTTP  CameraProtocol = "http"
	CameraProtocolHTTPS CameraProtocol = "https"
	CameraProtocolRTSP  CameraProtocol = "rtsp"
)

// CameraProfile describes how to reach and control one camera. The JSON
// names are the option names the host uses.
type CameraProfile struct {
	CameraModel          CameraModel    `json:"CameraModel" bson:"CameraModel"`
	StreamProtocol       StreamProtocol `json:"StreamProtocol" bson:"StreamProtocol"`
	IPCameraHost         string         `json:"IP_Camera_Host" bson:"IP_Camera_Host"`
	IPCameraProtocol     CameraProtocol `json:"IP_Camera_Protocol" bson:"IP_Camera_Protocol"`
	IPCameraPort         int            `json:"IP_Camera_Port" bson:"IP_Camera_Port"`
	IPCameraStreamQuery  string         `json:"IP_Camera_Stream_Query" bson:"IP_Camera_Stream_Query"`
	IPCameraCommandQuery string         `json:"IP_Camera_Command_Query" bson:"IP_Camera_Command_Query"`
	CamUser              string         `json:"Cam_User" bson:"Cam_User"`
	CamPassword          string         `json:"Cam_Password" bson:"Cam_Password"`
}
