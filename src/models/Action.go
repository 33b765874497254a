package models

type CameraAction string

const (
	ActionMoveNorth     CameraAction = "move-North"
	ActionMoveNorthEast CameraAction = "move-NorthEast"
	ActionMoveEast      CameraAction = "move-East"
	ActionMoveSouthEast CameraAction = "move-SouthEast"
	ActionMoveSouth     CameraAction = "move-South"
	ActionMoveSouthWest CameraAction = "move-SouthWest"
	ActionMoveWest      CameraAction = "move-West"
	ActionMoveNorthWest CameraAction = "move-NorthWest"
	ActionZoom          CameraAction = "zoom"
	ActionHome          CameraAction = "home"
)

// CameraActions lists every action the host may send, in schema order.
var CameraActions = []CameraAction{
	ActionMoveNorth,
	ActionMoveNorthEast,
	ActionMoveEast,
	ActionMoveSouthEast,
	ActionMoveSouth,
	ActionMoveSouthWest,
	ActionMoveWest,
	ActionMoveNorthWest,
	ActionZoom,
	ActionHome,
}

// ActionMessage is the payload of a single camera move command.
type ActionMessage struct {
	CameraAction  CameraAction `json:"CameraAction"`
	PanStepValue  int          `json:"PanStepValue"`
	TiltStepValue int          `json:"TiltStepValue"`
}
