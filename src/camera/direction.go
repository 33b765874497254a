package camera

import (
	"errors"

	"github.com/kerberos-io/translator/src/models"
)

var ErrUnsupportedAction = errors.New("unsupported camera action")

// UnsupportedActionError is returned for an action without a direction code,
// zoom included: the pan/tilt endpoint has no zoom command.
type UnsupportedActionError struct {
	Action models.CameraAction
}

func (e *UnsupportedActionError) Error() string {
	return "unsupported camera action: " + string(e.Action)
}

func (e *UnsupportedActionError) Unwrap() error {
	return ErrUnsupportedAction
}

var directionCodes = map[models.CameraAction]int{
	models.ActionMoveNorth:     1,
	models.ActionMoveNorthEast: 2,
	models.ActionMoveEast:      5,
	models.ActionMoveSouthEast: 8,
	models.ActionMoveSouth:     7,
	models.ActionMoveSouthWest: 6,
	models.ActionMoveWest:      3,
	models.ActionMoveNorthWest: 0,
	models.ActionHome:          4,
}

// Encode returns the PanTiltSingleMove code the camera expects for an action.
func Encode(action models.CameraAction) (int, error) {
	code, ok := directionCodes[action]
	if !ok {
		return 0, &UnsupportedActionError{Action: action}
	}
	return code, nil
}
