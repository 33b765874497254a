package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kerberos-io/translator/src/camera"
	"github.com/kerberos-io/translator/src/cameras"
	"github.com/kerberos-io/translator/src/config"
	"github.com/kerberos-io/translator/src/log"
	"github.com/kerberos-io/translator/src/models"
	"github.com/kerberos-io/translator/src/schema"
)

// Translator is the part of the plugin the API needs.
type Translator interface {
	OnConfig(ctx context.Context, device models.Device) error
	OnMessage(ctx context.Context, message models.Message) error
	Options() models.CameraProfile
	MessageSchema() schema.Schema
	OptionsSchema() schema.Schema
}

// GetMessageSchema returns the schema of a camera move command.
func GetMessageSchema(c *gin.Context, translator Translator) {
	c.JSON(http.StatusOK, translator.MessageSchema())
}

// GetOptionsSchema returns the options schema with the defaults of the active
// camera model.
func GetOptionsSchema(c *gin.Context, translator Translator) {
	c.JSON(http.StatusOK, translator.OptionsSchema())
}

// GetCameras lists the known camera models with their default profile.
func GetCameras(c *gin.Context) {
	c.JSON(http.StatusOK, models.APIResponse{
		Data: cameras.All(),
	})
}

func GetCamera(c *gin.Context) {
	profile, err := cameras.Lookup(models.CameraModel(c.Param("model")))
	if err != nil {
		c.JSON(http.StatusNotFound, models.APIResponse{
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{
		Data: profile,
	})
}

// GetConfig returns the active profile, the camera password masked.
func GetConfig(c *gin.Context, translator Translator, communication *models.Communication) {
	options := translator.Options()
	if options.CamPassword != "" {
		options.CamPassword = "********"
	}
	c.JSON(http.StatusOK, models.ConfigResponse{
		Options:     options,
		Configuring: communication.IsConfiguring.IsSet(),
	})
}

// UpdateConfig validates the options and reconciles them. A failed write
// still answers with the adopted profile.
func UpdateConfig(c *gin.Context, translator Translator) {
	var raw models.RawDevice
	if err := c.BindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Message: "Something went wrong: " + err.Error(),
		})
		return
	}
	device, err := schema.ValidateDevice(raw, translator.OptionsSchema())
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Message: err.Error(),
		})
		return
	}

	err = translator.OnConfig(c.Request.Context(), device)
	if errors.Is(err, config.ErrPersistence) {
		log.Log.Error("routers.http.Methods.UpdateConfig(): " + err.Error())
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Data:    translator.Options(),
			Message: err.Error(),
		})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{
		Data:    translator.Options(),
		Message: "configuration applied",
	})
}

// SendMessage validates and queues a move command. The camera's answer is
// delivered as an event.
func SendMessage(c *gin.Context, translator Translator) {
	var raw models.RawMessage
	if err := c.BindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Message: "Something went wrong: " + err.Error(),
		})
		return
	}
	message, err := schema.ValidateMessage(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Message: err.Error(),
		})
		return
	}

	err = translator.OnMessage(c.Request.Context(), message)
	if errors.Is(err, camera.ErrUnsupportedAction) {
		c.JSON(http.StatusUnprocessableEntity, models.APIResponse{
			Message: err.Error(),
		})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusAccepted, models.APIResponse{
		Data:    message.Mid,
		Message: "command accepted",
	})
}
