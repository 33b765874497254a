package http

import (
	jwt "github.com/appleboy/gin-jwt/v2"
	"github.com/gin-gonic/gin"
	"github.com/kerberos-io/translator/src/metrics"
	"github.com/kerberos-io/translator/src/models"
	"github.com/kerberos-io/translator/src/routers/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func AddRoutes(r *gin.Engine, authMiddleware *jwt.GinJWTMiddleware, communication *models.Communication, translator Translator, hub *websocket.Hub) *gin.RouterGroup {

	r.GET("/ws", hub.WebsocketHandler)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.POST("/login", authMiddleware.LoginHandler)

		api.GET("/schema/message", func(c *gin.Context) {
			GetMessageSchema(c, translator)
		})

		api.GET("/schema/options", func(c *gin.Context) {
			GetOptionsSchema(c, translator)
		})

		api.GET("/cameras", GetCameras)
		api.GET("/cameras/:model", GetCamera)

		api.GET("/config", func(c *gin.Context) {
			GetConfig(c, translator, communication)
		})

		// Secured endpoints..
		api.Use(authMiddleware.MiddlewareFunc())
		{
			api.POST("/config", func(c *gin.Context) {
				UpdateConfig(c, translator)
			})

			api.POST("/message", func(c *gin.Context) {
				SendMessage(c, translator)
			})
		}
	}
	return api
}
