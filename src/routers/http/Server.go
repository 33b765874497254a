package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	jwt "github.com/appleboy/gin-jwt/v2"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/kerberos-io/translator/src/log"
	"github.com/kerberos-io/translator/src/models"
	"github.com/kerberos-io/translator/src/routers/websocket"
)

// NewRouter builds the REST API the host (or an operator) uses to configure
// and drive the translator.
func NewRouter(configuration *models.Configuration, communication *models.Communication, translator Translator, hub *websocket.Hub) (*gin.Engine, error) {

	r := gin.New()
	r.Use(gin.Recovery())

	// Profiler
	pprof.Register(r)

	// Setup CORS
	r.Use(CORS())

	// The JWT middleware
	middleWare := JWTMiddleWare(configuration.Config)
	authMiddleware, err := jwt.New(&middleWare)
	if err != nil {
		return nil, err
	}

	AddRoutes(r, authMiddleware, communication, translator, hub)
	return r, nil
}

// StartServer runs the API on the configured port until ctx is cancelled.
func StartServer(ctx context.Context, configuration *models.Configuration, communication *models.Communication, translator Translator, hub *websocket.Hub) error {
	r, err := NewRouter(configuration, communication, translator, hub)
	if err != nil {
		log.Log.Error("routers.http.Server.StartServer(): JWT error: " + err.Error())
		return err
	}

	server := &http.Server{
		Addr:              ":" + configuration.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Log.Info("routers.http.Server.StartServer(): listening on port " + configuration.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Log.Error("routers.http.Server.StartServer(): " + err.Error())
		return err
	}
	return nil
}
