package routers

import (
	"context"

	"github.com/kerberos-io/translator/src/models"
	"github.com/kerberos-io/translator/src/routers/http"
	"github.com/kerberos-io/translator/src/routers/websocket"
)

func StartWebserver(ctx context.Context, configuration *models.Configuration, communication *models.Communication, translator http.Translator, hub *websocket.Hub) error {
	return http.StartServer(ctx, configuration, communication, translator, hub)
}
