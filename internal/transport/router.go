package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mvolkov/dispatch/internal/domain/event"
	porteventbus "github.com/mvolkov/dispatch/internal/port/eventbus"
	distributorsvc "github.com/mvolkov/dispatch/internal/service/distributor"
	executorsvc "github.com/mvolkov/dispatch/internal/service/executor"
	requestsvc "github.com/mvolkov/dispatch/internal/service/request"

	distributionhandler "github.com/mvolkov/dispatch/internal/transport/distribution"
	executorhandler "github.com/mvolkov/dispatch/internal/transport/executor"
	requesthandler "github.com/mvolkov/dispatch/internal/transport/request"
	wshandler "github.com/mvolkov/dispatch/internal/transport/ws"
)

func NewRouter(
	ctx context.Context,
	requestSvc *requestsvc.Service,
	executorSvc *executorsvc.Service,
	distSvc *distributorsvc.Service,
	eventBus porteventbus.EventBus,
	corsOrigin string,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware(corsOrigin))
	r.Use(MetricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metricsHandler()))

	api := r.Group("/api")

	requesthandler.Register(api.Group("/requests"), requestSvc)
	executorhandler.Register(api.Group("/executors"), executorSvc, distSvc)
	distributionhandler.Register(api.Group("/distribution"), distSvc)

	hub := wshandler.NewHub()
	hub.Register(api.Group("/ws"))

	// Bridge: one subscription per domain channel (2 total Postgres
	// connections). Every event in a channel is forwarded; event.Type in the
	// payload lets the client filter.
	for _, ch := range []event.Channel{
		event.ChannelRequest,
		event.ChannelExecutor,
	} {
		c := ch
		if _, err := eventBus.Subscribe(ctx, c, func(_ context.Context, e event.Event) {
			hub.Broadcast(e)
		}); err != nil {
			slog.Error("failed to subscribe channel to WS hub", "channel", c, "error", err)
		}
	}

	return r
}
