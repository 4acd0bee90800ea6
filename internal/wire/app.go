package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mvolkov/dispatch/internal/adapter/memory"
	pgdb "github.com/mvolkov/dispatch/internal/adapter/postgres"
	pgeventbus "github.com/mvolkov/dispatch/internal/adapter/postgres/eventbus"
	pgexecutor "github.com/mvolkov/dispatch/internal/adapter/postgres/executor"
	pgidempotency "github.com/mvolkov/dispatch/internal/adapter/postgres/idempotency"
	pglocker "github.com/mvolkov/dispatch/internal/adapter/postgres/locker"
	pgrequest "github.com/mvolkov/dispatch/internal/adapter/postgres/request"

	"github.com/mvolkov/dispatch/internal/config"

	porteventbus "github.com/mvolkov/dispatch/internal/port/eventbus"
	portexecutor "github.com/mvolkov/dispatch/internal/port/executor"
	portidem "github.com/mvolkov/dispatch/internal/port/idempotency"
	portlocker "github.com/mvolkov/dispatch/internal/port/locker"
	portrequest "github.com/mvolkov/dispatch/internal/port/request"

	distributorsvc "github.com/mvolkov/dispatch/internal/service/distributor"
	executorsvc "github.com/mvolkov/dispatch/internal/service/executor"
	requestsvc "github.com/mvolkov/dispatch/internal/service/request"

	"github.com/mvolkov/dispatch/internal/transport"
)

// App holds the top-level resources needed to run and gracefully stop the server.
// Pool is nil when the memory store is selected.
type App struct {
	Pool           *pgxpool.Pool
	Server         *http.Server
	RequestSvc     *requestsvc.Service
	ExecutorSvc    *executorsvc.Service
	DistributorSvc *distributorsvc.Service
}

// Build is the composition root: the only place concrete types are wired to their
// interface dependencies.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	// ── Adapters ─────────────────────────────────────────────────────────────
	var (
		pool         *pgxpool.Pool
		requestRepo  portrequest.Repository
		executorRepo portexecutor.Repository
		eventBus     porteventbus.EventBus
		locker       portlocker.AdvisoryLocker
		idemStore    portidem.Store
	)

	switch cfg.Store {
	case config.StorePostgres:
		p, err := pgdb.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		pool = p
		requestRepo = pgrequest.New(pool)
		executorRepo = pgexecutor.New(pool)
		eventBus = pgeventbus.New(pool)
		locker = pglocker.New(pool)
		idemStore = pgidempotency.New(pool)
	case config.StoreMemory:
		store := memory.NewStore()
		requestRepo = store.Requests()
		executorRepo = store.Executors()
		eventBus = memory.NewBus()
		locker = memory.NewLocker()
		idemStore = memory.NewIdempotency()
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	executorSvcInstance := executorsvc.NewService(executorRepo, eventBus)
	requestSvcInstance := requestsvc.NewService(requestRepo, idemStore, eventBus)
	distSvcInstance := distributorsvc.NewService(requestRepo, executorRepo, locker, eventBus)

	// ── Transport ─────────────────────────────────────────────────────────────
	router := transport.NewRouter(
		ctx,
		requestSvcInstance,
		executorSvcInstance,
		distSvcInstance,
		eventBus,
		cfg.CORSOrigin,
	)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("application wired", "addr", cfg.ListenAddr, "store", cfg.Store)

	return &App{
		Pool:           pool,
		Server:         server,
		RequestSvc:     requestSvcInstance,
		ExecutorSvc:    executorSvcInstance,
		DistributorSvc: distSvcInstance,
	}, nil
}
