package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"turnserver/internal/adapters"
	"turnserver/internal/bootstrap"
	observerDelivery "turnserver/internal/delivery/observer"
	turnDelivery "turnserver/internal/delivery/turn"
	"turnserver/internal/engine"
	"turnserver/internal/engine/skirmish"
	repo "turnserver/internal/repository"
	turnuc "turnserver/internal/usecase/turn"
)

type mainDeliveryHandler struct {
	turn     *turnDelivery.TurnHandler
	observer *observerDelivery.ObserverHandler
}

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

type app struct {
	cfg       bootstrap.Config
	log       *zap.SugaredLogger
	hub       *observerDelivery.Hub
	handlers  *mainDeliveryHandler
	adapters  *dataBaseAdapters
	recorders []*turnuc.AsyncRecorder
}

func main() {
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		NewLogger(false).Fatalw("Failed to setup configuration", "error", err)
	}

	logger := NewLogger(cfg.LogDebug)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	a, err := newApp(ctx, *cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to initialize server", "error", err)
	}
	defer a.close(context.Background())

	turnLn, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		logger.Fatalw("Failed to bind turn listener", "addr", cfg.Addr(), "error", err)
	}

	var observerLn net.Listener
	if cfg.ObserverEnabled() {
		observerLn, err = net.Listen("tcp", cfg.ObserverAddr())
		if err != nil {
			turnLn.Close()
			logger.Fatalw("Failed to bind observer listener", "addr", cfg.ObserverAddr(), "error", err)
		}
	}

	if err := a.run(ctx, turnLn, observerLn); err != nil {
		logger.Errorw("Server stopped with error", "error", err)
		return
	}
	logger.Info("Server stopped")
}

func NewLogger(debug bool) *zap.SugaredLogger {
	build := zap.NewProduction
	if debug {
		build = zap.NewDevelopment
	}
	logger, err := build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func newEngineRegistry() (*engine.Registry, error) {
	registry := engine.NewRegistry()
	if err := registry.Register(skirmish.Name, skirmish.New()); err != nil {
		return nil, err
	}
	return registry, nil
}

func newApp(ctx context.Context, cfg bootstrap.Config, log *zap.SugaredLogger) (*app, error) {
	registry, err := newEngineRegistry()
	if err != nil {
		return nil, err
	}
	turnEngine, err := registry.Lookup(cfg.Engine)
	if err != nil {
		return nil, err
	}

	databaseAdapters, err := initDatabaseAdapters(ctx, log, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, adapters: databaseAdapters}
	if cfg.ObserverEnabled() {
		a.hub = observerDelivery.NewHub(log)
	}
	a.handlers, a.recorders = initializeDeliveryHandlers(cfg, log, turnEngine, databaseAdapters, a.hub)

	log.Infow("Turn engine selected", "engine", cfg.Engine, "available", registry.Names())
	return a, nil
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg bootstrap.Config) (*dataBaseAdapters, error) {
	result := &dataBaseAdapters{}

	if cfg.RedisUrl != "" {
		redisAdapter := adapters.NewAdapterRedis(&cfg, log)
		if err := redisAdapter.Init(ctx); err != nil {
			return nil, err
		}
		result.redisAdapter = redisAdapter
	}

	if cfg.MongoUri != "" {
		mongoAdapter := adapters.NewAdapterMongo(&cfg, log)
		if err := mongoAdapter.Init(ctx); err != nil {
			result.close(ctx)
			return nil, err
		}
		result.mongoAdapter = mongoAdapter
	}

	return result, nil
}

func (d *dataBaseAdapters) close(ctx context.Context) {
	if d.mongoAdapter != nil {
		_ = d.mongoAdapter.Close(ctx)
	}
	if d.redisAdapter != nil {
		_ = d.redisAdapter.Close(ctx)
	}
}

func initializeDeliveryHandlers(
	cfg bootstrap.Config,
	log *zap.SugaredLogger,
	turnEngine engine.Engine,
	databaseAdapters *dataBaseAdapters,
	hub *observerDelivery.Hub,
) (*mainDeliveryHandler, []*turnuc.AsyncRecorder) {
	var recorders []turnuc.TurnRecorder
	if cfg.LogTurns {
		recorders = append(recorders, repo.NewLogRecorder(log))
	}

	// Stores are written from their own queues, never from the request.
	var stores []*turnuc.AsyncRecorder
	var recent observerDelivery.RecentTurns
	if databaseAdapters.redisAdapter != nil {
		redisRecorder := repo.NewRedisTurnRecorder(databaseAdapters.redisAdapter.GetClient(), cfg.TurnHistoryLimit)
		stores = append(stores, turnuc.NewAsyncRecorder(redisRecorder, log, cfg.RecordQueueSize))
		recent = redisRecorder
	}
	if databaseAdapters.mongoAdapter != nil {
		mongoRecorder := repo.NewMongoTurnRecorder(databaseAdapters.mongoAdapter.Database)
		stores = append(stores, turnuc.NewAsyncRecorder(mongoRecorder, log, cfg.RecordQueueSize))
	}
	for _, store := range stores {
		recorders = append(recorders, store)
	}

	handlers := &mainDeliveryHandler{}
	if hub != nil {
		recorders = append(recorders, hub)
		handlers.observer = observerDelivery.NewObserverHandler(log, hub, recent)
	}

	turnUC := turnuc.NewTurnUseCase(turnEngine, log, recorders...)
	handlers.turn = turnDelivery.NewTurnHandler(cfg, log, turnUC)
	return handlers, stores
}

func (h *mainDeliveryHandler) TurnRouter() http.Handler {
	return turnDelivery.NewRouter(h.turn, middleware.Logger)
}

func (h *mainDeliveryHandler) ObserverRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	h.observer.Router(r)
	return r
}

// run serves until ctx is cancelled, then shuts the servers down, which
// closes the listeners. Queued turn records are flushed once the servers
// have stopped.
func (a *app) run(ctx context.Context, turnLn, observerLn net.Listener) error {
	recordCtx, stopRecording := context.WithCancel(context.WithoutCancel(ctx))
	var recording sync.WaitGroup
	for _, r := range a.recorders {
		r := r
		recording.Add(1)
		go func() {
			defer recording.Done()
			r.Run(recordCtx)
		}()
	}
	defer func() {
		stopRecording()
		recording.Wait()
	}()

	g, ctx := errgroup.WithContext(ctx)

	servers := []*http.Server{{Handler: a.handlers.TurnRouter()}}
	listeners := []net.Listener{turnLn}
	a.log.Infof("Turn server is listening on %s", turnLn.Addr())

	if a.hub != nil && observerLn != nil {
		g.Go(func() error {
			a.hub.Run(ctx)
			return nil
		})
		servers = append(servers, &http.Server{Handler: a.handlers.ObserverRouter()})
		listeners = append(listeners, observerLn)
		a.log.Infof("Observer server is listening on %s", observerLn.Addr())
	}

	for i := range servers {
		srv, ln := servers[i], listeners[i]
		g.Go(func() error {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

func (a *app) close(ctx context.Context) {
	a.adapters.close(ctx)
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
