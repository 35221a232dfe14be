package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/matheus3301/convo/internal/api"
	"github.com/matheus3301/convo/internal/bus"
	"github.com/matheus3301/convo/internal/chat"
	"github.com/matheus3301/convo/internal/config"
	"github.com/matheus3301/convo/internal/hub"
	"github.com/matheus3301/convo/internal/lock"
	"github.com/matheus3301/convo/internal/logging"
	"github.com/matheus3301/convo/internal/outbox"
	"github.com/matheus3301/convo/internal/session"
	"github.com/matheus3301/convo/internal/status"
	"github.com/matheus3301/convo/internal/store"
	intsync "github.com/matheus3301/convo/internal/sync"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved session configuration passed to the fx module.
type Params struct {
	SessionName string
	SocketPath  string // optional override for testing; empty = use default
	LogLevel    string
	// Config overrides ~/.convo/config.toml when set.
	Config *config.Config
}

// Module returns the fx module for the daemon, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideStore,
			provideSender,
			provideHub,
			provideSyncEngine,
			provideDropbox,
			provideConversationService,
			provideThreadService,
			provideSessionService,
			NewServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	if p.Config != nil {
		return p.Config, p.Config.Validate()
	}
	return config.LoadOrDefault(session.ConfigPath())
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(logging.Options{
		Path:    session.LogPath(p.SessionName),
		Session: p.SessionName,
		Level:   logging.ParseLevel(p.LogLevel),
		Stderr:  true,
	})
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := session.EnsureDir(p.SessionName); err != nil {
		return nil, err
	}
	logger.Info("acquiring session lock", zap.String("session", p.SessionName))
	l, err := lock.Acquire(session.LockPath(p.SessionName))
	if err != nil {
		return nil, err
	}
	logger.Info("session lock acquired")
	return l, nil
}

// provideStore takes the lock so the database is only opened by its owner.
func provideStore(p Params, _ *lock.Lock, logger *zap.Logger) (*store.DB, error) {
	dbPath := session.DBPath(p.SessionName)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed() {
		logger.Info("migrations applied", zap.Uint("from", result.From), zap.Uint("to", result.To))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.To))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideSender(cfg *config.Config, b *bus.Bus, machine *status.Machine, logger *zap.Logger) (*outbox.Sender, error) {
	transport, err := outbox.NewTransport(cfg.Outbox.Transport, b, logger.Named("transport"))
	if err != nil {
		return nil, err
	}
	return outbox.NewSender(outbox.Params{
		Transport: transport,
		Bus:       b,
		Logger:    logger.Named("outbox"),
		Buffer:    cfg.Outbox.Buffer,
		Health:    transportHealth(machine),
	}), nil
}

// transportHealth degrades the session while deliveries fail and restores
// it on the next success.
func transportHealth(machine *status.Machine) func(error) {
	return func(err error) {
		switch {
		case err != nil && machine.Current() == status.Ready:
			_ = machine.TransitionWithReason(status.Degraded, err.Error())
		case err == nil && machine.Current() == status.Degraded:
			_ = machine.Transition(status.Ready)
		}
	}
}

func provideHub(cfg *config.Config, db *store.DB, sender *outbox.Sender, machine *status.Machine, b *bus.Bus, logger *zap.Logger) (*hub.Hub, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if err := machine.TransitionWithReason(status.Seeding, "loading snapshot"); err != nil {
		return nil, err
	}
	if cfg.SeedSample {
		res, err := db.SeedSample(time.Now())
		if err != nil {
			return nil, fmt.Errorf("seed sample data: %w", err)
		}
		if !res.Skipped {
			logger.Info("sample data seeded", zap.Int("conversations", res.Conversations), zap.Int("messages", res.Messages))
		}
	}
	snap, err := db.LoadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	logger.Info("snapshot loaded", zap.Int("conversations", len(snap.Conversations)))

	return hub.New(hub.Params{
		Conversations: snap.Conversations,
		History:       snap.History,
		Location:      loc,
		Bus:           b,
		Logger:        logger.Named("hub"),
		Dispatch: func(conversationID string, m chat.Message) {
			// Enqueue logs and publishes a full queue itself.
			_, _ = sender.Enqueue(conversationID, m)
		},
	})
}

func provideSyncEngine(h *hub.Hub, b *bus.Bus, logger *zap.Logger) *intsync.Engine {
	return intsync.NewEngine(h, b, logger.Named("sync"))
}

func provideDropbox(p Params, b *bus.Bus, logger *zap.Logger) *intsync.Dropbox {
	return intsync.NewDropbox(session.InboxDir(p.SessionName), b, logger.Named("inbox"))
}

func provideConversationService(p Params, h *hub.Hub, engine *intsync.Engine, b *bus.Bus, logger *zap.Logger) *api.ConversationService {
	return api.NewConversationService(h, engine, b, p.SessionName, logger)
}

func provideThreadService(h *hub.Hub) *api.ThreadService {
	return api.NewThreadService(h)
}

func provideSessionService(p Params, m *status.Machine, h *hub.Hub, sender *outbox.Sender, db *store.DB) *api.SessionService {
	return api.NewSessionService(p.SessionName, m, h, sender, db)
}

// startPipeline starts the inbound engine, the outbox worker and the inbox
// watcher, then marks the session ready. On failure whatever already runs is
// stopped again in reverse order.
func startPipeline(engine *intsync.Engine, sender *outbox.Sender, inbox *intsync.Dropbox, machine *status.Machine) error {
	engine.Start(context.Background())
	sender.Start(context.Background())
	if err := inbox.Start(context.Background()); err != nil {
		sender.Stop()
		engine.Stop()
		return err
	}
	if err := machine.Transition(status.Ready); err != nil {
		inbox.Stop()
		sender.Stop()
		engine.Stop()
		return fmt.Errorf("mark ready: %w", err)
	}
	return nil
}

func registerLifecycle(lc fx.Lifecycle, srv *Server, lk *lock.Lock, db *store.DB, engine *intsync.Engine, inbox *intsync.Dropbox, sender *outbox.Sender, machine *status.Machine, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if err := startPipeline(engine, sender, inbox, machine); err != nil {
				return err
			}

			// Start gRPC server in background.
			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("gRPC server error", zap.Error(err))
					_ = machine.TransitionWithReason(status.Error, err.Error())
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			_ = machine.Transition(status.Stopping)
			srv.Stop(ctx)
			inbox.Stop()
			sender.Stop()
			engine.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
