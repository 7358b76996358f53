package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/royal-guard/royalguard/internal/api"
	"github.com/royal-guard/royalguard/internal/app/family"
	"github.com/royal-guard/royalguard/internal/app/gacha"
	"github.com/royal-guard/royalguard/internal/domain"
	"github.com/royal-guard/royalguard/internal/health"
	"github.com/royal-guard/royalguard/internal/infra/events"
	"github.com/royal-guard/royalguard/internal/infra/logging"
	"github.com/royal-guard/royalguard/internal/infra/sqlite"
)

// Daemon is the Royal Guard runtime. It wires together all services.
type Daemon struct {
	Config Config
	Log    *zap.Logger
	DB     *sqlite.DB
	Family *family.Service
	Server *api.Server
	Health *health.Checker
	Events domain.ChangePublisher

	redis  *events.RedisPublisher
	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	loc, _ := cfg.Game.Location()

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, "royalguard")
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	dir := cfg.Storage.Dir
	if dir == "" {
		dir = royalguardHome()
	}
	db, err := sqlite.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &Daemon{
		Config: cfg,
		Log:    log,
		DB:     db,
		Events: events.Nop{},
		Health: health.NewChecker(db, dir, log),
	}

	// Change events degrade to a no-op when Redis is unreachable.
	if cfg.Events.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pub, err := events.NewRedisPublisher(ctx, cfg.Events.RedisAddr, cfg.Events.Channel, log)
		cancel()
		if err != nil {
			log.Warn("change events disabled", zap.String("redis_addr", cfg.Events.RedisAddr), zap.Error(err))
		} else {
			d.redis = pub
			d.Events = pub
			d.Health.AddCheck(health.Check{Name: "redis", CheckFn: pub.Ping})
		}
	}

	d.Family = family.NewService(db, family.Options{
		Location:   loc,
		MaxRetries: cfg.Game.MaxRetries,
		Random:     gacha.NewSource(cfg.Game.Seed),
		Publisher:  d.Events,
		Logger:     log,
	})

	d.Server = api.NewServer(d.Family, log)
	d.Server.SetHealth(d.Health)
	d.Server.SetCORSOrigins(cfg.API.CORSOrigins)
	if cfg.Telemetry.Prometheus {
		d.Server.EnableMetrics()
	}

	return d, nil
}

// Addr is the listen address built from the API config.
func (d *Daemon) Addr() string {
	return net.JoinHostPort(d.Config.API.Host, strconv.Itoa(d.Config.API.Port))
}

// Serve runs the HTTP API until ctx is done or SIGINT/SIGTERM arrives.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := d.Addr()
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Royal Guard serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}
	d.Log.Info("api listening", zap.String("addr", addr))

	err := httpServer.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		cancel()
		return err
	}
	<-done
	d.Log.Info("api stopped")
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
	if d.Log != nil {
		_ = d.Log.Sync()
	}
}
