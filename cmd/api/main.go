package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/awesome-computers/store-membership-api/internal/adapters/httpapi"
	memidempotency "github.com/awesome-computers/store-membership-api/internal/adapters/memory/idempotency"
	postgres "github.com/awesome-computers/store-membership-api/internal/adapters/postgres"
	pgidempotency "github.com/awesome-computers/store-membership-api/internal/adapters/postgres/idempotency"
	"github.com/awesome-computers/store-membership-api/internal/app/membership"
	"github.com/awesome-computers/store-membership-api/internal/platform/auth/basicauth"
	platformclock "github.com/awesome-computers/store-membership-api/internal/platform/clock"
	"github.com/awesome-computers/store-membership-api/internal/platform/config"
	"github.com/awesome-computers/store-membership-api/internal/platform/logging"
	platformrandom "github.com/awesome-computers/store-membership-api/internal/platform/random"
	clockport "github.com/awesome-computers/store-membership-api/internal/ports/out/clock"
	idempotencyport "github.com/awesome-computers/store-membership-api/internal/ports/out/idempotency"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logrus.Fatalf("invalid config: %v", err)
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		logrus.Fatalf("invalid log config: %v", err)
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	creds := basicauth.CredentialsFromConfig(cfg.BasicAuth)
	verifier, err := basicauth.New(creds)
	if err != nil {
		log.Fatalf("invalid auth config: %v", err)
	}
	if creds.Insecure() {
		log.Warn("basic auth password is configured in plaintext; set BASIC_AUTH_PASSWORD_HASH (see cmd/hashpw) outside local development")
	}

	clk := platformclock.NewSystemClock()

	var (
		idemStore idempotencyport.Store
		cleanup   func()
	)
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pc, _ := cfg.Pool()
		pool, err := postgres.NewPool(ctx, cfg.Storage.DatabaseURL, postgres.PoolOptions{
			MaxConns:          pc.MaxConns,
			MinConns:          pc.MinConns,
			MaxConnLifetime:   pc.MaxConnLifetime,
			HealthCheckPeriod: pc.HealthCheckPeriod,
			ConnectTimeout:    pc.ConnectTimeout,
		})
		if err != nil {
			log.Fatalf("invalid postgres config: %v", err)
		}
		cleanup = pool.Close
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			log.Fatalf("migrate: %v", err)
		}
		idemStore = pgidempotency.NewStore(pool)
	default:
		idemStore = memidempotency.NewStore()
	}
	if cleanup != nil {
		defer cleanup()
	}

	if ttl, _ := cfg.IdempotencyTTL(); ttl > 0 {
		if p, ok := idemStore.(idempotencyport.Pruner); ok {
			go runIdempotencyPruner(ctx, log, p, clk, ttl)
		}
	}

	loc, _ := cfg.Location()
	svc := membership.NewService(clk, platformrandom.NewSystemSource(), membership.WithLocation(loc))
	svc.WindowDays = cfg.Membership.WindowDays

	api := httpapi.NewServer(svc, idemStore, clk)

	var limiter *rate.Limiter
	if cfg.RateLimit.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	}

	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		AuthMiddleware: httpapi.NewAuthMiddleware(verifier, cfg.BasicAuth.Realm),
		RateLimiter:    limiter,
		Logger:         log,
	})

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		go watchConfig(ctx, log, path, verifier, limiter)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":    cfg.Port,
			"storage": cfg.Storage.Backend,
		}).Info("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// watchConfig applies credential and rate limit changes from the config file without a
// restart. Storage and port changes still need one.
func watchConfig(ctx context.Context, log *logrus.Logger, path string, verifier *basicauth.Verifier, limiter *rate.Limiter) {
	err := config.Watch(ctx, path,
		func(cfg config.Config) {
			if err := verifier.SetCredentials(basicauth.CredentialsFromConfig(cfg.BasicAuth)); err != nil {
				log.WithError(err).Error("config reload: credentials rejected")
				return
			}
			if limiter != nil && cfg.RateLimit.RPS > 0 {
				limiter.SetLimit(rate.Limit(cfg.RateLimit.RPS))
				limiter.SetBurst(cfg.RateLimit.Burst)
			}
			log.WithField("file", path).Info("config reloaded")
		},
		func(err error) {
			log.WithError(err).Warn("config reload failed; keeping previous settings")
		},
	)
	if err != nil && ctx.Err() == nil {
		log.WithError(err).Error("config watcher stopped")
	}
}

func runIdempotencyPruner(ctx context.Context, log *logrus.Logger, p idempotencyport.Pruner, clk clockport.Clock, ttl time.Duration) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := p.DeleteOlderThan(ctx, clk.Now().Add(-ttl))
			if err != nil {
				log.WithError(err).Warn("idempotency prune failed")
				continue
			}
			if n > 0 {
				log.WithField("deleted", n).Debug("idempotency records pruned")
			}
		}
	}
}
