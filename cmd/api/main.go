package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"profit-forecast/internal/api/routes"
	"profit-forecast/internal/data"
	"profit-forecast/internal/logging"
	"profit-forecast/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// no .env is fine; the process environment is used as is
		fmt.Fprintln(os.Stderr, "no .env file, using environment variables directly")
	}
	logging.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT") == "console")

	port := envOr("API_PORT", "8080")

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New()
	if err := m.Register(reg); err != nil {
		log.Fatal().Err(err).Msg("register metrics")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("open result store")
	}
	defer store.Close()

	routes.SetupRoutes(router, routes.Deps{
		Store:       store,
		Metrics:     m,
		Gatherer:    reg,
		Limiter:     newLimiter(),
		ProductDir:  os.Getenv("PRODUCT_DIR"),
		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// openStore uses Redis when REDIS_ADDR is set, otherwise an in-process store.
func openStore(ctx context.Context) (data.ResultStore, error) {
	ttl := time.Hour
	if v := os.Getenv("RESULT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("RESULT_TTL: %w", err)
		}
		ttl = d
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Info().Dur("ttl", ttl).Msg("using in-memory result store")
		return data.NewMemoryStore(ttl, time.Minute), nil
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("REDIS_DB: %w", err)
		}
		db = n
	}
	store, err := data.NewRedisStore(ctx, addr, os.Getenv("REDIS_PASSWORD"), db, ttl)
	if err != nil {
		return nil, err
	}
	log.Info().Str("addr", addr).Int("db", db).Dur("ttl", ttl).Msg("using redis result store")
	return store, nil
}

// newLimiter returns nil (no limit) unless RATE_LIMIT_RPS is a positive number.
func newLimiter() *rate.Limiter {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return nil
	}
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		burst = int(rps)
		if burst < 1 {
			burst = 1
		}
	}
	log.Info().Float64("rps", rps).Int("burst", burst).Msg("rate limit enabled")
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
