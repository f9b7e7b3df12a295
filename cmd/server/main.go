package main

import (
	"campus-activity-service/internal/adapters/cache"
	"campus-activity-service/internal/adapters/geocoding"
	"campus-activity-service/internal/adapters/gmaps"
	"campus-activity-service/internal/adapters/maprender"
	"campus-activity-service/internal/adapters/places"
	"campus-activity-service/internal/adapters/repositories"
	"campus-activity-service/internal/api"
	"campus-activity-service/internal/api/handlers"
	"campus-activity-service/internal/auth"
	"campus-activity-service/internal/config"
	"campus-activity-service/internal/discovery"
	"campus-activity-service/internal/platform/db"
	"campus-activity-service/internal/ports"
	"campus-activity-service/internal/services"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// Geocode results rarely change; keep them a month in Redis.
const redisGeocodeTTL = 30 * 24 * time.Hour

// main is the application composition root.
// It wires concrete adapters (SQL store, Google Maps, ORS, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	conn, err := openDB(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(conn, cfg.DBDriver, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	eventRepo := repositories.NewSQLEventRepository(conn, cfg.DBDriver)
	userRepo := repositories.NewSQLUserRepository(conn, cfg.DBDriver)

	var tokens *auth.Tokens
	if cfg.JWTSecret != "" {
		if tokens, err = auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL); err != nil {
			log.Fatal(err)
		}
	} else {
		log.Println("JWT_SECRET not set: event mutations are not authenticated")
	}

	geoCache, closeCache, err := newGeocodeCache(cfg, conn)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	nearby := &handlers.NearbyHandler{
		Renderer: maprender.NewRenderer(cfg.MapsAPIKey),
		Campus:   cfg.Campus,
	}

	if cfg.MapsAPIKey == "" {
		log.Println("GOOGLE_MAPS_API_KEY not set: nearby search and map rendering are unavailable")
	} else {
		search, err := newSearchClient(cfg, eventRepo, geoCache)
		if err != nil {
			log.Fatal(err)
		}
		nearby.Search = search
	}

	router := api.NewRouter(api.Deps{
		Events: services.NewEventService(eventRepo),
		Auth:   services.NewAuthService(userRepo, tokens),
		Users:  services.NewUserService(userRepo),
		Nearby: nearby,
		Store:  conn,
	})

	// Timeouts allow for cold-cache geocoding on events searches.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server listening addr=:%s db=%s geocoder=%s", cfg.Port, cfg.DBDriver, cfg.Geocoder)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func openDB(cfg config.Config) (*sql.DB, error) {
	if cfg.DBDriver == db.Postgres {
		return db.Open(cfg.DatabaseURL)
	}
	return db.OpenSQLite(cfg.DBPath)
}

func initAndSeed(conn *sql.DB, dialect db.Dialect, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(conn, dialect, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// newGeocodeCache prefers Redis when REDIS_URL is set and falls back to the
// geocode_cache table otherwise.
func newGeocodeCache(cfg config.Config, conn *sql.DB) (ports.GeocodeCache, func(), error) {
	if cfg.RedisURL == "" {
		return cache.NewSQLGeocodeCache(conn, cfg.DBDriver), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	return cache.NewRedisGeocodeCache(client, redisGeocodeTTL), func() { client.Close() }, nil
}

func newSearchClient(
	cfg config.Config,
	events ports.EventLister,
	geoCache ports.GeocodeCache,
) (*discovery.SearchClient, error) {
	client, err := gmaps.NewClient(cfg.MapsAPIKey)
	if err != nil {
		return nil, err
	}

	provider, err := places.NewGooglePlacesProvider(client)
	if err != nil {
		return nil, err
	}

	var upstream ports.Geocoder
	switch cfg.Geocoder {
	case "ors":
		upstream, err = geocoding.NewORSGeocoder(cfg.ORSKey)
	default:
		upstream, err = geocoding.NewGoogleGeocoder(client)
	}
	if err != nil {
		return nil, err
	}

	geocoder, err := geocoding.NewCachedGeocoder(upstream, geoCache)
	if err != nil {
		return nil, err
	}

	return discovery.NewSearchClient(
		provider,
		events,
		geocoder,
		discovery.NewSynthesizer(uint64(time.Now().UnixNano()), nil),
	)
}
