package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"phonedeal-be/internal/api"
	"phonedeal-be/internal/config"
	"phonedeal-be/internal/db"
	"phonedeal-be/internal/deal"
	"phonedeal-be/internal/demo"
	"phonedeal-be/internal/geocode"
	"phonedeal-be/internal/logger"
	"phonedeal-be/internal/mapsync"
	"phonedeal-be/internal/metrics"
	"phonedeal-be/internal/middleware"
	"phonedeal-be/internal/naver"
	"phonedeal-be/internal/phone"
	"phonedeal-be/internal/review"
	"phonedeal-be/internal/seller"
	"phonedeal-be/internal/store"
	"phonedeal-be/internal/transport"

	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	initRedisFunc   = db.NewRedis
	startServerFunc = http.ListenAndServe
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, closeSources, err := openSources(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSources()

	router := newServer(ctx, cfg, src)

	addr := ":" + cfg.AppPort
	logger.L().Info("🚀 server running",
		zap.String("addr", addr),
		zap.String("data_source", cfg.DataSource),
		zap.Bool("geocoding", cfg.GeocodingEnabled()),
	)
	return startServerFunc(addr, router)
}

// sources are the repositories behind the services, either PostgreSQL or
// the embedded demo catalogue.
type sources struct {
	phones   phone.Repository
	sellers  seller.Repository
	reviews  review.Repository
	geoCache geocode.Cache
}

func openSources(ctx context.Context, cfg *config.Config) (*sources, func(), error) {
	var (
		src     = &sources{}
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.UseDemoData() {
		catalog, err := demo.Load()
		if err != nil {
			return nil, nil, err
		}
		src.phones = demo.NewPhoneRepository(catalog)
		src.sellers = demo.NewSellerRepository(catalog)
		src.reviews = review.NewMemoryRepository()
	} else {
		database := initDBFunc(cfg)
		closers = append(closers, func() { database.Close() })
		src.phones, src.sellers, src.reviews = postgresRepositories(database)
	}

	src.geoCache = geocode.NewMemoryCache(geocode.DefaultTTL)
	if cfg.RedisURL != "" {
		client, err := initRedisFunc(ctx, cfg.RedisURL)
		if err != nil {
			logger.L().Warn("redis unavailable, using in-memory geocode cache", zap.Error(err))
		} else {
			closers = append(closers, func() { client.Close() })
			src.geoCache = geocode.NewRedisCache(client, geocode.DefaultTTL)
		}
	}

	return src, closeAll, nil
}

func postgresRepositories(database *sql.DB) (phone.Repository, seller.Repository, review.Repository) {
	return phone.NewRepository(database), seller.NewRepository(database), review.NewRepository(database)
}

func newServer(ctx context.Context, cfg *config.Config, src *sources) http.Handler {
	phoneSvc := phone.NewService(src.phones)
	agg := deal.NewAggregator()
	dealSvc := deal.NewService(phoneSvc, src.sellers, agg)

	var geocoder geocode.Geocoder
	if cfg.GeocodingEnabled() {
		geocoder = naver.NewClient(cfg.NCPKeyID, cfg.NCPKey)
	}

	stats := api.Stats{Geocode: &metrics.Geocode{}, Search: &metrics.Search{}}
	resolver := geocode.NewResolver(geocoder, src.geoCache,
		geocode.WithConcurrency(cfg.GeocodeConcurrency),
		geocode.WithMetrics(stats.Geocode),
	)
	engine := store.NewEngine(store.WithLocation(cfg.Location()))
	storeSvc := store.NewService(phoneSvc, src.sellers, agg, resolver, engine,
		store.WithSearchMetrics(stats.Search),
	)

	var guard func(http.Handler) http.Handler
	if cfg.NearbyRequiresAuth {
		guard = middleware.RequireUser
	}

	h := api.NewHandler(api.Deps{
		Phones:      phoneSvc,
		Deals:       dealSvc,
		Stores:      storeSvc,
		Reviews:     review.NewService(src.reviews, src.sellers),
		Maps:        naver.NewMapLoader(cfg.NaverMapClientID),
		Sessions:    mapsync.NewRegistry(storeSvc, mapsync.DefaultSessionIdle),
		Stats:       stats,
		NearbyGuard: guard,
	})

	return setupRouter(h, cfg, middleware.NewRateLimiter(ctx, cfg.InternalSecretKey))
}

// setupRouter mounts the API and wraps it in the request pipeline:
// request id, session, auth, logging, then rate limiting.
func setupRouter(h *api.Handler, cfg *config.Config, limiter *middleware.RateLimiter) http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)

	var handler http.Handler = mux
	handler = limiter.Middleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.AuthMiddleware([]byte(cfg.JWTSecret))(handler)
	handler = transport.SessionMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)
	return handler
}
