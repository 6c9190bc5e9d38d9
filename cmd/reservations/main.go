package main

import (
	"context"

	"marquee/internal/reservations/handler"
	"marquee/internal/reservations/lock"
	"marquee/internal/reservations/repository"
	"marquee/internal/reservations/service"
	"marquee/internal/reservations/validator"
	"marquee/pkg/app"
	"marquee/pkg/config"
	"marquee/pkg/events"
	"marquee/pkg/kv"
	"marquee/pkg/model"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	ctx := context.Background()

	serverApp := app.New(cfg)

	store := initStore(ctx, cfg, serverApp)
	publisher := initPublisher(cfg, serverApp)

	reservationService := service.NewReservationService(
		repository.NewCatalogRepository(store),
		repository.NewBookingRepository(store),
		lock.NewManager(store, cfg.LockLease, cfg.Log),
		publisher,
		cfg.Log,
	)

	if err := reservationService.Seed(ctx, loadCatalogs(cfg)); err != nil {
		cfg.Log.Fatal("Failed to seed catalogs", "error", err)
	}

	cfg.Log.Info("Starting Reservations service")
	serverApp.SetApp(store, handler.NewReservationHandler(reservationService, cfg.DefaultCatalogID, cfg.Log))
	serverApp.Run()
}

func initStore(ctx context.Context, cfg *config.Config, serverApp *app.Application) kv.Store {
	switch cfg.StoreBackend {
	case config.StoreBackendMongo:
		store, err := kv.NewMongoStore(ctx, kv.MongoConfig{
			URI:         cfg.MongoURI,
			Database:    cfg.MongoDatabaseName,
			Collection:  cfg.MongoCollection,
			ConnTimeout: cfg.MongoConnTimeout,
		})
		if err != nil {
			cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		serverApp.OnShutdown(func() {
			if err := store.Close(context.Background()); err != nil {
				cfg.Log.Error("Failed to close MongoDB connection", "error", err)
			}
		})
		cfg.Log.Info("Store initialized", "backend", cfg.StoreBackend)
		return store

	case config.StoreBackendMemory:
		cfg.Log.Warn("Using in-memory store; state will not survive restarts")
		return kv.NewMemoryStore()

	default:
		store := kv.NewRedisStore(kv.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := store.Ping(ctx); err != nil {
			cfg.Log.Fatal("Failed to connect to Redis", "error", err)
		}
		serverApp.OnShutdown(func() {
			if err := store.Close(); err != nil {
				cfg.Log.Error("Failed to close Redis connection", "error", err)
			}
		})
		cfg.Log.Info("Store initialized", "backend", cfg.StoreBackend)
		return store
	}
}

func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Event publishing disabled, no Kafka brokers configured")
		return events.NopPublisher{}
	}

	producer, err := events.NewProducer(events.ProducerConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
		Source:  ServiceName,
	})
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})
	cfg.Log.Info("Event publishing enabled", "topic", cfg.KafkaTopic)
	return producer
}

func loadCatalogs(cfg *config.Config) []*model.Catalog {
	if cfg.CatalogSeedFile == "" {
		return service.DefaultCatalogs(cfg.DefaultCatalogID)
	}

	catalogValidator := validator.NewCatalogValidator(cfg.Log)
	catalogs, err := service.LoadCatalogs(cfg.CatalogSeedFile, catalogValidator)
	if err != nil {
		cfg.Log.Fatal("Failed to load catalog seed file",
			"file", cfg.CatalogSeedFile,
			"error", err,
		)
	}
	return catalogs
}
