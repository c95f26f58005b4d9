package main

import (
	"agendo/internal/bookings/cache"
	"agendo/internal/bookings/events"
	"agendo/internal/bookings/handler"
	"agendo/internal/bookings/repository"
	"agendo/internal/bookings/schedule"
	"agendo/internal/bookings/service"
	"agendo/internal/bookings/validator"
	"agendo/pkg/app"
	"agendo/pkg/config"
	"agendo/pkg/kafka"
	kafka_config "agendo/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Bookings service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	serverApp := app.NewApplication(cfg)
	bookingService := initServices(cfg, serverApp)

	serverApp.SetApp(
		handler.NewBookingHandler(bookingService, cfg),
		handler.NewHealthHandler(cfg),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, serverApp *app.Application) service.BookingService {
	template, err := schedule.NewTemplate(cfg.WorkdayStart, cfg.WorkdayEnd, cfg.SlotDurationMin)
	if err != nil {
		cfg.Log.Fatal("Invalid schedule template configuration", "error", err)
	}

	availabilityCache := cache.NewAvailabilityCache(cfg.AvailabilityCacheTTL, cfg.AvailabilityCacheSize)
	serverApp.OnShutdown(availabilityCache.Stop)

	bookingService := service.NewBookingService(
		repository.NewMongoBookingRepository(cfg),
		validator.NewBookingValidator(cfg.Log),
		template,
		availabilityCache,
		initPublisher(cfg, serverApp),
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	if cfg.BookingEventsTopic == "" {
		cfg.Log.Info("Booking event publishing disabled")
		return events.NewNopPublisher()
	}

	kafkaCfg := kafka_config.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka producer", "error", err)
		}
	})

	cfg.Log.Info("Booking event publishing enabled", "topic", cfg.BookingEventsTopic)
	return events.NewKafkaPublisher(producer, cfg.Log)
}
