package app

import (
	"context"
	"fmt"
	"log/slog"

	"student-orm/internal/config"
	"student-orm/internal/db"
	"student-orm/internal/kafka"
	"student-orm/internal/messaging"
	"student-orm/internal/metrics"
	"student-orm/internal/student"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

// Components are the persistence pieces shared by the server and the CLI tools.
type Components struct {
	DB         *bun.DB
	Mapper     *student.Mapper
	Repository student.Repository
	Service    student.Service
	Metrics    *metrics.Metrics

	closers []func() error
}

// Build connects to the store, synchronizes the schema and wires the student
// repository and service.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	mode, err := db.ParseSchemaMode(cfg.Database.SchemaMode)
	if err != nil {
		return nil, err
	}
	strategy, err := student.ParseIDStrategy(cfg.Mapping.IDStrategy)
	if err != nil {
		return nil, err
	}
	mapper, err := student.NewMapper(student.MapperConfig{
		IDStrategy:    strategy,
		NameMaxLength: cfg.Mapping.NameMaxLength,
	})
	if err != nil {
		return nil, err
	}

	meter := otel.Meter(ServiceName)
	m, err := metrics.New(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		return nil, err
	}
	c := &Components{
		DB:      database,
		Mapper:  mapper,
		Metrics: m,
	}
	c.closers = append(c.closers, database.Close)

	if err := m.Database.RegisterDB(database.DB, meter); err != nil {
		logger.Warn("failed to register database pool metrics", "error", err)
	}

	if err := db.SyncSchema(ctx, database, mode, (*student.Table)(nil)); err != nil {
		c.Close()
		return nil, err
	}

	publisher := newPublisher(cfg.Messaging, logger, c)

	c.Repository = student.NewRepository(database, mapper, m)
	c.Service = student.NewService(c.Repository, publisher, logger)

	logger.Info("persistence initialized",
		"driver", cfg.Database.Driver,
		"schema_mode", string(mode),
		"id_strategy", string(strategy),
	)
	return c, nil
}

// newPublisher connects to the configured broker. A broker that cannot be
// reached is logged and events are dropped.
func newPublisher(cfg config.MessagingConfig, logger *slog.Logger, c *Components) student.Publisher {
	switch cfg.Driver {
	case "nats":
		p, err := messaging.NewProducer(cfg.URL, cfg.Subject, logger)
		if err != nil {
			logger.Warn("failed to initialize NATS producer", "error", err)
			return nil
		}
		c.closers = append(c.closers, p.Close)
		return countingPublisher{next: p, metrics: c.Metrics}
	case "kafka":
		p, err := kafka.NewProducer(cfg.Brokers, cfg.Topic, logger)
		if err != nil {
			logger.Warn("failed to initialize kafka producer", "error", err)
			return nil
		}
		c.closers = append(c.closers, p.Close)
		return countingPublisher{next: p, metrics: c.Metrics}
	case "", "none":
		return nil
	}
	logger.Warn("unknown messaging driver, events disabled", "driver", cfg.Driver)
	return nil
}

type countingPublisher struct {
	next    student.Publisher
	metrics *metrics.Metrics
}

func (p countingPublisher) Publish(ctx context.Context, key string, event any) error {
	if err := p.next.Publish(ctx, key, event); err != nil {
		return err
	}
	p.metrics.RecordEventPublished(ctx)
	return nil
}

// Close releases broker connections first, then the database.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			slog.Warn("failed to close resource", "error", err)
		}
	}
	c.closers = nil
}
