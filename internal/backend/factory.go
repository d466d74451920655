package backend

import (
	"context"
	"fmt"

	"salesdash/internal/amqp"
	"salesdash/internal/journal"
	"salesdash/internal/journal/memory"
	"salesdash/internal/log"
	"salesdash/internal/services"
	"salesdash/internal/storage"
)

// PublisherDialer opens an AMQP publisher.
type PublisherDialer func(url, exchange, queue string) (services.Publisher, error)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
	dial   PublisherDialer
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) *DefaultFactory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentJournal),
		dial:   dialAMQP,
	}
}

func dialAMQP(url, exchange, queue string) (services.Publisher, error) {
	return amqp.NewClient(url, exchange, queue)
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	j, err := f.createJournal(config)
	if err != nil {
		return nil, err
	}

	// AMQP is optional: a broker outage at startup only disables publishing.
	var publisher services.Publisher
	if config.AMQPURL != "" {
		publisher, err = f.dial(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without publishing",
				log.FieldErrorType, log.ErrorTypeNetwork, log.FieldError, err)
			publisher = nil
		} else {
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	activity := services.NewActivityService(j, publisher)

	f.logger.InfoContext(ctx, "Initialized activity journal",
		"backend", config.Type.String(),
		"amqp_enabled", publisher != nil)

	return &BackendResult{
		Activity: activity,
		Cleanup:  activity.Close,
	}, nil
}

func (f *DefaultFactory) createJournal(config Config) (journal.Journal, error) {
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewJournalRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite journal: %w", err)
		}
		return repo, nil
	case MemoryBackend:
		return memory.New(config.Capacity), nil
	case NoneBackend:
		return journal.Nop{}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
