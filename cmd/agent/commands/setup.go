package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/taskpilot/taskpilot/internal/agent"
	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/internal/logger"
	"github.com/taskpilot/taskpilot/internal/scheduler"
	"github.com/taskpilot/taskpilot/internal/services/classifier"
	"github.com/taskpilot/taskpilot/internal/storage"
	"go.uber.org/zap"
)

// newEngine wires storage, the classifier, and the agent engine from
// environment configuration. The returned cleanup closes the storage
// backend and flushes the logger.
func newEngine(ctx context.Context, debugMode bool) (*agent.Engine, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	zapLogger, err := logger.NewDevelopmentLogger(debugMode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := storage.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var cls classifier.Classifier
	if cfg.OpenAIKey != "" {
		cls = classifier.NewOpenAIClassifierWithLogger(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, zapLogger, debugMode)
	}

	engine, err := agent.NewEngine(ctx, store, cls, agent.Options{
		WorkdayEnd:      scheduler.WorkdayEnd{Hour: cfg.WorkdayEndHour, Minute: cfg.WorkdayEndMinute},
		ClassifyTimeout: time.Duration(cfg.ClassifierTimeout) * time.Second,
		Logger:          zapLogger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize engine: %w", err)
	}

	cleanup := func() {
		if closer, ok := store.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				zapLogger.Warn("failed_to_close_storage", zap.Error(err))
			}
		}
		_ = logger.Sync(zapLogger)
	}
	return engine, cleanup, nil
}
