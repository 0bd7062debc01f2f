package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/JZwlth/iotauth/pkg/config"
	"github.com/JZwlth/iotauth/pkg/observability"
)

// run is the main entry point after CLI parsing.
func run(opts Options) int {
	if opts.ConfigPath == "" {
		_, _ = os.Stderr.WriteString("entityconf: -config is required\n")
		return 1
	}

	logger, err := observability.Setup(observability.Options{
		Level:       opts.LogLevel,
		Format:      opts.LogFormat,
		Outputs:     []string{"stderr"},
		Development: true,
	})
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()

	var report config.LoadReport
	cfg, err := config.Load(opts.ConfigPath,
		config.WithLogger(logger), config.WithReport(&report))
	if err != nil {
		logger.Error("failed to load config", zap.String("path", opts.ConfigPath), zap.Error(err))
		return 1
	}
	logRecord(logger, cfg, &report)

	if opts.Validate {
		if err := cfg.Validate(); err != nil {
			logger.Error("config invalid", zap.Error(err))
			return 1
		}
		logger.Info("config valid")
	}

	if !opts.Watch {
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = config.Watch(ctx, opts.ConfigPath, func(c *config.Config) {
		logRecord(logger, c, nil)
		if opts.Validate {
			if err := c.Validate(); err != nil {
				logger.Warn("config invalid", zap.Error(err))
			}
		}
	}, config.WithLogger(logger))
	if err != nil {
		logger.Error("watch failed", zap.Error(err))
		return 1
	}
	return 0
}

// logRecord dumps the effective record.
func logRecord(logger *zap.Logger, c *config.Config, r *config.LoadReport) {
	fields := []zap.Field{
		zap.String("name", c.Name),
		zap.String("purpose", c.Purpose),
		zap.String("num_key", c.NumKey),
		zap.String("auth_pubkey_path", c.AuthPubkeyPath),
		zap.String("entity_privkey_path", c.EntityPrivkeyPath),
		zap.String("auth_addr", c.AuthIPAddress+":"+c.AuthPort),
		zap.String("server_addr", c.ServerIPAddress+":"+c.ServerPort),
		zap.String("protocol", c.NetworkProtocol),
	}
	if r != nil {
		fields = append(fields, zap.Int("keys_seen", r.KeysSeen))
		if len(r.Truncated) > 0 {
			fields = append(fields, zap.Strings("truncated", r.Truncated))
		}
	}
	logger.Info("entity configuration", fields...)
}
