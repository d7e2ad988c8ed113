package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotelavail/internal/bot"
	"hotelavail/internal/config"
	"hotelavail/internal/domain"
	"hotelavail/internal/export"
	"hotelavail/internal/logging"
	"hotelavail/internal/metrics"
	"hotelavail/internal/repository"
	"hotelavail/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := cfg.ValidateTelegram(); err != nil {
		logger.Error().Err(err).Msg("invalid telegram config")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go func() {
			if err := metrics.Serve(ctx, cfg.Monitoring.PrometheusPort, &logger); err != nil {
				logger.Error().Err(err).Msg("metrics server error")
			}
		}()
	}

	cat, err := service.LoadCatalog(ctx, cfg.Data, &logger)
	if err != nil {
		logger.Error().Err(err).Str("source", cfg.Data.Source).Msg("load catalog")
		return err
	}

	redisClient, stateService := initStateService(ctx, cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	checker := service.NewAvailabilityService(cat, &logger)
	exporter := export.NewExporter(cfg.Exports.Path, &logger)

	return startBot(ctx, cfg, stateService, checker, exporter, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := logging.Component(baseLogger, "bot-main")

	return cfg, logger, closer, nil
}

// initStateService keeps form state in Redis when configured, falling back to
// process memory whenever Redis fails.
func initStateService(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *service.StateService) {
	ttl := time.Duration(cfg.Bot.StateTTL) * time.Second
	fallbackRepo := repository.NewMemoryStateRepository(ttl)

	if cfg.Redis.Address == "" {
		logger.Info().Msg("Redis not configured, keeping form state in memory")
		return nil, service.NewStateService(fallbackRepo, logger)
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if errPing := repository.Ping(ctx, redisClient); errPing != nil {
		logger.Warn().Err(errPing).Msg("Redis unavailable")
	}

	primaryRepo := repository.NewRedisStateRepository(redisClient, ttl, cfg.Redis.KeyPrefix)
	stateRepo := repository.NewFailoverStateRepository(primaryRepo, fallbackRepo, logger)
	return redisClient, service.NewStateService(stateRepo, logger)
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	stateService *service.StateService,
	checker domain.AvailabilityChecker,
	exporter domain.ReportExporter,
	logger *zerolog.Logger,
) error {
	botAPI, err := bot.NewBotAPI(cfg.Telegram)
	if err != nil {
		logger.Error().Err(err).Msg("create bot api")
		return err
	}

	tgService := service.NewTelegramService(botAPI)

	telegramBot, err := bot.NewBot(tgService, cfg, stateService, checker, exporter, logger)
	if err != nil {
		logger.Error().Err(err).Msg("create bot")
		return err
	}

	go func() {
		<-ctx.Done()
		telegramBot.Stop()
	}()

	logger.Info().Msg("bot started")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}
