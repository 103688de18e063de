package main

import (
	"context"
	"log"

	"blog-platform/cmd"
	"blog-platform/internal/data/repository"
	"blog-platform/internal/wire"
	"blog-platform/pkg/cooldown"
	"blog-platform/pkg/database"
	"blog-platform/pkg/notify"
	"blog-platform/pkg/token"
	"blog-platform/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx := context.Background()

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, database.DSN(config.Database)); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		logger.Info("Database migrations applied")
	}

	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	tokens := token.NewManager(config.JWT.Secret, config.JWT.TTL(), token.WithIssuer(config.App.Name))
	if !tokens.Configured() {
		logger.Error("JWT_SECRET is not set: logins will fail and every bearer token is rejected")
	}

	var throttle cooldown.Throttle
	if config.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, resend cooldown will fail open", zap.Error(err))
		}
		throttle = cooldown.New(rdb, config.OTP.ResendCooldown())
	} else {
		logger.Warn("REDIS_ADDR not set, verification resend is not throttled")
	}

	app := wire.Wiring(repos, tokens, gateway(config, logger), throttle, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}

// gateway assembles the configured notification channels. It returns nil when
// none is available so messages are dropped with a warning.
func gateway(config *utils.Config, logger *zap.Logger) notify.Gateway {
	fanout := notify.NewFanout()

	if config.Email.Enabled() {
		fanout.Add("email", notify.NewEmailGateway(config.Email, logger))
	} else {
		logger.Warn("SMTP settings missing, email delivery disabled")
	}

	if config.Telegram.Enabled() {
		fanout.Add("telegram", notify.NewTelegramGateway(config.Telegram, logger))
	} else {
		logger.Warn("Telegram settings missing, telegram delivery disabled")
	}

	if config.App.Debug {
		fanout.Add("log", notify.NewLogGateway(logger))
	}

	if fanout.Len() == 0 {
		logger.Warn("No notification channel configured, verification codes will not be delivered")
		return nil
	}
	return fanout
}
