package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"partnerdelivery/cmd"
	"partnerdelivery/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatalf("partnerdelivery: %v", err)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "partnerdelivery",
		Short:         "Delivery partner API: order pool, order lifecycle, wallet and zones",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			// A missing .env is fine; the environment may already be set.
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(newServeCommand(), newMigrateCommand(), newSeedOrdersCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background jobs",
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			config, logger, db, err := bootstrap()
			if err != nil {
				return err
			}
			if err = postgres.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			app, err := cmd.NewCompositionRoot(ctx, config, db, logger)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := app.Close(); closeErr != nil {
					logger.Warn("shutdown", "error", closeErr)
				}
			}()

			jobManager := app.CreateJobManager()
			if err = jobManager.StartAll(); err != nil {
				return err
			}
			defer jobManager.StopAll()

			return startWebServer(ctx, app, config.HTTPPort, logger)
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(*cobra.Command, []string) error {
			_, logger, db, err := bootstrap()
			if err != nil {
				return err
			}
			if err = postgres.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info("schema up to date")
			return nil
		},
	}
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) error {
	e := app.CreateHTTPServer().NewEcho()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", port)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// bootstrap reads the configuration and opens the database.
func bootstrap() (cmd.Config, *slog.Logger, *gorm.DB, error) {
	config, err := getConfigs()
	if err != nil {
		return cmd.Config{}, nil, nil, err
	}
	if err = config.Validate(); err != nil {
		return cmd.Config{}, nil, nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.LogLevel}))
	slog.SetDefault(logger)

	db, err := gorm.Open(postgresdriver.Open(config.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return cmd.Config{}, nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	return config, logger, db, nil
}

func getConfigs() (cmd.Config, error) {
	var problems []error
	config := cmd.Config{
		HTTPPort:                    envOr("HTTP_PORT", "8080"),
		DBHost:                      os.Getenv("DB_HOST"),
		DBPort:                      envOr("DB_PORT", "5432"),
		DBUser:                      os.Getenv("DB_USER"),
		DBPassword:                  os.Getenv("DB_PASSWORD"),
		DBName:                      os.Getenv("DB_NAME"),
		DBSslMode:                   envOr("DB_SSLMODE", "disable"),
		RedisURL:                    os.Getenv("REDIS_URL"),
		KafkaBrokers:                os.Getenv("KAFKA_BROKERS"),
		KafkaOrderChangedTopic:      os.Getenv("KAFKA_ORDER_CHANGED_TOPIC"),
		JWTSecret:                   os.Getenv("JWT_SECRET"),
		GraphHopperAPIKey:           os.Getenv("GRAPHHOPPER_API_KEY"),
		GraphHopperBaseURL:          os.Getenv("GRAPHHOPPER_BASE_URL"),
		StatusNormalizationSchedule: os.Getenv("STATUS_NORMALIZATION_SCHEDULE"),
		CapAuditSchedule:            os.Getenv("CAP_AUDIT_SCHEDULE"),
	}

	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			problems = append(problems, fmt.Errorf("SESSION_TTL: %w", err))
		}
		config.SessionTTL = ttl
	}
	if raw := os.Getenv("REQUIRE_VERIFICATION"); raw != "" {
		require, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Errorf("REQUIRE_VERIFICATION: %w", err))
		}
		config.RequireVerification = require
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := config.LogLevel.UnmarshalText([]byte(strings.ToUpper(raw))); err != nil {
			problems = append(problems, fmt.Errorf("LOG_LEVEL: %w", err))
		}
	}

	return config, errors.Join(problems...)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
