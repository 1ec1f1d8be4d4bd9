package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/huddle-io/huddle/internal/database"
	"github.com/huddle-io/huddle/internal/email"
	"github.com/huddle-io/huddle/internal/fflags"
	"github.com/huddle-io/huddle/internal/handlers"
	"github.com/huddle-io/huddle/internal/routers"
	"github.com/huddle-io/huddle/internal/util"
	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.18.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc/credentials"
	"gorm.io/gorm"
)

// set by the build
var Version = "dev"

var tracer trace.Tracer

func init() {
	tracer = otel.Tracer("apiserver")
}

func main() {
	// Override to capitalize "Show"
	cli.HelpFlag.(*cli.BoolFlag).Usage = "Show help"
	app := &cli.Command{
		Name:    "apiserver",
		Usage:   "The huddle api server",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Value:   false,
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("HUDDLE_DEBUG"),
			},
			&cli.StringFlag{
				Name:    "listen",
				Value:   "0.0.0.0:8080",
				Usage:   "The address and port to listen for HTTP requests on",
				Sources: cli.EnvVars("HUDDLE_LISTEN"),
			},
			&cli.StringFlag{
				Name:    "frontend-url",
				Value:   "https://app.huddle.127.0.0.1.nip.io",
				Usage:   "Address of the web frontend, used in emailed links",
				Sources: cli.EnvVars("HUDDLE_FRONTEND_URL"),
			},
			&cli.StringSliceFlag{
				Name:    "origins",
				Usage:   "Origins allowed to call the api from a browser",
				Sources: cli.EnvVars("HUDDLE_ORIGINS"),
			},
			&cli.StringFlag{
				Name:     "signing-key",
				Usage:    "Key the HS256 bearer tokens are signed with",
				Sources:  cli.EnvVars("HUDDLE_SIGNING_KEY"),
				Required: true,
			},
			&cli.IntFlag{
				Name:    "max-concurrency",
				Value:   64,
				Usage:   "Maximum number of api requests served at once",
				Sources: cli.EnvVars("HUDDLE_MAX_CONCURRENCY"),
			},
			&cli.BoolFlag{
				Name:    "metrics",
				Value:   true,
				Usage:   "Serve prometheus metrics on /metrics",
				Sources: cli.EnvVars("HUDDLE_METRICS"),
			},
			&cli.StringFlag{
				Name:    "db-host",
				Value:   "apiserver-db",
				Usage:   "Database host name",
				Sources: cli.EnvVars("HUDDLE_DB_HOST"),
			},
			&cli.StringFlag{
				Name:    "db-port",
				Value:   "5432",
				Usage:   "Database port",
				Sources: cli.EnvVars("HUDDLE_DB_PORT"),
			},
			&cli.StringFlag{
				Name:    "db-user",
				Value:   "apiserver",
				Usage:   "Database user",
				Sources: cli.EnvVars("HUDDLE_DB_USER"),
			},
			&cli.StringFlag{
				Name:    "db-password",
				Value:   "secret",
				Usage:   "Database password",
				Sources: cli.EnvVars("HUDDLE_DB_PASSWORD"),
			},
			&cli.StringFlag{
				Name:    "db-name",
				Value:   "apiserver",
				Usage:   "Database name",
				Sources: cli.EnvVars("HUDDLE_DB_NAME"),
			},
			&cli.StringFlag{
				Name:    "db-sslmode",
				Value:   "disable",
				Usage:   "Database ssl mode",
				Sources: cli.EnvVars("HUDDLE_DB_SSLMODE"),
			},
			&cli.StringFlag{
				Name:    "db-sqlite-file",
				Usage:   "Use a sqlite database file instead of postgres, for local development",
				Sources: cli.EnvVars("HUDDLE_DB_SQLITE_FILE"),
			},
			&cli.StringFlag{
				Name:    "smtp-host-port",
				Usage:   "SMTP server used to send invitation emails",
				Sources: cli.EnvVars("HUDDLE_SMTP_HOST_PORT"),
			},
			&cli.StringFlag{
				Name:    "smtp-user",
				Usage:   "SMTP user",
				Sources: cli.EnvVars("HUDDLE_SMTP_USER"),
			},
			&cli.StringFlag{
				Name:    "smtp-password",
				Usage:   "SMTP password",
				Sources: cli.EnvVars("HUDDLE_SMTP_PASSWORD"),
			},
			&cli.BoolFlag{
				Name:    "smtp-tls",
				Usage:   "Connect to the SMTP server with TLS",
				Sources: cli.EnvVars("HUDDLE_SMTP_TLS"),
			},
			&cli.StringFlag{
				Name:    "smtp-from",
				Usage:   "Sender address of emails",
				Sources: cli.EnvVars("HUDDLE_SMTP_FROM"),
			},
			&cli.BoolFlag{
				Name:    "insecure-tls",
				Value:   false,
				Usage:   "Trust any TLS certificate",
				Sources: cli.EnvVars("HUDDLE_INSECURE_TLS"),
			},
			&cli.StringFlag{
				Name:    "trace-endpoint",
				Usage:   "OpenTelemetry collector endpoint",
				Sources: cli.EnvVars("HUDDLE_TRACE_ENDPOINT_OTLP"),
			},
			&cli.BoolFlag{
				Name:    "trace-insecure",
				Usage:   "Connect to the collector without TLS",
				Sources: cli.EnvVars("HUDDLE_TRACE_INSECURE"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			ctx, _ = signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)

			return withLoggerAndDB(ctx, command, func(logger *zap.Logger, db *gorm.DB) error {
				pprof_init(ctx, command, logger)

				ctx, span := tracer.Start(ctx, "Run")
				defer span.End()

				if err := database.Migrate(ctx, db); err != nil {
					return fmt.Errorf("failed to migrate the database: %w", err)
				}

				api, err := handlers.NewAPI(ctx, logger.Sugar(), db, fflags.NewFFlags(logger.Sugar()))
				if err != nil {
					return err
				}
				api.Version = Version
				api.FrontendURL = command.String("frontend-url")
				api.SmtpFrom = command.String("smtp-from")
				if hostPort := command.String("smtp-host-port"); hostPort != "" {
					smtpServer := email.SmtpServer{
						HostPort: hostPort,
						User:     command.String("smtp-user"),
						Password: command.String("smtp-password"),
					}
					if command.Bool("smtp-tls") { // #nosec G402
						smtpServer.Tls = &tls.Config{
							InsecureSkipVerify: command.Bool("insecure-tls"),
						}
					}
					api.Mailer = email.SmtpSender{Server: smtpServer}
				}

				router, err := routers.NewAPIRouter(ctx, routers.APIRouterOptions{
					Logger:         logger.Sugar(),
					Api:            api,
					SigningKey:     []byte(command.String("signing-key")),
					AllowedOrigins: command.StringSlice("origins"),
					MaxConcurrency: int(command.Int("max-concurrency")),
					Metrics:        command.Bool("metrics"),
				})
				if err != nil {
					return err
				}

				httpServer := &http.Server{
					Addr:              command.String("listen"),
					Handler:           router,
					ReadTimeout:       5 * time.Second,
					ReadHeaderTimeout: 5 * time.Second,
					WriteTimeout:      10 * time.Second,
				}
				defer util.IgnoreError(httpServer.Close)

				wg := &sync.WaitGroup{}
				serveErrors := make(chan error, 1)
				util.GoWithWaitGroup(wg, func() {
					logger.Sugar().Infow("serving", "address", httpServer.Addr, "version", Version)
					if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
						serveErrors <- err
					}
				})

				// Wait for a shutdown signal or a server error
				select {
				case err = <-serveErrors:
				case <-ctx.Done():
				}

				// Try to do a graceful shutdown for 5 seconds...
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil && err == nil {
					err = shutdownErr
				}
				wg.Wait()
				return err
			})
		},
	}
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations and exit",
		Action: func(ctx context.Context, command *cli.Command) error {
			return withLoggerAndDB(ctx, command, func(logger *zap.Logger, db *gorm.DB) error {
				return database.Migrate(ctx, db)
			})
		},
	})
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "rollback",
		Usage: "Rollback the last database migration",
		Action: func(ctx context.Context, command *cli.Command) error {
			return withLoggerAndDB(ctx, command, func(logger *zap.Logger, db *gorm.DB) error {
				return database.Rollback(ctx, db)
			})
		},
	})

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func getLogger(command *cli.Command) *zap.Logger {
	var logger *zap.Logger
	var err error
	// set the log level
	if command.Bool("debug") {
		logConfig := zap.NewProductionConfig()
		logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		logger, err = logConfig.Build()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal(err)
	}
	return logger
}

func withLoggerAndDB(ctx context.Context, command *cli.Command, f func(logger *zap.Logger, db *gorm.DB) error) error {
	logger := getLogger(command)
	defer util.IgnoreError(logger.Sync)

	cleanup := initTracer(logger.Sugar(), command.Bool("trace-insecure"), command.String("trace-endpoint"))
	defer func() {
		if cleanup == nil {
			return
		}
		if err := cleanup(ctx); err != nil {
			logger.Error(err.Error())
		}
	}()

	var db *gorm.DB
	var err error
	if file := command.String("db-sqlite-file"); file != "" {
		db, err = database.NewSqliteDatabase(logger.Sugar(), file)
	} else {
		db, err = database.NewDatabase(ctx, logger.Sugar(), database.Config{
			Host:     command.String("db-host"),
			User:     command.String("db-user"),
			Password: command.String("db-password"),
			Name:     command.String("db-name"),
			Port:     command.String("db-port"),
			SSLMode:  command.String("db-sslmode"),
		})
	}
	if err != nil {
		return err
	}
	return f(logger, db)
}

func initTracer(logger *zap.SugaredLogger, insecure bool, collector string) func(context.Context) error {
	if collector == "" {
		logger.Info("No collector endpoint configured")
		otel.SetTracerProvider(
			sdktrace.NewTracerProvider(
				sdktrace.WithSampler(sdktrace.AlwaysSample()),
			),
		)
		return nil
	}
	secureOption := otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, ""))
	if insecure {
		secureOption = otlptracegrpc.WithInsecure()
	}
	exporter, err := otlptrace.New(
		context.Background(),
		otlptracegrpc.NewClient(
			secureOption,
			otlptracegrpc.WithEndpoint(collector),
		),
	)
	if err != nil {
		logger.Errorf("Unable to create open telemetry exporter: %s", err.Error())
		return nil
	}
	resources, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", "apiserver"),
			attribute.String("library.language", "go"),
		),
	)
	if err != nil {
		logger.Errorf("Unable to create resources: %s", err.Error())
		return nil
	}

	deployEnvironment := os.Getenv("HUDDLE_ENVIRONMENT")
	if deployEnvironment == "" {
		deployEnvironment = "development"
	}

	otel.SetTracerProvider(
		sdktrace.NewTracerProvider(
			sdktrace.WithResource(resource.NewWithAttributes(
				semconv.SchemaURL,
				semconv.ServiceName("apiserver"),
				semconv.DeploymentEnvironment(deployEnvironment),
				semconv.ServiceVersion(Version),
			)),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(resources),
		),
	)
	return exporter.Shutdown
}
