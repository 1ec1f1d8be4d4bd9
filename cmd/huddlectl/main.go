package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/querycache"
	"github.com/huddle-io/huddle/internal/state"
	"github.com/huddle-io/huddle/internal/state/fstore"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	encodeJsonRaw    = "json-raw"
	encodeJsonPretty = "json"
	encodeYaml       = "yaml"
	encodeNoHeader   = "no-header"
	encodeColumn     = "column"
)

// Version is set using ldflags at build time.
var Version = "dev"

// DefaultServiceURL is optionally set at build time using ldflags
var DefaultServiceURL = "http://localhost:8080"

func main() {
	// Override usage to capitalize "Show"
	cli.HelpFlag.(*cli.BoolFlag).Usage = "Show help"
	app := &cli.Command{
		Name:  "huddlectl",
		Usage: "manages the organizations, seats and teams of a huddle server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Value:   false,
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("HUDDLECTL_DEBUG"),
			},
			&cli.StringFlag{
				Name:    "host",
				Usage:   "Api server URL, defaults to the URL saved by login",
				Sources: cli.EnvVars("HUDDLE_API_URL"),
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Bearer token, defaults to the token saved by login",
				Sources: cli.EnvVars("HUDDLE_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "credentials-file",
				Value:   defaultCredentialsFile(),
				Usage:   "File the login command saves credentials to",
				Sources: cli.EnvVars("HUDDLECTL_CREDENTIALS_FILE"),
			},
			&cli.StringFlag{
				Name:    "cache-redis",
				Usage:   "Address of a redis server to share the query cache through",
				Sources: cli.EnvVars("HUDDLECTL_CACHE_REDIS"),
			},
			&cli.StringFlag{
				Name:     "output",
				Value:    encodeColumn,
				Required: false,
				Usage:    "Output format: json, json-raw, yaml, no-header, column (default columns)",
			},
			&cli.BoolFlag{
				Name:     "insecure-skip-tls-verify",
				Value:    false,
				Usage:    "If true, server certificates will not be checked for validity. This will make your HTTPS connections insecure",
				Required: false,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "Get the version of huddlectl",
				Action: func(ctx context.Context, command *cli.Command) error {
					fmt.Printf("version: %s\n", Version)
					return nil
				},
			},
			createLoginCommand(),
			createLogoutCommand(),
			createWhoamiCommand(),
			createTokenCommand(),
			createOrganizationCommand(),
			createSubscriptionCommand(),
			createProfileCommand(),
			createSeatCommand(),
			createUserCommand(),
			createCourseCommand(),
			createOrgCourseCommand(),
			createTeamCommand(),
			createFeedbackCommand(),
			createInvitationCommand(),
			createAdminCommand(),
		},
	}

	sort.Slice(app.Commands, func(i, j int) bool {
		return app.Commands[i].Name < app.Commands[j].Name
	})

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func defaultCredentialsFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".huddle", "credentials.json")
	}
	return filepath.Join(dir, "huddle", "credentials.json")
}

func createLogger(command *cli.Command) *zap.SugaredLogger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if command.Bool("debug") {
		logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := logConfig.Build()
	if err != nil {
		log.Fatal(err)
	}
	return logger.Sugar()
}

func loadCredentials(command *cli.Command) state.CredentialStore {
	store := fstore.New(command.String("credentials-file"))
	if err := store.Load(); err != nil {
		log.Fatalf("failed to load credentials from %s: %v", store, err)
	}
	return store
}

// mustCreateClient resolves the api url and token from the flags, falling
// back to the saved credentials.
func mustCreateClient(ctx context.Context, command *cli.Command) *client.Client {
	credentials := loadCredentials(command).Credentials()
	apiURL := command.String("host")
	if apiURL == "" {
		apiURL = credentials.APIURL
	}
	if apiURL == "" {
		apiURL = DefaultServiceURL
	}
	token := command.String("token")
	if token == "" {
		token = credentials.Token
	}
	c, err := newClient(ctx, command, apiURL, token)
	if err != nil {
		log.Fatal(err)
	}
	return c
}

func newClient(ctx context.Context, command *cli.Command, apiURL string, token string) (*client.Client, error) {
	logger := createLogger(command)
	options := []client.Option{
		client.WithLogger(logger),
		client.WithBearerToken(token),
		client.WithUserAgent(fmt.Sprintf("huddlectl/%s (%s; %s)", Version, runtime.GOOS, runtime.GOARCH)),
	}
	if command.Bool("insecure-skip-tls-verify") { // #nosec G402
		options = append(options, client.WithTLSConfig(&tls.Config{
			InsecureSkipVerify: true,
		}))
	}
	if addr := command.String("cache-redis"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
		}
		store := querycache.NewRedisStore(rdb, "", 10*time.Minute)
		options = append(options, client.WithCache(querycache.New(
			querycache.WithStore(store),
			querycache.WithLogger(logger),
		)))
	}
	return client.NewClient(ctx, apiURL, options...)
}

// mustStartSession loads the current user and the page config.
func mustStartSession(ctx context.Context, command *cli.Command, c *client.Client) *state.Session {
	session := state.NewSession(c, createLogger(command))
	if err := session.Start(ctx); err != nil {
		log.Fatal(client.Simplify(err))
	}
	return session
}

// apiResponse exits with a readable message when err is set.
func apiResponse[T any](resp T, err error) T {
	if err != nil {
		log.Fatal(client.Simplify(err))
	}
	return resp
}

func showSuccessfully(command *cli.Command, action string) {
	output := command.String("output")
	if output == encodeColumn || output == encodeNoHeader {
		fmt.Printf("\nsuccessfully %s\n", action)
	}
}
