// Command linkcourses links every course assigned to an organization to
// every team of that organization. Links that already exist are kept.
//
// The database is configured with the HUDDLE_DB_HOST, HUDDLE_DB_PORT,
// HUDDLE_DB_USER, HUDDLE_DB_PASSWORD, HUDDLE_DB_NAME and HUDDLE_DB_SSLMODE
// environment variables. HUDDLE_LINK_TIMEOUT bounds the whole run and
// defaults to 5m.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/huddle-io/huddle/internal/database"
	"github.com/huddle-io/huddle/internal/maintenance"
	"github.com/huddle-io/huddle/internal/util"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "linkcourses: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	timeout, err := util.GetenvDuration("HUDDLE_LINK_TIMEOUT", "5m")
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer util.IgnoreError(logger.Sync)
	sugar := logger.Sugar()

	db, err := database.NewDatabase(ctx, sugar, database.Config{
		Host:     util.Getenv("HUDDLE_DB_HOST", "localhost"),
		Port:     util.Getenv("HUDDLE_DB_PORT", "5432"),
		User:     util.Getenv("HUDDLE_DB_USER", "apiserver"),
		Password: util.Getenv("HUDDLE_DB_PASSWORD", "secret"),
		Name:     util.Getenv("HUDDLE_DB_NAME", "apiserver"),
		SSLMode:  util.Getenv("HUDDLE_DB_SSLMODE", "disable"),
	})
	if err != nil {
		return err
	}

	result, err := maintenance.LinkCoursesToTeams(ctx, db)
	if err != nil {
		return err
	}
	sugar.Infow("linked courses to teams",
		"teams", result.Teams,
		"org_courses", result.OrgCourses,
		"linked", result.Linked,
	)
	return nil
}
