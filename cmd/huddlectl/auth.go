package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/huddle-io/huddle/internal/auth"
	"github.com/huddle-io/huddle/internal/client"
	"github.com/huddle-io/huddle/internal/state"
	"github.com/urfave/cli/v3"
)

func createLoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Check a token against the api server and save it for later commands",
		Action: func(ctx context.Context, command *cli.Command) error {
			apiURL := command.String("host")
			if apiURL == "" {
				apiURL = DefaultServiceURL
			}
			token := command.String("token")
			if token == "" {
				log.Fatal("the --token flag is required to login")
			}
			c, err := newClient(ctx, command, apiURL, token)
			if err != nil {
				return err
			}
			session := mustStartSession(ctx, command, c)
			user, _ := session.Users.Current()

			store := loadCredentials(command)
			store.SetCredentials(state.Credentials{
				APIURL: apiURL,
				Token:  token,
			})
			if err := store.Store(); err != nil {
				return fmt.Errorf("failed to save credentials to %s: %w", store, err)
			}
			fmt.Printf("logged in to %s as %s (%s)\n", apiURL, user.Email, user.Role)
			return nil
		},
	}
}

func createLogoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the saved credentials and cached queries",
		Action: func(ctx context.Context, command *cli.Command) error {
			c := mustCreateClient(ctx, command)
			session := state.NewSession(c, createLogger(command))
			if err := session.End(ctx); err != nil {
				return err
			}
			store := loadCredentials(command)
			store.SetCredentials(state.Credentials{})
			if err := store.Store(); err != nil {
				return fmt.Errorf("failed to clear credentials in %s: %w", store, err)
			}
			showSuccessfully(command, "logged out")
			return nil
		},
	}
}

func createWhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the current user",
		Action: func(ctx context.Context, command *cli.Command) error {
			c := mustCreateClient(ctx, command)
			session := mustStartSession(ctx, command, c)
			user, _ := session.Users.Current()
			show(command, userTableFields(), user)
			return nil
		},
	}
}

func createTokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint a bearer token for a user, needs the signing key of the api server",
		Flags: []cli.Flag{
			idFlag("user-id"),
			&cli.StringFlag{
				Name:     "signing-key",
				Required: true,
				Sources:  cli.EnvVars("HUDDLE_SIGNING_KEY"),
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Value: 24 * time.Hour,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			userID, err := getUUID(command, "user-id")
			if err != nil {
				return err
			}
			token, err := auth.NewToken([]byte(command.String("signing-key")), userID, command.Duration("ttl"))
			if err != nil {
				return client.Simplify(err)
			}
			fmt.Println(token)
			return nil
		},
	}
}
