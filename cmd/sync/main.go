package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/timmy/jobnest/internal/auth"
	"github.com/timmy/jobnest/internal/bootstrap"
	"github.com/timmy/jobnest/internal/config"
	"github.com/timmy/jobnest/internal/domain"
	"github.com/timmy/jobnest/internal/logger"
)

func main() {
	appLogger := logger.NewFromEnv(nil)
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	userID := flag.String("user", "", "ID of the user to sync")
	createEmail := flag.String("create-user", "", "Create a user with this email and sync it")
	keywords := flag.String("keywords", "", "Comma-separated keywords for a created user")
	location := flag.String("location", "", "Location preference for a created user")
	jobType := flag.String("job-type", "", "Job type preference for a created user")
	issueToken := flag.Bool("issue-token", false, "Print an API token for the user")
	noSync := flag.Bool("no-sync", false, "Skip running the sync")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	if *userID == "" && *createEmail == "" {
		fmt.Fprintln(os.Stderr, "either -user or -create-user is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize application")
	}
	defer app.Close()

	id := *userID
	if *createEmail != "" {
		user := &domain.User{
			Email:             *createEmail,
			PreferredKeywords: splitKeywords(*keywords),
			PreferredLocation: *location,
			PreferredJobType:  *jobType,
			AutoSyncEnabled:   true,
		}
		if err := app.Users.Create(ctx, user); err != nil {
			appLogger.WithError(err).Fatal("Failed to create user")
		}
		id = user.ID
		appLogger.WithField("user_id", id).Info("User created")
		fmt.Println(id)
	}

	if *issueToken {
		tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize token manager")
		}
		token, err := tokens.Issue(id)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to issue token")
		}
		fmt.Println(token)
	}

	if *noSync {
		return
	}

	if err := app.Sync.RunSync(ctx, id); err != nil {
		appLogger.WithError(err).Fatal("Sync failed")
	}

	logs, err := app.Logs.ListByUser(ctx, id, len(cfg.Sync.AllowedSources))
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to read sync logs")
	}
	for _, l := range logs {
		appLogger.WithFields(logger.Fields{
			"source":  l.SourceID,
			"status":  l.Status,
			"fetched": l.JobsFetched,
			"created": l.JobsCreated,
			"updated": l.JobsUpdated,
			"error":   l.ErrorMessage,
		}).Info("Source synced")
	}
}

func splitKeywords(raw string) []string {
	var out []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
