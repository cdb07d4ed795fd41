package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/adapter/repo"
	"server/internal/domain"
	"server/internal/infra"
)

func main() {
	var (
		idFlag     string
		planFlag   string
		expiryFlag string
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update")
	flag.StringVar(&planFlag, "plan", "", "plan to assign (free, download, extra, premium)")
	flag.StringVar(&expiryFlag, "expiry", "", "plan expiry as RFC3339, or a duration like 720h (premium only)")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	plan := domain.Plan(strings.TrimSpace(strings.ToLower(planFlag)))

	if userID == "" {
		exitWithError(errors.New("-id is required"))
	}
	switch plan {
	case domain.PlanFree, domain.PlanDownload, domain.PlanExtra, domain.PlanPremium:
	default:
		exitWithError(fmt.Errorf("unsupported plan %q", planFlag))
	}

	var expiry *time.Time
	if expiryFlag != "" {
		if plan != domain.PlanPremium {
			exitWithError(errors.New("-expiry only applies to the premium plan"))
		}
		parsed, err := parseExpiry(expiryFlag)
		if err != nil {
			exitWithError(err)
		}
		expiry = &parsed
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "userplan").Logger()
	users := repo.NewUserRepository(infra.NewSQLRunner(pool, logger))

	updateCtx, cancelUpdate := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelUpdate()
	if err := users.SetPlan(updateCtx, userID, plan, expiry); err != nil {
		exitWithError(fmt.Errorf("failed to update user plan: %w", err))
	}

	user, err := users.Get(updateCtx, userID)
	if err != nil {
		exitWithError(fmt.Errorf("failed to reload user: %w", err))
	}

	fmt.Printf("User %s updated to plan %s\n", user.ID, user.Plan)
	if user.PlanExpiry != nil {
		fmt.Printf("plan_expiry=%s\n", user.PlanExpiry.UTC().Format(time.RFC3339))
	}
}

func parseExpiry(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if d, err := time.ParseDuration(v); err == nil {
		return time.Now().UTC().Add(d), nil
	}
	return time.Time{}, fmt.Errorf("invalid -expiry %q: want RFC3339 timestamp or duration", v)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
