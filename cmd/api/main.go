package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/generate"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/credentials"
	"server/internal/infra/geoip"
	"server/internal/providers/openrouter"
	"server/internal/providers/razorpay"
	"server/internal/quota"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	sqlRunner := infra.NewSQLRunner(dbpool, logger)
	users := repo.NewUserRepository(sqlRunner)
	projects := repo.NewProjectRepository(sqlRunner)

	// The OpenRouter key can be rotated in the database without a redeploy;
	// the environment variable is the fallback.
	creds := credentials.NewStore(sqlRunner)
	apiKey, err := creds.OpenRouterAPIKey(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load stored openrouter key")
	}
	if apiKey == "" {
		apiKey = cfg.OpenRouterAPIKey
	}

	llm := openrouter.NewClient(openrouter.Options{
		APIKey:         apiKey,
		BaseURL:        cfg.OpenRouterBaseURL,
		Logger:         &logger,
		RequestTimeout: cfg.GenerationTimeout,
	})
	if !llm.HasCredentials() {
		logger.Warn().Msg("no openrouter api key configured; generation will fail")
	}

	pipeline := generate.NewPipeline(generate.PipelineOptions{
		Users:       users,
		Projects:    projects,
		Ledger:      quota.NewLedger(users),
		Enhancer:    generate.NewEnhancer(llm, cfg.EnhanceModel, logger),
		Sites:       generate.NewSiteGenerator(llm, cfg.SiteModel),
		Backends:    generate.NewBackendGenerator(llm, cfg.BackendModel, logger),
		Logger:      logger,
		CallTimeout: cfg.GenerationTimeout,
	})

	var checkout handlers.OrderCreator
	rzp, err := razorpay.New(razorpay.Options{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpaySecret,
		Logger:    &logger,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("razorpay disabled; checkout will fail")
	} else {
		checkout = rzp
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}

	app := &handlers.App{
		Config:   cfg,
		Logger:   logger,
		Users:    users,
		Projects: projects,
		Pipeline: pipeline,
		Checkout: checkout,
		GeoIP:    resolver,
	}

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != os.ErrClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
