package main

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/kyledinardi/odin-book-backend/internal/metrics"
	"github.com/kyledinardi/odin-book-backend/internal/middleware"
	"github.com/kyledinardi/odin-book-backend/internal/realtime"
	"github.com/kyledinardi/odin-book-backend/internal/router"
	"github.com/kyledinardi/odin-book-backend/pkg/config"
	"github.com/kyledinardi/odin-book-backend/pkg/firebase"
	"github.com/kyledinardi/odin-book-backend/pkg/imagestore"
	"github.com/kyledinardi/odin-book-backend/validators"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := config.InitDB(cfg.PostgresConnStr)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize database")
	}
	defer db.CloseDB()

	// External-provider login is optional; without credentials the
	// /auth/provider route rejects all tokens.
	var verifier middleware.TokenVerifier
	if cfg.FirebaseCredentialsPath != "" {
		verifier, err = firebase.NewVerifier(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			logrus.WithError(err).Fatal("failed to initialize Firebase")
		}
	}

	// Image uploads are optional too; without a store the API still
	// accepts pre-hosted image URLs.
	var store imagestore.Store
	if cfg.MinioAccessKey != "" {
		store, err = imagestore.NewMinioStore(ctx, imagestore.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
		if err != nil {
			logrus.WithError(err).Fatal("failed to initialize image store")
		}
	}

	hub := realtime.NewHub()
	go metrics.Serve(cfg.MetricsPort)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	router.SetupRoutes(e, db.Postgres, verifier, store, hub, cfg.JWTSecret)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
