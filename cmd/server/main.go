package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"

	"github.com/mataure/storefront/auth"
	"github.com/mataure/storefront/catalog"
	"github.com/mataure/storefront/config"
	"github.com/mataure/storefront/db"
	"github.com/mataure/storefront/mail"
	"github.com/mataure/storefront/server"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("storefront"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)
	logger := lgr.GetLogger("main")

	if err := run(logger, lgr); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger glog.Logger, lgr *glog.BaseLogger) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	bunDB, err := db.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer bunDB.Close()

	if err := db.Migrate(context.Background(), bunDB); err != nil {
		return err
	}
	logger.Info("database ready", "dsn", cfg.Database.DSN)

	var mailer auth.Mailer
	if cfg.MailEnabled() {
		mailer, err = mail.NewSMTPMailer(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, lgr.GetLogger("mail"))
		if err != nil {
			return err
		}
	} else {
		logger.Warn("no SMTP relay configured, account emails will be logged only")
		mailer = mail.NoopMailer{Logger: lgr.GetLogger("mail")}
	}

	srv := server.New(server.Deps{
		Users:    auth.NewUsersRepository(bunDB),
		Products: catalog.NewProductsRepository(bunDB),
		Reviews:  catalog.NewReviewsRepository(bunDB),
		Tokens:   auth.NewTokenService([]byte(cfg.JWT.Secret), cfg.JWT.TTL, cfg.JWT.Issuer, lgr.GetLogger("auth")),
		Mailer:   mailer,
		Links:    auth.LinkBuilder{BaseURL: cfg.Server.BaseURL},
		Logger:   lgr.GetLogger("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		errCh <- srv.Listen(cfg.Server.Addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		return srv.Shutdown()
	}
}
