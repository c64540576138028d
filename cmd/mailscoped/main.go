// Command mailscoped serves the bulk email verification API.
//
// Endpoints:
//
//	GET  /                  health
//	POST /v1/verify         verify a list of addresses, respond with JSON records
//	POST /v1/verify/export  same, but respond with an xlsx workbook
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/mailscope/mailscope"
)

const version = "1.0.0"

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := loadConfig()

	verifier := mailscope.New(cfg.verifierOptions())
	defer func() { _ = verifier.Close() }()

	srv := &server{verifier: verifier, workers: cfg.Workers}

	app := fiber.New(fiber.Config{
		AppName:               "mailscoped " + version,
		DisableStartupMessage: true,
	})
	app.Get("/", srv.handleHealth)
	app.Post("/v1/verify", srv.handleVerify)
	app.Post("/v1/verify/export", srv.handleVerifyExport)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logrus.Info("shutting down")
		_ = app.Shutdown()
	}()

	logrus.WithFields(logrus.Fields{
		"port":       cfg.ServerPort,
		"workers":    cfg.Workers,
		"rcpt_probe": cfg.SMTPRCPTProbe,
	}).Info("server starting")
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logrus.WithError(err).Fatal("server failed")
	}
}
