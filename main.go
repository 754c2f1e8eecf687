package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/klokku/ledger/internal/app"
	log "github.com/sirupsen/logrus"
)

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(ctx)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	if err := application.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
