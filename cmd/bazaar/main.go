package main

import (
	"context"

	"github.com/pixil98/go-bazaar/cmd/bazaar/command"
	"github.com/pixil98/go-log"
	"github.com/pixil98/go-service"
)

func main() {
	logger := log.NewLogger()

	app, err := service.NewApp(&command.Config{}, command.BuildWorkers)
	if err != nil {
		logger.WithError(err).Fatal("building the bazaar")
	}

	if err := app.Run(context.Background()); err != nil {
		logger.WithError(err).Fatal("running the bazaar")
	}

	logger.Info("bazaar closed")
}
