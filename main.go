package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/onevoice/dubsync/cli"
	cfg "github.com/onevoice/dubsync/config"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("could not read .env")
	}

	conf, err := cfg.Load()
	if err != nil {
		log.Fatal(err)
	}

	root := cli.NewRootCmd(&cli.Dependencies{Config: conf, Log: log})
	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
