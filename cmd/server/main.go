package main

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/Ashenafi-pixel/spin-to-win/config"
	"github.com/Ashenafi-pixel/spin-to-win/server"
)

func main() {
	// .env in cwd, then the project root when run from cmd/server
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../../.env")
	cfg := config.Load()
	setupLogging(cfg)

	srv, err := server.New(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to configure spin server")
	}
	if err := srv.Run(); err != nil {
		log.WithError(err).Fatal("Spin server stopped")
	}
}

func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stdout)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
