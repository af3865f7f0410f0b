package main

import (
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/TheFungusAmongUs/GeoBot/bot"
	"github.com/TheFungusAmongUs/GeoBot/config"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to config.yaml (default: ./config.yaml or ./config/config.yaml)")
	dataDir := pflag.String("data-dir", "", "directory holding the submission stores and panel state")
	pflag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Error loading config: %v", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Storage.DataDir = *dataDir
	}

	if err := bot.Start(cfg); err != nil {
		log.Printf("Bot stopped: %v", err)
		os.Exit(1)
	}
}
