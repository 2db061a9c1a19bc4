package main

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/sportsvolume/dashboard/internal/pkg/config"
	"github.com/sportsvolume/dashboard/internal/pkg/env"
	"github.com/sportsvolume/dashboard/internal/pkg/server"
)

func main() {
	env.SetupEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	app, err := server.NewApplication(cfg)
	if err != nil {
		log.Fatal(err)
	}

	err = app.Listen(fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort))
	log.Fatal(err)
}
