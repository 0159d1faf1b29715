package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/physiocapture/physiocapture-backend/config"
	"github.com/physiocapture/physiocapture-backend/internal/routes"
	"github.com/physiocapture/physiocapture-backend/pkg/storage/mysql"
)

func main() {
	cfg := config.LoadConfig()
	db := mysql.Connect()

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	routes.Init(e, db)

	log.Printf("Servidor ouvindo na porta %s...", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
