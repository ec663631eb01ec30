package main

import (
	"context"
	"net/http"

	_ "clinicmap-api/docs"
	"clinicmap-api/internal/config"
	"clinicmap-api/internal/gazetteer"
	"clinicmap-api/internal/handler"
	"clinicmap-api/internal/repository"
	"clinicmap-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title        Clinic Map Resolution API
// @version      1.0
// @description  Resolves free-text Japanese patient addresses to map points aggregated by neighborhood.
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	// Gazetteer source: imported Postgres tables when DB_SOURCE is set,
	// otherwise the static JSON assets.
	var source service.GazetteerSource
	if config.DBSource != "" {
		conn, err := pgxpool.New(context.Background(), config.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()
		source = repository.NewRepository(conn)
	} else {
		source = gazetteer.NewHTTPSource(config.TownGazetteerURL, config.MunicipalityGazetteerURL)
	}

	resolveService := service.NewResolveService(source)

	// A failed initial load is not fatal: the service stays in its retryable
	// resolution-unavailable state and POST /gazetteer/reload tries again.
	if err := resolveService.LoadGazetteers(context.Background()); err != nil {
		log.Error().Err(err).Msg("initial gazetteer load failed")
	}

	resolveHandler := handler.NewResolveHandler(resolveService)
	gazetteerHandler := handler.NewGazetteerHandler(resolveService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/status", gazetteerHandler.Status)
	r.POST("/resolve", resolveHandler.Resolve)
	r.POST("/gazetteer/reload", gazetteerHandler.Reload)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.Run(config.ServerAddress)
}
