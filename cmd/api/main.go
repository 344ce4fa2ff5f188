package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/abhinavparupati/skillrank-hackathon/internal/handler"
	"github.com/abhinavparupati/skillrank-hackathon/internal/logger"
	"github.com/abhinavparupati/skillrank-hackathon/internal/model"
	"github.com/abhinavparupati/skillrank-hackathon/internal/repository"
	"github.com/abhinavparupati/skillrank-hackathon/internal/service"
	"github.com/abhinavparupati/skillrank-hackathon/pkg/database"
)

// Read-only dashboard API over the store the pipeline builds: schema
// introspection, stats/KPIs, chart data, and natural-language queries.
func main() {
	log := logger.New()
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found")
	}

	// 1. Open the store. The API never writes; the pipeline must have run
	// first.
	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open store")
	}
	if !db.Migrator().HasTable(&model.Customer{}) {
		log.Fatal().Msg("store is empty: run cmd/pipeline first")
	}

	// 2. Wire layers.
	queryRepo := repository.NewQueryRepo(db)

	queryService := service.NewQueryService(log)
	dashService := service.NewDashboardService(queryRepo)

	queryHandler := handler.NewQueryHandler(queryService, queryRepo)
	dashHandler := handler.NewDashboardHandler(dashService, queryRepo)

	// 3. Fiber app.
	app := fiber.New(fiber.Config{
		AppName: "Retail NL Dashboard v1.0",
	})
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 4. Routes.
	api := app.Group("/api")
	api.Get("/health", dashHandler.Health)
	api.Get("/schema", dashHandler.Schema)
	api.Get("/stats", dashHandler.Stats)
	api.Get("/kpis", dashHandler.KPIs)
	api.Get("/suggestions", queryHandler.Suggestions)
	api.Post("/query/natural", queryHandler.NaturalQuery)
	api.Post("/query/sql", queryHandler.SQLQuery)
	api.Post("/charts/data", dashHandler.ChartData)

	// 5. Serve with graceful shutdown.
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "5000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
