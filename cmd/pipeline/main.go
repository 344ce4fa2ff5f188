package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"

	"github.com/abhinavparupati/skillrank-hackathon/internal/logger"
	"github.com/abhinavparupati/skillrank-hackathon/internal/pipeline"
	"github.com/abhinavparupati/skillrank-hackathon/internal/repository"
	"github.com/abhinavparupati/skillrank-hackathon/pkg/database"
)

// Runs the full normalization pipeline end to end: raw retail export in,
// four-table relational store out. No arguments required; source and store
// locations come from the environment with sensible defaults.
func main() {
	log := logger.New()
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found")
	}

	csvPath := os.Getenv("CSV_PATH")
	if csvPath == "" {
		csvPath = "data.csv"
	}

	db, err := database.Connect()
	if err != nil {
		log.Error().Err(err).Msg("cannot open target store")
		os.Exit(1)
	}

	p := pipeline.New(csvPath, repository.NewStoreRepo(db), repository.NewIntegrityRepo(db), log)

	report, err := p.Run(context.Background())
	if err != nil {
		var srcErr *pipeline.SourceReadError
		var schemaErr *pipeline.SchemaError
		var writeErr *pipeline.WriteError
		switch {
		case errors.As(err, &srcErr):
			log.Error().Err(err).Str("stage", "loader").Msg("pipeline aborted")
		case errors.As(err, &schemaErr):
			log.Error().Err(err).Str("stage", "schema").Msg("pipeline aborted")
		case errors.As(err, &writeErr):
			log.Error().Err(err).Str("stage", "writer").Str("table", writeErr.Table).Msg("pipeline aborted")
		default:
			log.Error().Err(err).Msg("pipeline aborted")
		}
		os.Exit(1)
	}

	// Validation is advisory: discrepancies are summarized for operator
	// review but never change the exit status.
	summary := log.Info()
	for table, count := range report.TableCounts {
		summary = summary.Int64(table, count)
	}
	summary.
		Float64("total_revenue", report.TotalRevenue).
		Int64("categories", report.CategoryCount).
		Str("order_dates", report.FirstOrderDate+" .. "+report.LastOrderDate).
		Msg("store summary")

	for _, d := range report.Discrepancies {
		log.Warn().
			Str("check", d.Check).
			Str("table", d.Table).
			Int64("expected", d.Expected).
			Int64("actual", d.Actual).
			Msg(d.Detail)
	}
}
