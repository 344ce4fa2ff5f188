package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/abhinavparupati/skillrank-hackathon/internal/model"
)

// Pipeline runs the full normalization: load, clean, extract, synthesize,
// rebuild schema, bulk write, validate. One logical run, stages strictly in
// dependency order; only customer and product extraction run concurrently.
type Pipeline struct {
	sourcePath string
	store      Store
	checker    IntegrityChecker
	log        zerolog.Logger
}

func New(sourcePath string, store Store, checker IntegrityChecker, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		sourcePath: sourcePath,
		store:      store,
		checker:    checker,
		log:        log,
	}
}

// Run executes the pipeline end to end. Fatal failures return a
// SourceReadError, SchemaError or WriteError; validation discrepancies do
// not fail the run and are carried in the report.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:      uuid.NewString(),
		SourcePath: p.sourcePath,
		StartedAt:  time.Now(),
	}
	log := p.log.With().Str("run_id", report.RunID).Logger()

	// 1. Load the raw export, whole file, with encoding fallback.
	raw, err := LoadRawRecords(p.sourcePath)
	if err != nil {
		return nil, err
	}
	report.RawCount = len(raw)
	log.Info().Int("records", len(raw)).Str("source", p.sourcePath).Msg("loaded raw export")

	// 2. Exclusion and normalization rules. The cleaned set is the sole
	// input to everything below.
	cleaned, stats := Clean(raw)
	report.CleanStats = stats
	log.Info().
		Int("output", stats.Output).
		Int("dropped_no_customer", stats.DroppedNoCustomer).
		Int("dropped_quantity", stats.DroppedQuantity).
		Int("dropped_price", stats.DroppedPrice).
		Int("dropped_credit", stats.DroppedCredit).
		Msg("cleaned records")

	// 3+4. Customer and product extraction share no state, so they run in
	// parallel; both must finish before order synthesis.
	var customers []model.Customer
	var products []model.Product
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		customers = ExtractCustomers(cleaned)
		return nil
	})
	g.Go(func() error {
		products = ExtractProducts(cleaned)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info().Int("customers", len(customers)).Int("products", len(products)).Msg("extracted reference entities")

	// 5+6. One order per cleaned record, one sale per order.
	orders := SynthesizeOrders(cleaned)
	sales := SynthesizeSales(orders)
	log.Info().Int("orders", len(orders)).Int("sales", len(sales)).Msg("synthesized orders and sales")

	// 7. Destructive-then-additive rebuild of the target store.
	if err := p.store.Reset(); err != nil {
		return nil, &SchemaError{Err: err}
	}
	log.Info().Msg("target store reset")

	// 8. Bulk persist in dependency order.
	for _, step := range []struct {
		table string
		write func() error
	}{
		{"customers", func() error { return p.store.WriteCustomers(customers) }},
		{"products", func() error { return p.store.WriteProducts(products) }},
		{"orders", func() error { return p.store.WriteOrders(orders) }},
		{"sales", func() error { return p.store.WriteSales(sales) }},
	} {
		if err := step.write(); err != nil {
			return nil, &WriteError{Table: step.table, Err: err}
		}
		log.Info().Str("table", step.table).Msg("persisted")
	}

	// 9. Advisory validation. A failure here is reported, never fatal.
	if err := p.checker.Check(report); err != nil {
		log.Warn().Err(err).Msg("validation pass could not complete")
		report.AddDiscrepancy(Discrepancy{
			Check:  "validation_run",
			Detail: err.Error(),
		})
	}

	report.FinishedAt = time.Now()
	if report.Ok() {
		log.Info().Dur("elapsed", report.FinishedAt.Sub(report.StartedAt)).Msg("pipeline complete, no discrepancies")
	} else {
		log.Warn().Int("discrepancies", len(report.Discrepancies)).Msg("pipeline complete with discrepancies")
	}
	return report, nil
}
