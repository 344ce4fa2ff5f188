package repository

import (
	"fmt"

	"gorm.io/gorm"
)

// QueryResult is the shape returned for arbitrary read-only queries: column
// order preserved, rows as name/value maps.
type QueryResult struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"data"`
	RowCount int              `json:"row_count"`
	Query    string           `json:"query"`
}

// ColumnInfo describes one column for schema introspection.
type ColumnInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"not_null"`
	PrimaryKey bool   `json:"primary_key"`
}

// QueryRepository is the read-only surface the dashboard consumes: arbitrary
// structured queries, plan validation without execution, and table/column
// introspection.
type QueryRepository interface {
	Execute(query string) (*QueryResult, error)
	Validate(query string) error
	Schema() (map[string][]ColumnInfo, error)
}

type queryRepo struct {
	db *gorm.DB
}

func NewQueryRepo(db *gorm.DB) QueryRepository {
	return &queryRepo{db: db}
}

// Execute runs the query and materializes all rows. []byte cells (how the
// sqlite driver hands back text) are converted to string so the result
// serializes cleanly.
func (r *queryRepo) Execute(query string) (*QueryResult, error) {
	rows, err := r.db.Raw(query).Rows()
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	result := &QueryResult{Columns: columns, Rows: []map[string]any{}, Query: query}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	result.RowCount = len(result.Rows)
	return result, nil
}

// Validate checks syntax and semantics of a query without executing it by
// asking the store to plan it.
func (r *queryRepo) Validate(query string) error {
	rows, err := r.db.Raw("EXPLAIN " + query).Rows()
	if err != nil {
		return err
	}
	return rows.Close()
}

// Schema returns per-table column metadata (name, declared type,
// nullability, primary-key flag) for every table in the store.
func (r *queryRepo) Schema() (map[string][]ColumnInfo, error) {
	tables, err := r.db.Migrator().GetTables()
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	schema := make(map[string][]ColumnInfo, len(tables))
	for _, table := range tables {
		columnTypes, err := r.db.Migrator().ColumnTypes(table)
		if err != nil {
			return nil, fmt.Errorf("inspecting %s: %w", table, err)
		}

		columns := make([]ColumnInfo, 0, len(columnTypes))
		for _, ct := range columnTypes {
			nullable, _ := ct.Nullable()
			primary, _ := ct.PrimaryKey()
			columns = append(columns, ColumnInfo{
				Name:       ct.Name(),
				Type:       ct.DatabaseTypeName(),
				NotNull:    !nullable,
				PrimaryKey: primary,
			})
		}
		schema[table] = columns
	}
	return schema, nil
}
