package service

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestValidateQuestion(t *testing.T) {
	s := &queryService{model: defaultGeminiModel, log: zerolog.Nop()}

	tests := []struct {
		name      string
		question  string
		valid     bool
		wantInMsg string
	}{
		{"empty", "", false, "too short"},
		{"whitespace only", "    ", false, "too short"},
		{"too short", "hey", false, "too short"},
		{"business vocabulary", "show me total revenue", true, "looks valid"},
		{"no business vocabulary", "what is the weather like", true, "will attempt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := s.ValidateQuestion(tt.question)
			if check.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v", check.Valid, tt.valid)
			}
			if !strings.Contains(check.Message, tt.wantInMsg) {
				t.Errorf("message %q does not mention %q", check.Message, tt.wantInMsg)
			}
		})
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		name     string
		question string
		wantIn   string
	}{
		{"top selling", "What are the top selling products?", "ORDER BY total_sold DESC"},
		{"best selling alias", "show BEST SELLING items", "ORDER BY total_sold DESC"},
		{"total revenue", "what is our total revenue?", "SUM(total) AS total_revenue"},
		{"customer count", "how many customers do we have", "COUNT(*) AS total_customers"},
		{"average order", "what's the average order value", "AVG(total)"},
		{"top customers", "who are the top customers", "total_spent DESC"},
		{"monthly sales", "show monthly sales", "strftime('%Y-%m', order_date)"},
		{"category sales", "break down sales by category", "GROUP BY p.category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := matchPattern(tt.question)
			if sql == "" {
				t.Fatal("no pattern matched")
			}
			if !strings.Contains(sql, tt.wantIn) {
				t.Errorf("matched SQL does not contain %q:\n%s", tt.wantIn, sql)
			}
		})
	}

	if sql := matchPattern("tell me something interesting"); sql != "" {
		t.Errorf("unexpected match for non-pattern question:\n%s", sql)
	}
}

func TestMatchPatternOrderMatters(t *testing.T) {
	// "top customers" must not be captured by the earlier "top products" rule.
	sql := matchPattern("top customers by spend")
	if !strings.Contains(sql, "FROM customers c") {
		t.Errorf("question routed to wrong rule:\n%s", sql)
	}
}

func TestFallbackSQL(t *testing.T) {
	tests := []struct {
		name     string
		question string
		wantIn   string
	}{
		{"product keyword", "list every product in stock", "FROM products p"},
		{"customer keyword", "recent customer signups", "FROM customers c"},
		{"order keyword", "latest order activity", "FROM orders o"},
		{"overview catchall", "give me a summary", "'Total Revenue' AS metric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if sql := fallbackSQL(tt.question); !strings.Contains(sql, tt.wantIn) {
				t.Errorf("fallback SQL does not contain %q:\n%s", tt.wantIn, sql)
			}
		})
	}
}

func TestFallbackSQLPrefersPatternRules(t *testing.T) {
	// A question that mentions both a pattern phrase and a fallback keyword
	// still gets the precise pattern query.
	sql := fallbackSQL("total revenue per customer")
	if !strings.Contains(sql, "SUM(total) AS total_revenue") {
		t.Errorf("pattern rule should win over keyword fallback:\n%s", sql)
	}
}

func TestCleanModelSQL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "SELECT 1;", "SELECT 1;"},
		{"missing semicolon", "SELECT 1", "SELECT 1;"},
		{"surrounding whitespace", "  \nSELECT 1;\n ", "SELECT 1;"},
		{"sql fence", "```sql\nSELECT 1;\n```", "SELECT 1;"},
		{"bare fence", "```\nSELECT COUNT(*) FROM orders\n```", "SELECT COUNT(*) FROM orders;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelSQL(tt.raw); got != tt.want {
				t.Errorf("cleanModelSQL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestBuildSQLPromptIncludesSchemaAndQuestion(t *testing.T) {
	prompt := buildSQLPrompt("show me total sales")
	for _, fragment := range []string{"Table: customers", "Table: sales", "show me total sales", "valid SQLite syntax"} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}

func TestSuggestionsNotEmpty(t *testing.T) {
	s := NewQueryService(zerolog.Nop())
	if len(s.Suggestions()) == 0 {
		t.Fatal("suggestions must not be empty")
	}
}
