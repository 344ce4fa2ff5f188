package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// Model identifiers reported back to the caller so the frontend can show how
// a query was produced.
const (
	ModelPatternMatching  = "pattern_matching"
	ModelFallbackPatterns = "fallback_patterns"

	defaultGeminiModel = "gemini-2.5-flash"
)

// Translation is the result of turning a question into SQL.
type Translation struct {
	SQL       string
	ModelUsed string
	Note      string
}

// QuestionCheck reports whether a question is worth sending to translation.
// Validation is deliberately lenient: a question without business vocabulary
// still passes, the downstream plan validation is the real gate.
type QuestionCheck struct {
	Valid   bool
	Message string
}

// QueryService converts natural-language questions into read-only SQL.
// Ordered pattern rules are tried first; when none match, the Gemini model
// is asked; when the model is unavailable, keyword fallback queries keep the
// endpoint functional.
type QueryService interface {
	ValidateQuestion(question string) QuestionCheck
	Translate(ctx context.Context, question string) (*Translation, error)
	Suggestions() []string
}

type queryService struct {
	model string
	log   zerolog.Logger
}

func NewQueryService(log zerolog.Logger) QueryService {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultGeminiModel
	}
	return &queryService{model: model, log: log}
}

// patternRules is the ordered rule table for common business questions:
// first rule whose phrase appears in the question wins.
var patternRules = []struct {
	phrases []string
	sql     string
}{
	{
		phrases: []string{"top selling", "best selling", "top products"},
		sql: `SELECT p.name, SUM(o.quantity) AS total_sold, SUM(o.total) AS revenue
FROM products p
JOIN orders o ON p.id = o.product_id
GROUP BY p.id, p.name
ORDER BY total_sold DESC
LIMIT 10;`,
	},
	{
		phrases: []string{"total revenue", "total sales"},
		sql:     `SELECT SUM(total) AS total_revenue FROM orders;`,
	},
	{
		phrases: []string{"customer count", "how many customers", "total customers"},
		sql:     `SELECT COUNT(*) AS total_customers FROM customers;`,
	},
	{
		phrases: []string{"average order", "avg order"},
		sql:     `SELECT AVG(total) AS average_order_value FROM orders;`,
	},
	{
		phrases: []string{"top customers", "best customers"},
		sql: `SELECT c.name, c.email, SUM(o.total) AS total_spent
FROM customers c
JOIN orders o ON c.id = o.customer_id
GROUP BY c.id, c.name, c.email
ORDER BY total_spent DESC
LIMIT 10;`,
	},
	{
		phrases: []string{"monthly sales", "sales by month", "monthly revenue"},
		sql: `SELECT strftime('%Y-%m', order_date) AS month,
       SUM(total) AS revenue,
       COUNT(*) AS order_count
FROM orders
GROUP BY strftime('%Y-%m', order_date)
ORDER BY month DESC;`,
	},
	{
		phrases: []string{"category sales", "sales by category"},
		sql: `SELECT p.category, SUM(o.total) AS revenue, COUNT(o.id) AS order_count
FROM products p
JOIN orders o ON p.id = o.product_id
GROUP BY p.category
ORDER BY revenue DESC;`,
	},
}

// fallbackRules are coarser keyword rules used when the model is
// unreachable. The final entry is the catchall overview.
var fallbackRules = []struct {
	keyword string
	sql     string
}{
	{
		keyword: "product",
		sql: `SELECT p.name, p.category, p.price, p.stock
FROM products p
ORDER BY p.name
LIMIT 20;`,
	},
	{
		keyword: "customer",
		sql: `SELECT c.name, c.email, c.city, c.signup_date
FROM customers c
ORDER BY c.signup_date DESC
LIMIT 20;`,
	},
	{
		keyword: "order",
		sql: `SELECT o.id, c.name AS customer_name, p.name AS product_name,
       o.quantity, o.total, o.order_date
FROM orders o
JOIN customers c ON o.customer_id = c.id
JOIN products p ON o.product_id = p.id
ORDER BY o.order_date DESC
LIMIT 20;`,
	},
}

const overviewSQL = `SELECT 'Total Revenue' AS metric, SUM(total) AS value FROM orders
UNION ALL
SELECT 'Total Orders' AS metric, COUNT(*) AS value FROM orders
UNION ALL
SELECT 'Total Customers' AS metric, COUNT(*) AS value FROM customers
UNION ALL
SELECT 'Total Products' AS metric, COUNT(*) AS value FROM products;`

var businessKeywords = []string{
	"sales", "revenue", "customers", "products", "orders",
	"top", "total", "average", "count", "show", "list",
	"most", "best", "trend", "category", "profit",
}

func (s *queryService) ValidateQuestion(question string) QuestionCheck {
	q := strings.TrimSpace(question)
	if len(q) < 5 {
		return QuestionCheck{Valid: false, Message: "Question is too short or empty"}
	}

	lower := strings.ToLower(q)
	for _, kw := range businessKeywords {
		if strings.Contains(lower, kw) {
			return QuestionCheck{Valid: true, Message: "Question looks valid for SQL conversion"}
		}
	}
	return QuestionCheck{Valid: true, Message: "Question may not be business-related, but will attempt to process"}
}

func (s *queryService) Translate(ctx context.Context, question string) (*Translation, error) {
	if sql := matchPattern(question); sql != "" {
		return &Translation{SQL: sql, ModelUsed: ModelPatternMatching}, nil
	}

	sql, err := s.askModel(ctx, question)
	if err != nil {
		s.log.Warn().Err(err).Msg("model translation failed, using fallback patterns")
		return &Translation{
			SQL:       fallbackSQL(question),
			ModelUsed: ModelFallbackPatterns,
			Note:      fmt.Sprintf("model unavailable: %v", err),
		}, nil
	}
	return &Translation{SQL: sql, ModelUsed: s.model}, nil
}

func (s *queryService) Suggestions() []string {
	return []string{
		"Show me total sales this year",
		"Which products sold the most?",
		"Who are our top 10 customers by revenue?",
		"What's the monthly sales trend?",
		"Which product category is most profitable?",
		"Show me customers who haven't ordered recently",
		"What's our average order value?",
		"Which cities have the most customers?",
		"Show me the top selling products in each category",
		"What's our total revenue by month?",
	}
}

func matchPattern(question string) string {
	lower := strings.ToLower(question)
	for _, rule := range patternRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(lower, phrase) {
				return rule.sql
			}
		}
	}
	return ""
}

func fallbackSQL(question string) string {
	if sql := matchPattern(question); sql != "" {
		return sql
	}
	lower := strings.ToLower(question)
	for _, rule := range fallbackRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.sql
		}
	}
	return overviewSQL
}

func (s *queryService) askModel(ctx context.Context, question string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildSQLPrompt(question)},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return cleanModelSQL(raw), nil
}

// schemaContext describes the store to the model. Kept in sync with
// internal/model.
const schemaContext = `Database Schema:

Table: customers
- id (INTEGER, PRIMARY KEY): Customer unique identifier
- name (TEXT): Customer full name
- email (TEXT): Customer email address
- city (TEXT): Customer city/country
- signup_date (DATE): Date when customer first signed up

Table: products
- id (TEXT, PRIMARY KEY): Product stock code
- name (TEXT): Product name/description
- category (TEXT): Product category (e.g. 'General Merchandise', 'Gifts & Romance', 'Kitchen & Dining')
- price (DECIMAL): Product unit price
- stock (INTEGER): Current stock quantity

Table: orders
- id (INTEGER, PRIMARY KEY): Order unique identifier
- customer_id (INTEGER): Foreign key to customers.id
- product_id (TEXT): Foreign key to products.id
- quantity (INTEGER): Quantity ordered
- order_date (DATE): Date of the order
- total (DECIMAL): Total order amount (quantity * price)

Table: sales
- id (INTEGER, PRIMARY KEY): Sales record unique identifier
- order_id (INTEGER): Foreign key to orders.id
- revenue (DECIMAL): Revenue from the sale
- profit_margin (DECIMAL): Profit margin fraction (0-1)
- sales_date (DATE): Date of the sale

Date Format: Use 'YYYY-MM-DD' format for dates.`

func buildSQLPrompt(question string) string {
	return schemaContext + `

Instructions:
1. Convert the following natural language question to a SQL query
2. Use only the tables and columns defined in the schema above
3. Return ONLY the SQL query, no explanations or markdown formatting
4. Ensure the query is valid SQLite syntax
5. Use appropriate JOINs when data from multiple tables is needed
6. For aggregations, use appropriate GROUP BY clauses
7. Limit results to reasonable numbers (e.g. 10) unless specified otherwise

Question: ` + question + `

SQL Query:`
}

// cleanModelSQL strips markdown fences and surrounding noise the model may
// add despite instructions, and makes sure the query is terminated.
func cleanModelSQL(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)
	if s != "" && !strings.HasSuffix(s, ";") {
		s += ";"
	}
	return s
}
