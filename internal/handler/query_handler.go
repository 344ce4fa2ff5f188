package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/abhinavparupati/skillrank-hackathon/internal/repository"
	"github.com/abhinavparupati/skillrank-hackathon/internal/service"
	"github.com/abhinavparupati/skillrank-hackathon/pkg/validator"
)

type QueryHandler struct {
	service service.QueryService
	queries repository.QueryRepository
}

func NewQueryHandler(s service.QueryService, q repository.QueryRepository) *QueryHandler {
	return &QueryHandler{service: s, queries: q}
}

type naturalQueryRequest struct {
	Question string `json:"question" validate:"required,min=5"`
}

type sqlQueryRequest struct {
	SQL string `json:"sql" validate:"required"`
}

// NaturalQuery converts a natural-language question to SQL, validates the
// generated plan without executing, then runs it.
func (h *QueryHandler) NaturalQuery(c *fiber.Ctx) error {
	var req naturalQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success":    false,
			"error":      "Question is required",
			"error_type": "validation_error",
		})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{
			"success":    false,
			"error":      "Question is too short or empty",
			"error_type": "validation_error",
		})
	}

	question := strings.TrimSpace(req.Question)
	if check := h.service.ValidateQuestion(question); !check.Valid {
		return c.Status(400).JSON(fiber.Map{
			"success":    false,
			"error":      check.Message,
			"error_type": "validation_error",
		})
	}

	translation, err := h.service.Translate(c.Context(), question)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success":    false,
			"error":      err.Error(),
			"error_type": "translation_error",
		})
	}

	if err := h.queries.Validate(translation.SQL); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success":       false,
			"error":         "Generated SQL is invalid: " + err.Error(),
			"error_type":    "sql_error",
			"generated_sql": translation.SQL,
		})
	}

	result, err := h.queries.Execute(translation.SQL)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success":       false,
			"error":         err.Error(),
			"error_type":    "database_error",
			"generated_sql": translation.SQL,
		})
	}

	resp := fiber.Map{
		"success":       true,
		"question":      question,
		"generated_sql": translation.SQL,
		"data":          result.Rows,
		"columns":       result.Columns,
		"row_count":     result.RowCount,
		"model_used":    translation.ModelUsed,
	}
	if translation.Note != "" {
		resp["note"] = translation.Note
	}
	return c.JSON(resp)
}

// SQLQuery executes a direct query. Only SELECT statements are allowed.
func (h *QueryHandler) SQLQuery(c *fiber.Ctx) error {
	var req sqlQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success":    false,
			"error":      "SQL query is required",
			"error_type": "validation_error",
		})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{
			"success":    false,
			"error":      "SQL query is required",
			"error_type": "validation_error",
		})
	}

	query := strings.TrimSpace(req.SQL)
	if !strings.HasPrefix(strings.ToUpper(query), "SELECT") {
		return c.Status(400).JSON(fiber.Map{
			"success":    false,
			"error":      "Only SELECT queries are allowed",
			"error_type": "security_error",
		})
	}

	if err := h.queries.Validate(query); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success":    false,
			"error":      err.Error(),
			"error_type": "sql_error",
		})
	}

	result, err := h.queries.Execute(query)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success":    false,
			"error":      err.Error(),
			"error_type": "database_error",
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"data":      result.Rows,
		"columns":   result.Columns,
		"row_count": result.RowCount,
		"query":     result.Query,
	})
}

// Suggestions returns canned business questions for the frontend.
func (h *QueryHandler) Suggestions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":     true,
		"suggestions": h.service.Suggestions(),
	})
}
