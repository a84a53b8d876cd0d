// Package api is the HTTP surface: a multipart upload endpoint that runs
// the statement parser and returns the typed result. Parser selection and
// the insufficient-data fallback to the generic parser live here, on the
// caller's side of the parse boundary.
package api

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cartaoclaro/fatura-parser/internal/extractor"
	"github.com/cartaoclaro/fatura-parser/internal/models"
	"github.com/cartaoclaro/fatura-parser/internal/parser"
	"github.com/cartaoclaro/fatura-parser/internal/writer"
)

const version = "1.0.0"

// ParseResponse is the JSON body of POST /api/parse. Statement is null when
// the document yielded too few transactions for every parser that was
// tried; that is a 200, not an error.
type ParseResponse struct {
	Success      bool                    `json:"success"`
	Error        string                  `json:"error,omitempty"`
	Bank         string                  `json:"bank,omitempty"`
	Parser       string                  `json:"parser,omitempty"`
	FallbackUsed bool                    `json:"fallbackUsed,omitempty"`
	Statement    *models.StatementRecord `json:"statement"`
	Metadata     models.Metadata         `json:"metadata"`
}

// Handler wires the endpoints to a parser configuration.
type Handler struct {
	Cfg parser.Config
	Log *slog.Logger
}

// Register sets up the API routes on the app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/parse", h.HandleParse)
}

// HandleHealth reports liveness and the registered parser names.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
		"banks":   parser.Banks(),
	})
}

// HandleParse accepts a multipart upload (field "file"), an optional "bank"
// form value selecting the parser, and an optional "format" of json
// (default) or csv.
func (h *Handler) HandleParse(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No file uploaded. Use form field 'file'.")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return badRequest(c, "Only PDF files are supported.")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "Could not open uploaded file.")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return badRequest(c, "Could not read uploaded file.")
	}

	bank := c.FormValue("bank")
	p := parser.ForBank(bank, h.Cfg)

	result, err := p.Parse(data)
	if err != nil {
		var malformed *extractor.MalformedDocumentError
		if errors.As(err, &malformed) {
			h.log().Warn("document decode failed",
				"file", fileHeader.Filename, "error", err)
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ParseResponse{
				Success: false,
				Error:   err.Error(),
				Bank:    bank,
				Parser:  p.Name(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ParseResponse{
			Success: false,
			Error:   err.Error(),
		})
	}

	// A bank parser that declines the document is not the end of the road:
	// retry once with the generic heuristics before reporting no data.
	fallbackUsed := false
	if result.InsufficientData() && p.Name() != "generic" {
		generic := parser.NewGeneric(h.Cfg)
		if retry, retryErr := generic.Parse(data); retryErr == nil && !retry.InsufficientData() {
			result = retry
			p = generic
			fallbackUsed = true
		}
	}

	result.SetSource(fileHeader.Filename)

	h.log().Info("parsed statement",
		"file", fileHeader.Filename,
		"parser", p.Name(),
		"fallback", fallbackUsed,
		"rows", result.Metadata.RowCount,
		"insufficientData", result.InsufficientData(),
		"totalMs", result.Metadata.Timings.TotalMs,
	)

	if c.FormValue("format") == "csv" {
		if result.InsufficientData() {
			return c.Status(fiber.StatusUnprocessableEntity).
				SendString("insufficient data: too few transactions detected")
		}
		var buf bytes.Buffer
		w := &writer.CSVWriter{IncludeHeader: true}
		if err := w.Write(&buf, result.Statement); err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		return c.Send(buf.Bytes())
	}

	return c.JSON(ParseResponse{
		Success:      true,
		Bank:         bank,
		Parser:       p.Name(),
		FallbackUsed: fallbackUsed,
		Statement:    result.Statement,
		Metadata:     result.Metadata,
	})
}

func (h *Handler) log() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ParseResponse{
		Success: false,
		Error:   msg,
	})
}

// NewApp builds the Fiber application with the upload ceiling applied.
func NewApp(bodyLimitMB int, cfg parser.Config, log *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "fatura-parser",
		BodyLimit: bodyLimitMB << 20,
	})
	h := &Handler{Cfg: cfg, Log: log}
	h.Register(app)
	return app
}
