package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-valuacion/internal/application/dto"
	"github.com/jhoicas/Inventario-valuacion/internal/application/valuation"
	"github.com/jhoicas/Inventario-valuacion/internal/domain"
	"github.com/jhoicas/Inventario-valuacion/internal/domain/repository"
	"github.com/jhoicas/Inventario-valuacion/internal/infrastructure/export"
)

// Campos multipart de POST /api/valuations.
const (
	FieldMovements = "movements"
	FieldSnapshot  = "snapshot"
)

// ValuationRunner ejecuta una corrida completa (implementado por valuation.RunUseCase).
type ValuationRunner interface {
	Execute(ctx context.Context, req valuation.Request) (*valuation.Result, error)
}

var _ ValuationRunner = (*valuation.RunUseCase)(nil)

// ValuationHandler maneja las peticiones HTTP de valuación.
type ValuationHandler struct {
	uc      ValuationRunner
	summary repository.SummaryRepository
}

// NewValuationHandler construye el handler. summary puede ser nil.
func NewValuationHandler(uc ValuationRunner, summary repository.SummaryRepository) *ValuationHandler {
	return &ValuationHandler{uc: uc, summary: summary}
}

// Create godoc
// @Summary      Valorizar inventario a partir del libro de movimientos
// @Tags         valuations
// @Accept       multipart/form-data
// @Produce      json
// @Param        movements  formData  file    true   "uno o más CSV de movimientos, en orden"
// @Param        snapshot   formData  file    false  "CSV de inventario inicial"
// @Param        format     query     string  false  "json (defecto), csv o xml"
// @Success      200  {object}  dto.ValuationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/valuations [post]
func (h *ValuationHandler) Create(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("format", "json"))
	if format != "json" && format != export.FormatCSV && format != export.FormatXML {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "format debe ser json, csv o xml"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "se espera multipart/form-data"})
	}

	var files []multipart.File
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()
	open := func(fh *multipart.FileHeader) (valuation.Input, error) {
		f, err := fh.Open()
		if err != nil {
			return valuation.Input{}, err
		}
		files = append(files, f)
		return valuation.Input{Name: fh.Filename, Reader: f}, nil
	}

	var req valuation.Request
	for _, fh := range form.File[FieldMovements] {
		in, err := open(fh)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
		}
		req.Movements = append(req.Movements, in)
	}
	if snaps := form.File[FieldSnapshot]; len(snaps) > 0 {
		in, err := open(snaps[0])
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
		}
		req.Snapshot = &in
	}

	res, err := h.uc.Execute(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}

	switch format {
	case export.FormatCSV:
		return sendExport(c, "text/csv; charset=utf-8", "stock_summary.csv", func(w io.Writer) error {
			return export.WriteCSV(w, res.Rows)
		})
	case export.FormatXML:
		return sendExport(c, "application/xml; charset=utf-8", "stock_summary.xml", func(w io.Writer) error {
			return export.WriteXML(w, res)
		})
	}
	return c.Status(fiber.StatusOK).JSON(dto.ToValuationResponse(res))
}

// GetRun godoc
// @Summary      Resumen persistido de una corrida
// @Tags         valuations
// @Produce      json
// @Param        runId  path  string  true  "ID de corrida"
// @Success      200  {object}  dto.RunPositionsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/valuations/{runId} [get]
func (h *ValuationHandler) GetRun(c *fiber.Ctx) error {
	runID := c.Params("runId")
	rows, err := h.summary.ListRun(c.UserContext(), runID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if rows == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "corrida no encontrada"})
	}
	return c.JSON(dto.RunPositionsResponse{RunID: runID, Positions: dto.ToPositionDTOs(rows)})
}

// GetLatest godoc
// @Summary      Resumen de la corrida más reciente
// @Tags         valuations
// @Produce      json
// @Success      200  {object}  dto.RunPositionsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/valuations/latest [get]
func (h *ValuationHandler) GetLatest(c *fiber.Ctx) error {
	runID, err := h.summary.LatestRun(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if runID == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no hay corridas registradas"})
	}
	rows, err := h.summary.ListRun(c.UserContext(), runID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.RunPositionsResponse{RunID: runID, Positions: dto.ToPositionDTOs(rows)})
}

func sendExport(c *fiber.Ctx, contentType, filename string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

// writeError traduce los errores de dominio a status HTTP.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrMissingColumn):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_COLUMN", Message: err.Error()})
	case errors.Is(err, domain.ErrMalformedInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MALFORMED_INPUT", Message: err.Error()})
	case errors.Is(err, domain.ErrNoInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NO_INPUT", Message: "se requiere al menos un archivo en el campo movements"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNegativePurchasePrice):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NEGATIVE_PURCHASE_PRICE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
