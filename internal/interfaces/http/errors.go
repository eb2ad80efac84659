package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
)

// retryAfterSeconds valor de Retry-After para errores de concurrencia.
const retryAfterSeconds = 1

// writeError traduce errores de dominio a respuestas HTTP.
// Una inconsistencia gana sobre la causa que la originó, aunque venga unida a ella.
func writeError(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	var ce *domain.ConsistencyError
	if errors.As(err, &ce) {
		resp := dto.ErrorResponse{Code: "CONSISTENCY", Message: ce.Error()}
		if errors.As(err, &ve) {
			resp.Fields = toFieldErrors(ve.Fields)
		}
		return c.Status(fiber.StatusConflict).JSON(resp)
	}

	if errors.As(err, &ve) {
		status := fiber.StatusBadRequest
		if ve.Has(domain.CodeInsufficientStock) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "el movimiento no es válido",
			Fields:  toFieldErrors(ve.Fields),
		})
	}

	var ise *domain.InsufficientStockError
	if errors.As(err, &ise) {
		available, requested := ise.Available, ise.Requested
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    domain.CodeInsufficientStock,
			Message: ise.Error(),
			Fields: []dto.FieldErrorResponse{{
				Field:     "quantity",
				Code:      domain.CodeInsufficientStock,
				Message:   "stock insuficiente",
				Available: &available,
				Requested: &requested,
			}},
		})
	}

	switch {
	case errors.Is(err, domain.ErrConcurrency):
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "CONCURRENCY", Message: "el ítem está siendo modificado, reintente"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: domain.CodeInsufficientStock, Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConsistency):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONSISTENCY", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toFieldErrors(fields []domain.FieldError) []dto.FieldErrorResponse {
	out := make([]dto.FieldErrorResponse, 0, len(fields))
	for _, f := range fields {
		fe := dto.FieldErrorResponse{Field: f.Field, Code: f.Code, Message: f.Message, Role: f.Role}
		if f.Code == domain.CodeInsufficientStock {
			available, requested := f.Available, f.Requested
			fe.Available = &available
			fe.Requested = &requested
		}
		out = append(out, fe)
	}
	return out
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
