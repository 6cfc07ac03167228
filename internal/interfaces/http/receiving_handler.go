package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/application/receipts"
	"github.com/jhoicas/compras-api/internal/application/receiving"
	"github.com/jhoicas/compras-api/internal/domain"
)

// ReceivingHandler maneja las peticiones HTTP del motor de recepción (protegido).
type ReceivingHandler struct {
	uc    *receiving.ReceiveOrderUseCase
	pdfUC *receipts.PDFUseCase
}

// NewReceivingHandler construye el handler.
func NewReceivingHandler(uc *receiving.ReceiveOrderUseCase, pdfUC *receipts.PDFUseCase) *ReceivingHandler {
	return &ReceivingHandler{uc: uc, pdfUC: pdfUC}
}

// Receive godoc
// @Summary      Registrar recepción de mercancía contra una orden de compra
// @Description  Valida las líneas, crea la recepción (cabecera + líneas en una
//
//	transacción), aplica stock y asientos por cada línea aceptada y
//	reconcilia el estado de la orden. Las líneas que fallan en la fase
//	de inventario se reportan en summary.failures sin anular el resto.
//
// @Tags         receiving
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden de compra"
// @Param        body  body  dto.ReceiveOrderRequest  true  "Líneas de la recepción"
// @Success      201   {object}  dto.ReceiveOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *ReceivingHandler) Receive(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	orderID := c.Params("id")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id de la orden es requerido"})
	}
	var in dto.ReceiveOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	out, err := h.uc.Receive(c.Context(), companyID, userID, orderID, in)
	if err != nil {
		return receivingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListReceipts godoc
// @Summary      Histórico de recepciones de una orden de compra
// @Tags         receiving
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden de compra"
// @Success      200  {array}   dto.ReceiptResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [get]
func (h *ReceivingHandler) ListReceipts(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	orderID := c.Params("id")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id de la orden es requerido"})
	}
	list, err := h.uc.ListReceipts(c.Context(), companyID, orderID)
	if err != nil {
		return receivingError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "receipts": list})
}

// DownloadReceiptPDF godoc
// @Summary      Comprobante PDF de una recepción
// @Tags         receiving
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/pdf [get]
func (h *ReceivingHandler) DownloadReceiptPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	receiptID := c.Params("id")
	if receiptID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id de la recepción es requerido"})
	}
	pdfBytes, filename, err := h.pdfUC.DownloadReceiptPDF(c.Context(), companyID, receiptID)
	if err != nil {
		return receivingError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// receivingError traduce los errores de dominio del motor de recepción
// al contrato HTTP.
func receivingError(c *fiber.Ctx, err error) error {
	var overReceipt *domain.OverReceiptError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.As(err, &overReceipt), errors.Is(err, domain.ErrOverReceipt):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "OVER_RECEIPT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "la orden no está en un estado que permita recepciones"})
	case errors.Is(err, domain.ErrInactiveWarehouse):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INACTIVE_WAREHOUSE", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
