// Package receipts genera el documento imprimible de una recepción de
// mercancía (comprobante de entrada a bodega).
package receipts

import (
	"context"
	"fmt"

	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

// ReceiptPDFGenerator puerto hacia la infraestructura de PDF.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(
		ctx context.Context,
		receipt *entity.PurchaseReceipt,
		order *entity.PurchaseOrder,
		supplier *entity.Supplier,
		company *entity.Company,
	) ([]byte, error)
}

// PDFUseCase genera el comprobante PDF de una recepción.
type PDFUseCase struct {
	receiptRepo  repository.PurchaseReceiptRepository
	orderRepo    repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	companyRepo  repository.CompanyRepository
	generator    ReceiptPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(
	receiptRepo repository.PurchaseReceiptRepository,
	orderRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	companyRepo repository.CompanyRepository,
	generator ReceiptPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		receiptRepo:  receiptRepo,
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		companyRepo:  companyRepo,
		generator:    generator,
	}
}

// DownloadReceiptPDF recupera recepción, orden, proveedor y empresa, verifica
// pertenencia y genera el PDF. Devuelve bytes y nombre de archivo sugerido.
func (uc *PDFUseCase) DownloadReceiptPDF(ctx context.Context, companyID, receiptID string) ([]byte, string, error) {
	receipt, err := uc.receiptRepo.GetByID(receiptID)
	if err != nil {
		return nil, "", err
	}
	if receipt == nil {
		return nil, "", domain.ErrNotFound
	}
	order, err := uc.orderRepo.GetByID(receipt.PurchaseOrderID)
	if err != nil {
		return nil, "", err
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}
	supplier, err := uc.supplierRepo.GetByID(order.SupplierID)
	if err != nil {
		return nil, "", err
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, "", err
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}

	pdf, err := uc.generator.GenerateReceiptPDF(ctx, receipt, order, supplier, company)
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF de recepción: %w", err)
	}
	filename := fmt.Sprintf("%s.pdf", receipt.ReceiptNumber)
	return pdf, filename, nil
}
