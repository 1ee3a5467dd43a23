package services

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"bureau-backend/internal/models"
	"bureau-backend/internal/repositories"
	"bureau-backend/internal/storage"

	"github.com/jung-kurt/gofpdf/v2"
)

// InvoiceService creates and renders invoices for projects. PDF archival to
// object storage is best effort: a missing or failing archive never blocks
// invoice creation or download.
type InvoiceService struct {
	Repo     *repositories.InvoiceRepository
	Projects *repositories.ProjectRepository
	archive  *storage.Archive // nil when object storage is not configured
}

func NewInvoiceService(repo *repositories.InvoiceRepository, projects *repositories.ProjectRepository) *InvoiceService {
	return &InvoiceService{Repo: repo, Projects: projects}
}

// SetArchive wires the optional document archive.
func (s *InvoiceService) SetArchive(archive *storage.Archive) {
	s.archive = archive
}

func (s *InvoiceService) CreateInvoice(ctx context.Context, req *models.CreateInvoiceRequest) (*models.Invoice, error) {
	project, err := s.Projects.Get(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	amount := req.Amount
	if amount == 0 {
		amount = project.Budget
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	inv := &models.Invoice{
		ProjectID:   project.ID,
		ClientName:  project.ClientName,
		ClientEmail: project.ClientEmail,
		Company:     project.Company,
		Amount:      amount,
		Currency:    currency,
		Status:      models.InvoiceStatusDraft,
		DueDate:     req.DueDate,
		Notes:       req.Notes,
	}
	if err := s.Repo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.archivePDF(ctx, inv, project)
	return inv, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, id int) (*models.Invoice, error) {
	return s.Repo.Get(ctx, id)
}

func (s *InvoiceService) GetInvoiceByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	return s.Repo.GetByNumber(ctx, number)
}

func (s *InvoiceService) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	return s.Repo.List(ctx)
}

func (s *InvoiceService) ListByProject(ctx context.Context, projectID int) ([]*models.Invoice, error) {
	return s.Repo.ListByProject(ctx, projectID)
}

func (s *InvoiceService) UpdateStatus(ctx context.Context, id int, status string) (*models.Invoice, error) {
	switch status {
	case models.InvoiceStatusDraft, models.InvoiceStatusSent,
		models.InvoiceStatusPaid, models.InvoiceStatusVoid:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if status == models.InvoiceStatusPaid {
		return s.Repo.MarkPaid(ctx, id)
	}
	return s.Repo.UpdateStatus(ctx, id, status)
}

// RenderPDF builds the invoice PDF in memory.
func (s *InvoiceService) RenderPDF(ctx context.Context, id int) ([]byte, error) {
	inv, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	project, err := s.Projects.Get(ctx, inv.ProjectID)
	if err != nil {
		return nil, err
	}
	return renderInvoicePDF(inv, project)
}

func (s *InvoiceService) archivePDF(ctx context.Context, inv *models.Invoice, project *models.Project) {
	if s.archive == nil {
		return
	}
	data, err := renderInvoicePDF(inv, project)
	if err != nil {
		log.Printf("[Invoices] PDF render for archive failed: %v", err)
		return
	}
	key := fmt.Sprintf("invoices/%s.pdf", inv.InvoiceNumber)
	if err := s.archive.PutDocument(ctx, key, "application/pdf", data); err != nil {
		log.Printf("[Invoices] Archive upload failed for %s: %v", inv.InvoiceNumber, err)
		return
	}
	if err := s.Repo.SetPDFArchiveKey(ctx, inv.ID, key); err != nil {
		log.Printf("[Invoices] Failed to record archive key for %s: %v", inv.InvoiceNumber, err)
	}
}

func renderInvoicePDF(inv *models.Invoice, project *models.Project) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(190, 12, "INVOICE", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Invoice %s - %s", inv.InvoiceNumber,
		inv.CreatedAt.Format("Jan 2, 2006")), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(190, 8, "Bill To", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 7, fmt.Sprintf("Client: %s", inv.ClientName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Company: %s", inv.Company), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(190, 7, fmt.Sprintf("Email: %s", inv.ClientEmail), "LRB", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(190, 8, "Engagement", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 7, fmt.Sprintf("Project: %s", project.ProjectName), "LRB", 1, "L", false, 0, "")
	if project.EventDate != nil {
		pdf.CellFormat(95, 7, fmt.Sprintf("Event date: %s", project.EventDate.Format("Jan 2, 2006")), "LB", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, fmt.Sprintf("Location: %s", project.EventLocation), "RB", 1, "L", false, 0, "")
	}
	if project.SpeakerName != "" {
		pdf.CellFormat(190, 7, fmt.Sprintf("Speaker: %s", project.SpeakerName), "LRB", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(140, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Amount", "1", 1, "R", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(140, 7, fmt.Sprintf("Speaking engagement: %s", project.ProjectName), "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, fmt.Sprintf("%s %.2f", inv.Currency, inv.Amount), "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(140, 8, "Total due", "1", 0, "R", false, 0, "")
	pdf.CellFormat(50, 8, fmt.Sprintf("%s %.2f", inv.Currency, inv.Amount), "1", 1, "R", false, 0, "")

	if inv.DueDate != nil {
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(190, 6, fmt.Sprintf("Payment due by %s", inv.DueDate.Format("Jan 2, 2006")), "", 1, "L", false, 0, "")
	}
	if inv.Notes != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(190, 5, inv.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice PDF: %w", err)
	}
	return buf.Bytes(), nil
}
