package repositories

import (
	"context"
	"errors"
	"fmt"

	"bureau-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

const invoiceColumns = `id, invoice_number, project_id, client_name, client_email, company,
	amount, currency, status, due_date, paid_at, COALESCE(notes, ''),
	COALESCE(pdf_archive_key, ''), created_at, updated_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	inv := &models.Invoice{}
	err := row.Scan(
		&inv.ID,
		&inv.InvoiceNumber,
		&inv.ProjectID,
		&inv.ClientName,
		&inv.ClientEmail,
		&inv.Company,
		&inv.Amount,
		&inv.Currency,
		&inv.Status,
		&inv.DueDate,
		&inv.PaidAt,
		&inv.Notes,
		&inv.PDFArchiveKey,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// GenerateInvoiceNumber pulls the next value from a database sequence so
// numbering stays gapless-enough and O(1) under load.
func (r *InvoiceRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	var nextNum int
	err := r.DB.QueryRow(ctx, "SELECT nextval('invoice_number_sequence')").Scan(&nextNum)
	if err != nil {
		return "", fmt.Errorf("failed to get next invoice number: %w", err)
	}
	return fmt.Sprintf("INV-%06d", nextNum), nil
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	invoiceNumber, err := r.GenerateInvoiceNumber(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO invoices (invoice_number, project_id, client_name, client_email, company,
			amount, currency, status, due_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err = r.DB.QueryRow(ctx, query,
		invoiceNumber,
		inv.ProjectID,
		inv.ClientName,
		inv.ClientEmail,
		inv.Company,
		inv.Amount,
		inv.Currency,
		inv.Status,
		inv.DueDate,
		inv.Notes,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return err
	}

	inv.InvoiceNumber = invoiceNumber
	return nil
}

func (r *InvoiceRepository) Get(ctx context.Context, id int) (*models.Invoice, error) {
	query := fmt.Sprintf("SELECT %s FROM invoices WHERE id = $1", invoiceColumns)
	inv, err := scanInvoice(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	return inv, err
}

func (r *InvoiceRepository) GetByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	query := fmt.Sprintf("SELECT %s FROM invoices WHERE invoice_number = $1", invoiceColumns)
	inv, err := scanInvoice(r.DB.QueryRow(ctx, query, number))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	return inv, err
}

func (r *InvoiceRepository) ListByProject(ctx context.Context, projectID int) ([]*models.Invoice, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM invoices WHERE project_id = $1 ORDER BY created_at DESC", invoiceColumns)
	rows, err := r.DB.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) List(ctx context.Context) ([]*models.Invoice, error) {
	query := fmt.Sprintf("SELECT %s FROM invoices ORDER BY created_at DESC", invoiceColumns)
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) MarkPaid(ctx context.Context, id int) (*models.Invoice, error) {
	query := fmt.Sprintf(`
		UPDATE invoices SET status = 'paid', paid_at = NOW(), updated_at = NOW()
		WHERE id = $1 RETURNING %s
	`, invoiceColumns)
	inv, err := scanInvoice(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	return inv, err
}

func (r *InvoiceRepository) SetPDFArchiveKey(ctx context.Context, id int, key string) error {
	tag, err := r.DB.Exec(ctx,
		"UPDATE invoices SET pdf_archive_key = $1, updated_at = NOW() WHERE id = $2", key, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id int, status string) (*models.Invoice, error) {
	query := fmt.Sprintf(
		"UPDATE invoices SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING %s",
		invoiceColumns)
	inv, err := scanInvoice(r.DB.QueryRow(ctx, query, status, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	return inv, err
}
