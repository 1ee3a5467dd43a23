package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bureau-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DealRepository struct {
	DB *pgxpool.Pool
}

func NewDealRepository(db *pgxpool.Pool) *DealRepository {
	return &DealRepository{DB: db}
}

const dealColumns = `id, client_name, client_email, client_phone, company, event_title,
	event_date, event_location, event_type, attendee_count, budget_range, deal_value,
	status, priority, source, COALESCE(notes, ''), COALESCE(speaker_requested, ''),
	COALESCE(speaker_name, ''), contract_signed, created_at, updated_at`

func scanDeal(row pgx.Row) (*models.Deal, error) {
	deal := &models.Deal{}
	err := row.Scan(
		&deal.ID,
		&deal.ClientName,
		&deal.ClientEmail,
		&deal.ClientPhone,
		&deal.Company,
		&deal.EventTitle,
		&deal.EventDate,
		&deal.EventLocation,
		&deal.EventType,
		&deal.AttendeeCount,
		&deal.BudgetRange,
		&deal.DealValue,
		&deal.Status,
		&deal.Priority,
		&deal.Source,
		&deal.Notes,
		&deal.SpeakerRequested,
		&deal.SpeakerName,
		&deal.ContractSigned,
		&deal.CreatedAt,
		&deal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return deal, nil
}

func (r *DealRepository) Create(ctx context.Context, deal *models.Deal) error {
	query := `
		INSERT INTO deals (client_name, client_email, client_phone, company, event_title,
			event_date, event_location, event_type, attendee_count, budget_range, deal_value,
			status, priority, source, notes, speaker_requested)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		deal.ClientName,
		deal.ClientEmail,
		deal.ClientPhone,
		deal.Company,
		deal.EventTitle,
		deal.EventDate,
		deal.EventLocation,
		deal.EventType,
		deal.AttendeeCount,
		deal.BudgetRange,
		deal.DealValue,
		deal.Status,
		deal.Priority,
		deal.Source,
		deal.Notes,
		deal.SpeakerRequested,
	).Scan(&deal.ID, &deal.CreatedAt, &deal.UpdatedAt)
}

func (r *DealRepository) Get(ctx context.Context, id int) (*models.Deal, error) {
	query := fmt.Sprintf("SELECT %s FROM deals WHERE id = $1", dealColumns)
	deal, err := scanDeal(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDealNotFound
	}
	return deal, err
}

func (r *DealRepository) List(ctx context.Context) ([]*models.Deal, error) {
	query := fmt.Sprintf("SELECT %s FROM deals ORDER BY updated_at DESC", dealColumns)
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []*models.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	return deals, rows.Err()
}

// dealUpdateSet builds the SET clause for a partial update. Nil fields are
// skipped so unspecified columns keep their stored values.
func dealUpdateSet(req *models.UpdateDealRequest) (string, []interface{}) {
	var sets []string
	var args []interface{}

	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.ClientName != nil {
		add("client_name", *req.ClientName)
	}
	if req.ClientEmail != nil {
		add("client_email", *req.ClientEmail)
	}
	if req.ClientPhone != nil {
		add("client_phone", *req.ClientPhone)
	}
	if req.Company != nil {
		add("company", *req.Company)
	}
	if req.EventTitle != nil {
		add("event_title", *req.EventTitle)
	}
	if req.EventDate != nil {
		add("event_date", *req.EventDate)
	}
	if req.EventLocation != nil {
		add("event_location", *req.EventLocation)
	}
	if req.EventType != nil {
		add("event_type", *req.EventType)
	}
	if req.AttendeeCount != nil {
		add("attendee_count", *req.AttendeeCount)
	}
	if req.BudgetRange != nil {
		add("budget_range", *req.BudgetRange)
	}
	if req.DealValue != nil {
		add("deal_value", *req.DealValue)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.Priority != nil {
		add("priority", *req.Priority)
	}
	if req.Source != nil {
		add("source", *req.Source)
	}
	if req.Notes != nil {
		add("notes", *req.Notes)
	}
	if req.SpeakerRequested != nil {
		add("speaker_requested", *req.SpeakerRequested)
	}
	if req.SpeakerName != nil {
		add("speaker_name", *req.SpeakerName)
	}
	if req.ContractSigned != nil {
		add("contract_signed", *req.ContractSigned)
	}

	sets = append(sets, "updated_at = NOW()")
	return strings.Join(sets, ", "), args
}

// UpdateWithStatus applies a partial update inside a single transaction and
// returns both the updated deal and the status it had before the write. The
// row lock serializes concurrent updates to the same deal, so the won-entry
// comparison in the service layer cannot race.
func (r *DealRepository) UpdateWithStatus(ctx context.Context, id int, req *models.UpdateDealRequest) (*models.Deal, models.DealStatus, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to begin deal update: %w", err)
	}
	defer tx.Rollback(ctx)

	var oldStatus models.DealStatus
	err = tx.QueryRow(ctx, "SELECT status FROM deals WHERE id = $1 FOR UPDATE", id).Scan(&oldStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", ErrDealNotFound
	}
	if err != nil {
		return nil, "", err
	}

	setClause, args := dealUpdateSet(req)
	args = append(args, id)
	query := fmt.Sprintf("UPDATE deals SET %s WHERE id = $%d RETURNING %s",
		setClause, len(args), dealColumns)

	deal, err := scanDeal(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, "", fmt.Errorf("failed to commit deal update: %w", err)
	}
	return deal, oldStatus, nil
}

func (r *DealRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM deals WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDealNotFound
	}
	return nil
}
