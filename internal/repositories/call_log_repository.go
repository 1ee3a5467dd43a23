package repositories

import (
	"context"

	"bureau-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CallLogRepository struct {
	DB *pgxpool.Pool
}

func NewCallLogRepository(db *pgxpool.Pool) *CallLogRepository {
	return &CallLogRepository{DB: db}
}

func (r *CallLogRepository) Create(ctx context.Context, cl *models.CallLog) error {
	query := `
		INSERT INTO call_logs (deal_id, client_name, summary, outcome, logged_by, called_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(ctx, query,
		cl.DealID, cl.ClientName, cl.Summary, cl.Outcome, cl.LoggedBy, cl.CalledAt,
	).Scan(&cl.ID, &cl.CreatedAt)
}

func (r *CallLogRepository) ListByDeal(ctx context.Context, dealID int) ([]*models.CallLog, error) {
	query := `
		SELECT id, deal_id, client_name, summary, outcome, logged_by, called_at, created_at
		FROM call_logs
		WHERE deal_id = $1
		ORDER BY called_at DESC
	`
	rows, err := r.DB.Query(ctx, query, dealID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.CallLog
	for rows.Next() {
		cl := &models.CallLog{}
		err := rows.Scan(&cl.ID, &cl.DealID, &cl.ClientName, &cl.Summary, &cl.Outcome,
			&cl.LoggedBy, &cl.CalledAt, &cl.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, cl)
	}
	return logs, rows.Err()
}

func (r *CallLogRepository) List(ctx context.Context) ([]*models.CallLog, error) {
	query := `
		SELECT id, deal_id, client_name, summary, outcome, logged_by, called_at, created_at
		FROM call_logs
		ORDER BY called_at DESC
		LIMIT 200
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.CallLog
	for rows.Next() {
		cl := &models.CallLog{}
		err := rows.Scan(&cl.ID, &cl.DealID, &cl.ClientName, &cl.Summary, &cl.Outcome,
			&cl.LoggedBy, &cl.CalledAt, &cl.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, cl)
	}
	return logs, rows.Err()
}
