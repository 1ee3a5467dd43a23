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

type ProjectRepository struct {
	DB *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

const projectColumns = `id, deal_id, project_name, client_name, client_email, client_phone,
	company, project_type, COALESCE(description, ''), status, priority, start_date, deadline,
	budget, spent, completion_percentage, event_date, COALESCE(event_location, ''),
	COALESCE(event_type, ''), COALESCE(billing_contact, ''), COALESCE(logistics_contact, ''),
	COALESCE(speaker_name, ''), speaker_fee, commission_percentage, commission_amount,
	COALESCE(tags, ''), created_at, updated_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	p := &models.Project{}
	err := row.Scan(
		&p.ID,
		&p.DealID,
		&p.ProjectName,
		&p.ClientName,
		&p.ClientEmail,
		&p.ClientPhone,
		&p.Company,
		&p.ProjectType,
		&p.Description,
		&p.Status,
		&p.Priority,
		&p.StartDate,
		&p.Deadline,
		&p.Budget,
		&p.Spent,
		&p.CompletionPercentage,
		&p.EventDate,
		&p.EventLocation,
		&p.EventType,
		&p.BillingContact,
		&p.LogisticsContact,
		&p.SpeakerName,
		&p.SpeakerFee,
		&p.CommissionPercentage,
		&p.CommissionAmount,
		&p.Tags,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateForDeal inserts the project derived from a won deal. The deal_id
// column carries a UNIQUE constraint, so a duplicate derivation (retries,
// concurrent won transitions) results in ErrDuplicateProject rather than a
// second project row.
func (r *ProjectRepository) CreateForDeal(ctx context.Context, p *models.Project) error {
	query := `
		INSERT INTO projects (deal_id, project_name, client_name, client_email, client_phone,
			company, project_type, description, status, priority, start_date, deadline, budget,
			event_date, event_location, event_type, billing_contact, logistics_contact,
			speaker_name, speaker_fee, commission_percentage, commission_amount, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23)
		ON CONFLICT (deal_id) DO NOTHING
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		p.DealID,
		p.ProjectName,
		p.ClientName,
		p.ClientEmail,
		p.ClientPhone,
		p.Company,
		p.ProjectType,
		p.Description,
		p.Status,
		p.Priority,
		p.StartDate,
		p.Deadline,
		p.Budget,
		p.EventDate,
		p.EventLocation,
		p.EventType,
		p.BillingContact,
		p.LogisticsContact,
		p.SpeakerName,
		p.SpeakerFee,
		p.CommissionPercentage,
		p.CommissionAmount,
		p.Tags,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict path: a project for this deal already exists.
		return ErrDuplicateProject
	}
	return err
}

func (r *ProjectRepository) Get(ctx context.Context, id int) (*models.Project, error) {
	query := fmt.Sprintf("SELECT %s FROM projects WHERE id = $1", projectColumns)
	p, err := scanProject(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	return p, err
}

func (r *ProjectRepository) GetByDealID(ctx context.Context, dealID int) (*models.Project, error) {
	query := fmt.Sprintf("SELECT %s FROM projects WHERE deal_id = $1", projectColumns)
	p, err := scanProject(r.DB.QueryRow(ctx, query, dealID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	return p, err
}

func (r *ProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	query := fmt.Sprintf("SELECT %s FROM projects ORDER BY updated_at DESC", projectColumns)
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, id int, req *models.UpdateProjectRequest) (*models.Project, error) {
	var sets []string
	var args []interface{}

	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.ProjectName != nil {
		add("project_name", *req.ProjectName)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.Priority != nil {
		add("priority", *req.Priority)
	}
	if req.StartDate != nil {
		add("start_date", *req.StartDate)
	}
	if req.Deadline != nil {
		add("deadline", *req.Deadline)
	}
	if req.Budget != nil {
		add("budget", *req.Budget)
	}
	if req.Spent != nil {
		add("spent", *req.Spent)
	}
	if req.CompletionPercentage != nil {
		add("completion_percentage", *req.CompletionPercentage)
	}
	if req.BillingContact != nil {
		add("billing_contact", *req.BillingContact)
	}
	if req.LogisticsContact != nil {
		add("logistics_contact", *req.LogisticsContact)
	}
	if req.SpeakerName != nil {
		add("speaker_name", *req.SpeakerName)
	}
	if req.Tags != nil {
		add("tags", *req.Tags)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE projects SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), projectColumns)

	p, err := scanProject(r.DB.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	return p, err
}

func (r *ProjectRepository) UpdateStatus(ctx context.Context, id int, status models.ProjectStatus) (*models.Project, error) {
	query := fmt.Sprintf(
		"UPDATE projects SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING %s",
		projectColumns)
	p, err := scanProject(r.DB.QueryRow(ctx, query, status, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	return p, err
}

func (r *ProjectRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}
