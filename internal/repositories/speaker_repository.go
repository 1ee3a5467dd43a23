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

type SpeakerRepository struct {
	DB *pgxpool.Pool
}

func NewSpeakerRepository(db *pgxpool.Pool) *SpeakerRepository {
	return &SpeakerRepository{DB: db}
}

const speakerColumns = `id, name, email, phone, COALESCE(bio, ''), COALESCE(topics, ''),
	COALESCE(fee_range, ''), COALESCE(location, ''), COALESCE(website, ''), rating,
	is_active, created_at, updated_at`

func scanSpeaker(row pgx.Row) (*models.Speaker, error) {
	s := &models.Speaker{}
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Email,
		&s.Phone,
		&s.Bio,
		&s.Topics,
		&s.FeeRange,
		&s.Location,
		&s.Website,
		&s.Rating,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SpeakerRepository) Create(ctx context.Context, s *models.Speaker) error {
	query := `
		INSERT INTO speakers (name, email, phone, bio, topics, fee_range, location, website)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, rating, is_active, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		s.Name, s.Email, s.Phone, s.Bio, s.Topics, s.FeeRange, s.Location, s.Website,
	).Scan(&s.ID, &s.Rating, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
}

func (r *SpeakerRepository) Get(ctx context.Context, id int) (*models.Speaker, error) {
	query := fmt.Sprintf("SELECT %s FROM speakers WHERE id = $1", speakerColumns)
	s, err := scanSpeaker(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSpeakerNotFound
	}
	return s, err
}

func (r *SpeakerRepository) List(ctx context.Context) ([]*models.Speaker, error) {
	query := fmt.Sprintf("SELECT %s FROM speakers WHERE is_active ORDER BY name", speakerColumns)
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var speakers []*models.Speaker
	for rows.Next() {
		s, err := scanSpeaker(rows)
		if err != nil {
			return nil, err
		}
		speakers = append(speakers, s)
	}
	return speakers, rows.Err()
}

// Search matches name or topics case-insensitively.
func (r *SpeakerRepository) Search(ctx context.Context, term string) ([]*models.Speaker, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM speakers
		WHERE is_active AND (name ILIKE $1 OR topics ILIKE $1)
		ORDER BY rating DESC, name
	`, speakerColumns)

	rows, err := r.DB.Query(ctx, query, "%"+term+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var speakers []*models.Speaker
	for rows.Next() {
		s, err := scanSpeaker(rows)
		if err != nil {
			return nil, err
		}
		speakers = append(speakers, s)
	}
	return speakers, rows.Err()
}

func (r *SpeakerRepository) Update(ctx context.Context, id int, req *models.UpdateSpeakerRequest) (*models.Speaker, error) {
	var sets []string
	var args []interface{}

	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Email != nil {
		add("email", *req.Email)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.Bio != nil {
		add("bio", *req.Bio)
	}
	if req.Topics != nil {
		add("topics", *req.Topics)
	}
	if req.FeeRange != nil {
		add("fee_range", *req.FeeRange)
	}
	if req.Location != nil {
		add("location", *req.Location)
	}
	if req.Website != nil {
		add("website", *req.Website)
	}
	if req.Rating != nil {
		add("rating", *req.Rating)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE speakers SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), speakerColumns)

	s, err := scanSpeaker(r.DB.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSpeakerNotFound
	}
	return s, err
}

func (r *SpeakerRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, "DELETE FROM speakers WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSpeakerNotFound
	}
	return nil
}
