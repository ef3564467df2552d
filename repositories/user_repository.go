package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/ponbac/rolf-time/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, name, description, avatar string) error
	UpdatePredictions(ctx context.Context, id string, predictions []models.GroupPrediction) error
	UpdateScore(ctx context.Context, id string, score int) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, description, avatar, email, role, password_hash, score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID,
		user.Name,
		user.Description,
		user.Avatar,
		user.Email,
		user.Role,
		user.PasswordHash,
		user.Score,
	).Scan(&user.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrUserEmailConflict
		}
		return err
	}
	return nil
}

const userSelect = `
	SELECT id, name, description, avatar, email, role, password_hash, score, predictions, created_at
	FROM users`

func (r *postgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE id = $1`, id))
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE email = $1`, email))
}

func (r *postgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, userSelect+` ORDER BY score DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *postgresUserRepository) UpdateProfile(ctx context.Context, id string, name, description, avatar string) error {
	query := `
		UPDATE users SET
			name = $1,
			description = $2,
			avatar = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, name, description, avatar, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

// UpdatePredictions persists the whole prediction set as one serialized
// blob, last write wins. This matches the storage shape the web client has
// always used.
func (r *postgresUserRepository) UpdatePredictions(ctx context.Context, id string, predictions []models.GroupPrediction) error {
	blob, err := json.Marshal(predictions)
	if err != nil {
		return fmt.Errorf("failed to serialize predictions: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `UPDATE users SET predictions = $1 WHERE id = $2`, blob, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdateScore(ctx context.Context, id string, score int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET score = $1 WHERE id = $2`, score, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUserRow(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var user models.User
	var predictionsBlob sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Description,
		&user.Avatar,
		&user.Email,
		&user.Role,
		&user.PasswordHash,
		&user.Score,
		&predictionsBlob,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if predictionsBlob.Valid && predictionsBlob.String != "" {
		if err := json.Unmarshal([]byte(predictionsBlob.String), &user.Predictions); err != nil {
			return nil, fmt.Errorf("failed to deserialize predictions for user %s: %w", user.ID, err)
		}
		models.NormalizeLegacyWinners(user.Predictions)
	}

	return &user, nil
}
