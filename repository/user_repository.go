package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"clubbet/database"
	"clubbet/domain/entities"
	"clubbet/domain/interfaces"
)

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q Queryable
}

// NewUserRepository creates a new user repository backed by the pool
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

func newUserRepositoryWithTx(tx Queryable) interfaces.UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `id, username, balance, created_at, updated_at`

func (r *UserRepository) scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(&user.ID, &user.Username, &user.Balance, &user.CreatedAt, &user.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by id, or nil if none exists
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := r.scanUser(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return user, nil
}

// GetByIDForUpdate retrieves a user and locks the row until the surrounding
// transaction ends, serializing concurrent balance checks against it.
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, userID int64) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	user, err := r.scanUser(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock user %d: %w", userID, err)
	}
	return user, nil
}

// Create creates a new user with the initial balance
func (r *UserRepository) Create(ctx context.Context, userID int64, username string, initialBalance int64) (*entities.User, error) {
	query := `
		INSERT INTO users (id, username, balance)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	user, err := r.scanUser(r.q.QueryRow(ctx, query, userID, username, initialBalance))
	if err != nil {
		return nil, fmt.Errorf("failed to create user %d: %w", userID, err)
	}
	return user, nil
}

// UpdateBalance updates a user's cached balance
func (r *UserRepository) UpdateBalance(ctx context.Context, userID int64, newBalance int64) error {
	query := `UPDATE users SET balance = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, userID, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", entities.ErrUserNotFound, userID)
	}
	return nil
}

// GetAll returns all users
func (r *UserRepository) GetAll(ctx context.Context) ([]*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		var user entities.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Balance, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}
