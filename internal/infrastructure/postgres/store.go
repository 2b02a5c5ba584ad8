package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/vinoteca/backend/internal/domain"
)

// uniqueViolation is the Postgres error code for unique constraint failures
const uniqueViolation = "23505"

// Store is the relational backing for accounts and favorite wines. Favorites
// reference catalog wines by their upstream identifier through a local
// products table, so the catalog itself never touches the database.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres and verifies the connection
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// InitSchema creates the tables if they do not exist
func (s *Store) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		external_product_id TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS favorites (
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, product_id)
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Create inserts a new account and returns its id. A duplicate email maps to
// domain.ErrEmailTaken.
func (s *Store) Create(ctx context.Context, email, username, passwordHash string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (email, username, password_hash) VALUES ($1, NULLIF($2, ''), $3) RETURNING id`,
		email, username, passwordHash,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrEmailTaken
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// GetByEmail fetches an account by email, including the password hash for
// login verification.
func (s *Store) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx,
		`SELECT id, email, username, password_hash, created_at FROM users WHERE email = $1`, email)
}

// GetByID fetches an account by id
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUser(ctx,
		`SELECT id, email, username, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (s *Store) getUser(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var (
		user     domain.User
		username sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Email, &username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	user.Username = username.String
	return &user, nil
}

// List returns the external wine ids of a user's favorites
func (s *Store) List(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.external_product_id
		FROM favorites f
		JOIN products p ON f.product_id = p.id
		WHERE f.user_id = $1
		ORDER BY f.created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("select favorites: %w", err)
	}
	defer rows.Close()

	wineIDs := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		wineIDs = append(wineIDs, id)
	}
	return wineIDs, rows.Err()
}

// Add saves a wine as a favorite. The product row is upserted first so
// concurrent saves of a previously unseen wine cannot race; the favorites
// unique constraint turns a duplicate save into domain.ErrFavoriteExists.
func (s *Store) Add(ctx context.Context, userID int64, wineID string) error {
	var productID int64
	// DO UPDATE instead of DO NOTHING so RETURNING yields the id for the
	// already-existing row as well.
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO products (external_product_id) VALUES ($1)
		ON CONFLICT (external_product_id)
		DO UPDATE SET external_product_id = EXCLUDED.external_product_id
		RETURNING id`, wineID,
	).Scan(&productID)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, product_id) VALUES ($1, $2)`, userID, productID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrFavoriteExists
		}
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

// Remove deletes a favorite, reporting domain.ErrFavoriteNotFound when the
// wine was never saved.
func (s *Store) Remove(ctx context.Context, userID int64, wineID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM favorites f
		USING products p
		WHERE f.product_id = p.id AND f.user_id = $1 AND p.external_product_id = $2`,
		userID, wineID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if affected == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
