package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ai-mommy/photobooth-bot/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// querier is the subset of pgxpool.Pool the store queries through; tests
// substitute a mock here.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresStore struct {
	pool *pgxpool.Pool
	db   querier
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = buildPostgresDSNFromEnv()
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{pool: pool, db: pool}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func buildPostgresDSNFromEnv() string {
	host := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(os.Getenv("POSTGRES_PORT"))
	if port == "" {
		port = "5432"
	}
	db := strings.TrimSpace(os.Getenv("POSTGRES_DB"))
	if db == "" {
		db = "photobooth"
	}
	user := strings.TrimSpace(os.Getenv("POSTGRES_USER"))
	if user == "" {
		user = "photobooth"
	}
	pass := os.Getenv("POSTGRES_PASSWORD")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", urlEscape(user), urlEscape(pass), host, port, db)
}

func urlEscape(s string) string {
	r := strings.NewReplacer(
		"%", "%25",
		":", "%3A",
		"/", "%2F",
		"@", "%40",
		"?", "%3F",
		"#", "%23",
		"[", "%5B",
		"]", "%5D",
	)
	return r.Replace(s)
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDB(*s.pool.Config().ConnConfig)
	defer db.Close()

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

func (s *PostgresStore) CreateOrder(userID int64, serviceType string) (*types.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	order := &types.Order{
		ID:          uuid.New().String(),
		UserID:      userID,
		ServiceType: strings.TrimSpace(serviceType),
		Status:      types.StatusPending,
	}
	err := s.db.QueryRow(ctx, `
INSERT INTO orders (id, user_id, service_type, status)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at
`, order.ID, order.UserID, order.ServiceType, order.Status).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *PostgresStore) GetOrder(orderID string) (*types.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		o         types.Order
		inputRaw  []byte
		resultRaw []byte
	)
	err := s.db.QueryRow(ctx, `
SELECT id, user_id, service_type, status, input, result, created_at, updated_at
FROM orders
WHERE id = $1
`, orderID).Scan(&o.ID, &o.UserID, &o.ServiceType, &o.Status, &inputRaw, &resultRaw, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if len(inputRaw) > 0 {
		if err := json.Unmarshal(inputRaw, &o.Input); err != nil {
			return nil, fmt.Errorf("decode order input: %w", err)
		}
	}
	if len(resultRaw) > 0 {
		if err := json.Unmarshal(resultRaw, &o.Result); err != nil {
			return nil, fmt.Errorf("decode order result: %w", err)
		}
	}
	return &o, nil
}

func (s *PostgresStore) GetUserOrders(userID int64) ([]*types.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := s.db.Query(ctx, `
SELECT id, user_id, service_type, status, input, result, created_at, updated_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*types.Order, 0)
	for rows.Next() {
		var (
			o         types.Order
			inputRaw  []byte
			resultRaw []byte
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.ServiceType, &o.Status, &inputRaw, &resultRaw, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		if len(inputRaw) > 0 {
			_ = json.Unmarshal(inputRaw, &o.Input)
		}
		if len(resultRaw) > 0 {
			_ = json.Unmarshal(resultRaw, &o.Result)
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

// allowedFrom lists the statuses from which target is reachable, per the
// order status graph.
func allowedFrom(target types.OrderStatus) []string {
	all := []types.OrderStatus{
		types.StatusPending, types.StatusPaid, types.StatusProcessing,
		types.StatusCompleted, types.StatusFailed, types.StatusCanceled,
	}
	from := make([]string, 0, 2)
	for _, s := range all {
		if s.CanTransitionTo(target) {
			from = append(from, string(s))
		}
	}
	return from
}

// UpdateStatus performs a compare-and-set transition so concurrent callers
// cannot push an order through an illegal edge.
func (s *PostgresStore) UpdateStatus(orderID string, status types.OrderStatus) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tag, err := s.db.Exec(ctx, `
UPDATE orders
SET status = $2, updated_at = NOW()
WHERE id = $1 AND status = ANY($3)
`, orderID, status, allowedFrom(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	return s.classifyRejectedTransition(ctx, orderID)
}

// MarkCompleted transitions processing -> completed and stores the result
// payload in the same statement. The result is written only on this edge.
func (s *PostgresStore) MarkCompleted(orderID string, result []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resultRaw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode order result: %w", err)
	}

	tag, err := s.db.Exec(ctx, `
UPDATE orders
SET status = $2, result = $3, updated_at = NOW()
WHERE id = $1 AND status = $4
`, orderID, types.StatusCompleted, resultRaw, types.StatusProcessing)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	return s.classifyRejectedTransition(ctx, orderID)
}

func (s *PostgresStore) classifyRejectedTransition(ctx context.Context, orderID string) error {
	var current types.OrderStatus
	err := s.db.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return err
	}
	if current.Terminal() {
		return ErrAlreadyFinalized
	}
	return ErrInvalidTransition
}

func (s *PostgresStore) SetInput(orderID string, input map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	inputRaw, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("encode order input: %w", err)
	}

	tag, err := s.db.Exec(ctx, `
UPDATE orders
SET input = $2, updated_at = NOW()
WHERE id = $1
`, orderID, inputRaw)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (s *PostgresStore) RecordPayment(orderID, providerPaymentID string, amount int64, currency string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tag, err := s.db.Exec(ctx, `
INSERT INTO payments (order_id, provider_payment_id, amount, currency)
VALUES ($1, $2, $3, $4)
ON CONFLICT (order_id) DO NOTHING
`, orderID, strings.TrimSpace(providerPaymentID), amount, strings.TrimSpace(currency))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicatePayment
	}
	return nil
}

func (s *PostgresStore) GetPaymentByOrder(orderID string) (*types.Payment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var p types.Payment
	err := s.db.QueryRow(ctx, `
SELECT id, order_id, provider_payment_id, amount, currency, created_at
FROM payments
WHERE order_id = $1
`, orderID).Scan(&p.ID, &p.OrderID, &p.ProviderPaymentID, &p.Amount, &p.Currency, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) UpsertUser(user types.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.db.Exec(ctx, `
INSERT INTO users (user_id, chat_id, username, first_name, last_name)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE SET
  chat_id = EXCLUDED.chat_id,
  username = EXCLUDED.username,
  first_name = EXCLUDED.first_name,
  last_name = EXCLUDED.last_name,
  last_seen = NOW();
`, user.UserID, user.ChatID, strings.TrimSpace(user.Username), strings.TrimSpace(user.FirstName), strings.TrimSpace(user.LastName))
	return err
}

func (s *PostgresStore) GetUser(userID int64) (*types.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var u types.User
	err := s.db.QueryRow(ctx, `
SELECT user_id, chat_id, username, first_name, last_name, first_seen, last_seen
FROM users
WHERE user_id = $1
`, userID).Scan(&u.UserID, &u.ChatID, &u.Username, &u.FirstName, &u.LastName, &u.FirstSeen, &u.LastSeen)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
