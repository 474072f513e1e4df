package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/orange-subscription/internal/models"
)

const userColumns = `id, username, phone, orange_money, password_hash, is_subscribed, subscribe_date`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var subscribeDate sql.NullTime
	if err := row.Scan(&u.ID, &u.Username, &u.Phone, &u.OrangeMoney, &u.PasswordHash,
		&u.IsSubscribed, &subscribeDate); err != nil {
		return nil, err
	}
	if subscribeDate.Valid {
		t := subscribeDate.Time
		u.SubscribeDate = &t
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его ID.
// Нарушение уникальности username или phone возвращается как models.ErrDuplicateIdentity.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (username, phone, orange_money, password_hash, is_subscribed, subscribe_date)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.Phone, user.OrangeMoney, user.PasswordHash,
		user.IsSubscribed, user.SubscribeDate).Scan(&newID); err != nil {
		return 0, translateError(op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, translateError(op, err)
	}
	return u, nil
}

// GetUserByOrangeMoney возвращает пользователя по номеру Orange Money.
// Номер сравнивается как строка без нормализации; при нескольких
// совпадениях берётся пользователь с наименьшим id.
func (s *Storage) GetUserByOrangeMoney(ctx context.Context, orangeMoney string) (*models.User, error) {
	const op = "storage.GetUserByOrangeMoney"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE orange_money = $1 ORDER BY id LIMIT 1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, orangeMoney))
	if err != nil {
		return nil, translateError(op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей в порядке регистрации.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ActivateSubscription одним UPDATE выставляет флаг подписки и дату активации.
func (s *Storage) ActivateSubscription(ctx context.Context, id int, at time.Time) error {
	const op = "storage.ActivateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_subscribed = true,
			      subscribe_date = $1
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(op, result)
}

// ExpireSubscription сбрасывает флаг подписки. Дата активации сохраняется.
func (s *Storage) ExpireSubscription(ctx context.Context, id int) error {
	const op = "storage.ExpireSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET is_subscribed = false WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(op, result)
}

func checkAffected(op string, result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}
