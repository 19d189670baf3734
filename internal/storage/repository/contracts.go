package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/contrato-facil/internal/models"
	"github.com/magabrotheeeer/contrato-facil/internal/storage"
)

// InsertContract сохраняет договор и увеличивает счётчик договоров профиля в одной транзакции.
// Счётчик растёт только пока он меньше limit, иначе вставка откатывается с storage.ErrQuotaExceeded.
func (s *Storage) InsertContract(ctx context.Context, c models.Contract, limit int) (*models.Contract, error) {
	const op = "storage.InsertContract"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	vars := c.Variables
	if vars == nil {
		vars = models.FormValues{}
	}
	varsJSON, err := json.Marshal(vars)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var logo sql.NullString
	if c.LogoURL != "" {
		logo = sql.NullString{String: c.LogoURL, Valid: true}
	}

	saved := c
	saved.Variables = vars
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE profiles
			SET contracts_created_this_month = contracts_created_this_month + 1, updated_at = NOW()
			WHERE id = $1 AND contracts_created_this_month < $2`, c.UserID, limit)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return storage.ErrQuotaExceeded
		}

		return tx.QueryRowContext(ctx, `INSERT INTO contracts (user_id, title, type, content, status, variables, logo_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at`,
			c.UserID, c.Title, c.Type, string(c.Content), c.Status, varsJSON, logo).
			Scan(&saved.ID, &saved.CreatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &saved, nil
}

// ListContracts возвращает договоры пользователя, новые первыми.
func (s *Storage) ListContracts(ctx context.Context, userID string) ([]*models.Contract, error) {
	const op = "storage.ListContracts"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, user_id, title, type, content, created_at, status, variables, logo_url
		FROM contracts
		WHERE user_id = $1
		ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var res []*models.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// GetContract возвращает договор пользователя по идентификатору.
func (s *Storage) GetContract(ctx context.Context, id, userID string) (*models.Contract, error) {
	const op = "storage.GetContract"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	row := s.DB.QueryRowContext(ctx, `SELECT id, user_id, title, type, content, created_at, status, variables, logo_url
		FROM contracts
		WHERE id = $1 AND user_id = $2`, id, userID)
	c, err := scanContract(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// DeleteContract удаляет договор пользователя. Счётчик договоров не уменьшается.
func (s *Storage) DeleteContract(ctx context.Context, id, userID string) error {
	const op = "storage.DeleteContract"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM contracts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(r rowScanner) (*models.Contract, error) {
	c := &models.Contract{}
	var (
		content  string
		varsJSON []byte
		logo     sql.NullString
	)
	if err := r.Scan(&c.ID, &c.UserID, &c.Title, &c.Type, &content,
		&c.CreatedAt, &c.Status, &varsJSON, &logo); err != nil {
		return nil, err
	}
	c.Content = models.RenderedDocument(content)
	c.LogoURL = logo.String
	if len(varsJSON) > 0 {
		if err := json.Unmarshal(varsJSON, &c.Variables); err != nil {
			return nil, err
		}
	}
	return c, nil
}
