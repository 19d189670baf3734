package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/contrato-facil/internal/models"
	"github.com/magabrotheeeer/contrato-facil/internal/storage"
)

// GetProfile возвращает профиль пользователя.
func (s *Storage) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	const op = "storage.GetProfile"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, email, display_name, plan_type, contracts_created_this_month, subscription_status
			  FROM profiles
			  WHERE id = $1`
	p := &models.UserProfile{}
	err := s.DB.QueryRowContext(ctx, query, uid).Scan(&p.UID, &p.Email, &p.DisplayName,
		&p.PlanType, &p.ContractsCreatedThisMonth, &p.SubscriptionStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// CreateProfile создаёт профиль. Для существующего профиля обновляются только
// e-mail и имя: тариф и счётчик договоров не сбрасываются.
func (s *Storage) CreateProfile(ctx context.Context, p models.UserProfile) error {
	const op = "storage.CreateProfile"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	query := `INSERT INTO profiles (id, email, display_name, plan_type, contracts_created_this_month, subscription_status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (id) DO UPDATE
			  SET email = EXCLUDED.email,
			      display_name = EXCLUDED.display_name,
			      updated_at = NOW();`
	_, err := s.DB.ExecContext(ctx, query, p.UID, p.Email, p.DisplayName,
		p.PlanType, p.ContractsCreatedThisMonth, p.SubscriptionStatus)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdatePlan меняет тариф и записывает заявку со ссылкой на квитанцию в одной транзакции.
func (s *Storage) UpdatePlan(ctx context.Context, uid string, plan models.PlanType, proofRef string) error {
	const op = "storage.UpdatePlan"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE profiles
			SET plan_type = $2, subscription_status = 'active', updated_at = NOW()
			WHERE id = $1`, uid, plan)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return storage.ErrNotFound
		}

		var ref sql.NullString
		if proofRef != "" {
			ref = sql.NullString{String: proofRef, Valid: true}
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO plan_upgrades (user_id, plan_type, proof_reference)
			VALUES ($1, $2, $3)`, uid, plan, ref)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ResetMonthlyCounters обнуляет счётчики договоров всех профилей и возвращает число изменённых строк.
func (s *Storage) ResetMonthlyCounters(ctx context.Context) (int64, error) {
	const op = "storage.ResetMonthlyCounters"
	if err := ctxDone(ctx, op); err != nil {
		return 0, err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE profiles
		SET contracts_created_this_month = 0, updated_at = NOW()
		WHERE contracts_created_this_month <> 0`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
