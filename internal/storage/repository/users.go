package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/contrato-facil/internal/models"
	"github.com/magabrotheeeer/contrato-facil/internal/storage"
)

// RegisterUser сохраняет учётную запись и возвращает её UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	if err := ctxDone(ctx, op); err != nil {
		return "", err
	}

	var token sql.NullString
	if user.ConfirmationToken != "" {
		token = sql.NullString{String: user.ConfirmationToken, Valid: true}
	}

	var newID string
	query := `INSERT INTO users (email, password_hash, email_confirmed, confirmation_token)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.EmailConfirmed, token).Scan(&newID)
	if isUniqueViolation(err) {
		return "", fmt.Errorf("%s: %w", op, storage.ErrEmailTaken)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает учётную запись по e-mail.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT uid, email, password_hash, email_confirmed, confirmation_token
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	var token sql.NullString
	err := s.DB.QueryRowContext(ctx, query, email).
		Scan(&u.UID, &u.Email, &u.PasswordHash, &u.EmailConfirmed, &token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.ConfirmationToken = token.String
	return u, nil
}

// ConfirmEmail отмечает e-mail подтверждённым по одноразовому токену и возвращает UID.
func (s *Storage) ConfirmEmail(ctx context.Context, token string) (string, error) {
	const op = "storage.ConfirmEmail"
	if err := ctxDone(ctx, op); err != nil {
		return "", err
	}

	var uid string
	query := `UPDATE users
			  SET email_confirmed = true, confirmation_token = NULL
			  WHERE confirmation_token = $1
			  RETURNING uid;`
	err := s.DB.QueryRowContext(ctx, query, token).Scan(&uid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}
