package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/cride-server/internal/model"
)

const uniqueViolation = "23505"

// constraintFields maps unique constraints to the API field they protect.
var constraintFields = map[string]string{
	"users_email_key":            "email",
	"users_username_key":         "username",
	"auth_tokens_account_id_key": "account_id",
	"auth_tokens_pkey":           "key",
}

// mapUniqueViolation turns a unique constraint violation into *model.UniqueViolationError.
func mapUniqueViolation(err error) error {
	var pge *pgconn.PgError
	if !errors.As(err, &pge) || pge.Code != uniqueViolation {
		return err
	}

	field, ok := constraintFields[pge.ConstraintName]
	if !ok {
		field = pge.ConstraintName
	}
	return &model.UniqueViolationError{Field: field}
}
