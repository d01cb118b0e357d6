package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/PowerScaleBack/internal/models"
)

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// AccountRepository creates the identity row and its empty profile in one transaction.
type AccountRepository struct {
	db txBeginner
}

func NewAccountRepository(db txBeginner) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) CreateWithProfile(ctx context.Context, user *models.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := NewUserRepository(tx).CreateUser(ctx, user); err != nil {
		return err
	}
	if err := NewUserProfileRepository(tx).CreateEmpty(ctx, user.ID, user.Email, user.PhoneNumber); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
