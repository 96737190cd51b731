package repositories

import (
	"context"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

// UserRepository owns bot users and their besitos balance. The conditional
// deduct is the only place a balance can go down, and it refuses to go below
// zero at the SQL level.
type UserRepository interface {
	GetOrCreate(ctx context.Context, telegramID int64, username, firstName string) (*models.User, error)
	ByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	Balance(ctx context.Context, telegramID int64) (int64, error)
	AddBesitos(ctx context.Context, telegramID int64, amount int64) (int64, error)
	DeductBesitos(ctx context.Context, telegramID int64, amount int64) (int64, bool, error)
	LogTransaction(ctx context.Context, tx *models.BesitosTransaction) error
	SetVIP(ctx context.Context, telegramID int64, expires time.Time) error
}

type userRepository struct {
	baseRepository
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{baseRepository{db: db}}
}

func (r *userRepository) GetOrCreate(ctx context.Context, telegramID int64, username, firstName string) (*models.User, error) {
	user, err := r.ByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	now := time.Now()
	user = &models.User{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		Joined:     now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err = r.conn(ctx).NewInsert().
		Model(user).
		On("CONFLICT (telegram_id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, wrapErr("get_or_create", "user", err)
	}
	return user, nil
}

func (r *userRepository) ByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := r.conn(ctx).NewSelect().
		Model(user).
		Where("telegram_id = ?", telegramID).
		Scan(ctx)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get", "user", err)
	}
	return user, nil
}

func (r *userRepository) Balance(ctx context.Context, telegramID int64) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var balance int64
	err := r.conn(ctx).NewSelect().
		Model((*models.User)(nil)).
		Column("besitos").
		Where("telegram_id = ?", telegramID).
		Scan(ctx, &balance)
	if isNoRows(err) {
		return 0, nil
	}
	return balance, wrapErr("balance", "user", err)
}

func (r *userRepository) AddBesitos(ctx context.Context, telegramID int64, amount int64) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var balance int64
	err := r.conn(ctx).NewUpdate().
		Model((*models.User)(nil)).
		Set("besitos = besitos + ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("telegram_id = ?", telegramID).
		Returning("besitos").
		Scan(ctx, &balance)
	return balance, wrapErr("add_besitos", "user", err)
}

// DeductBesitos subtracts amount if and only if the balance covers it. The
// second return value reports whether the deduction happened.
func (r *userRepository) DeductBesitos(ctx context.Context, telegramID int64, amount int64) (int64, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var balance int64
	err := r.conn(ctx).NewUpdate().
		Model((*models.User)(nil)).
		Set("besitos = besitos - ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("telegram_id = ?", telegramID).
		Where("besitos >= ?", amount).
		Returning("besitos").
		Scan(ctx, &balance)
	if isNoRows(err) {
		// Either the user does not exist or the balance was too low.
		current, berr := r.Balance(ctx, telegramID)
		if berr != nil {
			return 0, false, berr
		}
		return current, false, nil
	}
	if err != nil {
		return 0, false, wrapErr("deduct_besitos", "user", err)
	}
	return balance, true, nil
}

func (r *userRepository) LogTransaction(ctx context.Context, tx *models.BesitosTransaction) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	_, err := r.conn(ctx).NewInsert().Model(tx).Exec(ctx)
	return wrapErr("log_transaction", "besitos_transaction", err)
}

func (r *userRepository) SetVIP(ctx context.Context, telegramID int64, expires time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.conn(ctx).NewUpdate().
		Model((*models.User)(nil)).
		Set("vip = ?", true).
		Set("vip_expires = ?", expires).
		Set("updated_at = ?", time.Now()).
		Where("telegram_id = ?", telegramID).
		Exec(ctx)
	return wrapErr("set_vip", "user", err)
}
