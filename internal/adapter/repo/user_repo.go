package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserStore backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

func (r *UserRepositoryPG) Get(ctx context.Context, userID string) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectUser, userID)
	return scanUser(row)
}

func (r *UserRepositoryPG) ResetDailyUsage(ctx context.Context, userID, date string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QResetDailyUsage, userID, date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryPG) IncrementDailyUsage(ctx context.Context, userID string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QIncrementDailyUsage, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryPG) SetPlan(ctx context.Context, userID string, plan domain.Plan, expiry *time.Time) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QSetUserPlan, userID, string(plan), expiry)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryPG) IncrementDownloadUsed(ctx context.Context, userID string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QIncrementDownloadUsed, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryPG) SettlePayment(ctx context.Context, userID string, plan domain.Plan, expiry *time.Time, paymentID string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QSettlePayment, userID, string(plan), expiry, paymentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var plan string
	err := row.Scan(
		&u.ID,
		&plan,
		&u.PlanExpiry,
		&u.DailyPromptCount,
		&u.LastPromptDate,
		&u.DownloadUsed,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	u.Plan = domain.Plan(plan)
	return &u, nil
}

var _ domain.UserStore = (*UserRepositoryPG)(nil)
