package quota

import (
	"context"
	"fmt"
	"time"

	"server/internal/domain"
)

// DateLayout is the calendar-date format used for quota bookkeeping. All
// comparisons are calendar-date equality in UTC, never timestamp equality.
const DateLayout = "2006-01-02"

// Ledger gates generation requests against a user's daily allowance. Side
// effect ordering is deliberate: the counter moves before any generation
// work, so a failed generation still costs one unit of quota.
type Ledger struct {
	users domain.UserStore
	now   func() time.Time
}

func NewLedger(users domain.UserStore) *Ledger {
	return &Ledger{users: users, now: time.Now}
}

// WithClock overrides the ledger's time source.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Admit decides whether the user may run one more generation today and, when
// admitted, persists the counter movement immediately. It mutates the passed
// user to reflect the persisted state. A denial returns
// domain.ErrQuotaExceeded and leaves the counter untouched.
func (l *Ledger) Admit(ctx context.Context, user *domain.User) error {
	now := l.now().UTC()

	// Expired paid plans silently drop back to free before the limit applies.
	if user.Plan.Paid() && user.PlanExpiry != nil && user.PlanExpiry.Before(now) {
		if err := l.users.SetPlan(ctx, user.ID, domain.PlanFree, nil); err != nil {
			return fmt.Errorf("downgrade expired plan: %w", err)
		}
		user.Plan = domain.PlanFree
		user.PlanExpiry = nil
	}

	today := now.Format(DateLayout)
	if user.LastPromptDate != today {
		// Stale counter: this request opens a new quota day regardless of the
		// previous count. The reset persists even if generation later fails.
		if err := l.users.ResetDailyUsage(ctx, user.ID, today); err != nil {
			return fmt.Errorf("reset daily usage: %w", err)
		}
		user.LastPromptDate = today
		user.DailyPromptCount = 1
		return nil
	}

	limit := domain.DailyPromptLimit(user.Plan)
	if limit != domain.UnlimitedPrompts && user.DailyPromptCount >= limit {
		return domain.ErrQuotaExceeded
	}
	if err := l.users.IncrementDailyUsage(ctx, user.ID); err != nil {
		return fmt.Errorf("increment daily usage: %w", err)
	}
	user.DailyPromptCount++
	return nil
}
