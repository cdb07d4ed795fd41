package domain

import "time"

// Plan enumerates billing plans.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanDownload Plan = "download"
	PlanExtra    Plan = "extra"
	PlanPremium  Plan = "premium"
)

// UnlimitedPrompts marks plans without a daily generation cap.
const UnlimitedPrompts = -1

// DailyPromptLimit maps a plan to its daily generation allowance. Unknown
// plan values fall back to the free allowance.
func DailyPromptLimit(p Plan) int {
	switch p {
	case PlanFree, PlanDownload:
		return 5
	case PlanExtra:
		return 15
	case PlanPremium:
		return UnlimitedPrompts
	default:
		return 5
	}
}

// Paid reports whether the plan was purchased.
func (p Plan) Paid() bool {
	switch p {
	case PlanDownload, PlanExtra, PlanPremium:
		return true
	default:
		return false
	}
}

// ValidPurchase reports whether the plan can be bought at checkout.
func (p Plan) ValidPurchase() bool {
	return p.Paid()
}

// User represents an account document. DailyPromptCount is only meaningful
// while LastPromptDate equals the current calendar date; a stale date means
// the counter must be treated as zero.
type User struct {
	ID               string
	Plan             Plan
	PlanExpiry       *time.Time
	DailyPromptCount int
	LastPromptDate   string // YYYY-MM-DD, UTC
	DownloadUsed     int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsFree reports whether the user is on the free plan.
func (u User) IsFree() bool {
	return u.Plan == PlanFree
}
