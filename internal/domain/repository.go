package domain

import (
	"context"
	"time"
)

// UserStore is the contract the pipeline requires from the user document
// collaborator. Every write is a partial merge onto the stored document;
// documents are never deleted.
type UserStore interface {
	Get(ctx context.Context, userID string) (*User, error)
	// ResetDailyUsage starts a new quota day: lastPromptDate becomes date and
	// the counter restarts at 1, the admitted request being the first of the day.
	ResetDailyUsage(ctx context.Context, userID, date string) error
	IncrementDailyUsage(ctx context.Context, userID string) error
	SetPlan(ctx context.Context, userID string, plan Plan, expiry *time.Time) error
	IncrementDownloadUsed(ctx context.Context, userID string) error
	// SettlePayment merges the purchased plan onto the user after the payment
	// provider confirms the charge.
	SettlePayment(ctx context.Context, userID string, plan Plan, expiry *time.Time, paymentID string) error
}

// ProjectStore provides access to project documents.
type ProjectStore interface {
	Get(ctx context.Context, userID, projectID string) (*Project, error)
	// SaveGeneration merges one generated page plus the backend code into the
	// project and bumps its generation counter in a single logical update.
	SaveGeneration(ctx context.Context, userID, projectID string, page Page, backendCode string) error
	// AppendTrace adds one progress message to the project's advisory trace.
	AppendTrace(ctx context.Context, userID, projectID string, msg ChatMessage) error
}
