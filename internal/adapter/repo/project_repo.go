package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// ProjectRepositoryPG implements domain.ProjectStore backed by PostgreSQL.
// Pages live in a jsonb column keyed by page name so a generation merges a
// single page without rewriting the rest of the document.
type ProjectRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewProjectRepository(sql infra.SQLExecutor) *ProjectRepositoryPG {
	return &ProjectRepositoryPG{sql: sql}
}

func (r *ProjectRepositoryPG) Get(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectProject, userID, projectID)

	var (
		p        domain.Project
		rawPages []byte
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Prompt,
		&rawPages,
		&p.BackendCode,
		&p.GenerationCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	if len(rawPages) > 0 {
		if err := json.Unmarshal(rawPages, &p.Pages); err != nil {
			return nil, fmt.Errorf("decode project pages: %w", err)
		}
	}
	if p.Pages == nil {
		p.Pages = map[string]domain.Page{}
	}
	return &p, nil
}

func (r *ProjectRepositoryPG) SaveGeneration(ctx context.Context, userID, projectID string, page domain.Page, backendCode string) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("encode page: %w", err)
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QSaveGeneration, userID, projectID, domain.HomePage, raw, backendCode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepositoryPG) AppendTrace(ctx context.Context, userID, projectID string, msg domain.ChatMessage) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode trace message: %w", err)
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QAppendTrace, userID, projectID, raw)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

var _ domain.ProjectStore = (*ProjectRepositoryPG)(nil)
