package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artistforms/internal/domains"
	"artistforms/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const formTemplateColumns = `
    id, artist_id, parent_form_template_id, root_form_template_id,
    version_number, ord, title, type, tags, uses_services_array_versioning,
    sections, services, is_deleted, deleted_at, created_at, updated_at`

type FormTemplateProvider struct {
	db *pgxpool.Pool
}

func NewFormTemplateProvider(db *pgxpool.Pool) *FormTemplateProvider {
	return &FormTemplateProvider{
		db: db,
	}
}

// GetFormTemplateByID returns the document whatever its deleted state.
func (s *FormTemplateProvider) GetFormTemplateByID(ctx context.Context, id string) (domains.FormTemplate, error) {
	rows, err := s.db.Query(ctx, `SELECT `+formTemplateColumns+`
        FROM form_templates
        WHERE id = $1`, id)
	if err != nil {
		return domains.FormTemplate{}, fmt.Errorf("query form template: %w", err)
	}
	return collectOneTemplate(rows)
}

func (s *FormTemplateProvider) GetLatestFormTemplateByArtist(ctx context.Context, artistID, rootID string) (domains.FormTemplate, error) {
	rows, err := s.db.Query(ctx, `SELECT `+formTemplateColumns+`
        FROM form_templates
        WHERE root_form_template_id = $1 AND artist_id = $2
        ORDER BY version_number DESC
        LIMIT 1`, rootID, artistID)
	if err != nil {
		return domains.FormTemplate{}, fmt.Errorf("query latest form template: %w", err)
	}
	return collectOneTemplate(rows)
}

// ListRootFormTemplates returns version-0 documents. A non-empty services
// list restricts the result to roots sharing at least one service.
func (s *FormTemplateProvider) ListRootFormTemplates(ctx context.Context, services []int64) ([]domains.FormTemplate, error) {
	query := `SELECT ` + formTemplateColumns + `
        FROM form_templates
        WHERE version_number = 0
          AND parent_form_template_id IS NULL
          AND root_form_template_id IS NULL
          AND NOT is_deleted`
	args := []any{}
	if len(services) > 0 {
		query += ` AND services && $1::bigint[]`
		args = append(args, services)
	}
	query += ` ORDER BY ord, id`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query root form templates: %w", err)
	}
	templates, err := pgx.CollectRows(rows, pgx.RowToStructByName[domains.FormTemplate])
	if err != nil {
		return nil, fmt.Errorf("collect root form templates: %w", err)
	}
	return templates, nil
}

// InsertFormTemplate appends a new version. It never overwrites: a duplicate
// id or chain position yields storage.ErrConflict.
func (s *FormTemplateProvider) InsertFormTemplate(ctx context.Context, t domains.FormTemplate) (domains.FormTemplate, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domains.FormTemplate{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
        INSERT INTO form_templates (
            id, artist_id, parent_form_template_id, root_form_template_id,
            version_number, ord, title, type, tags, uses_services_array_versioning,
            sections, services, is_deleted, deleted_at, created_at, updated_at
        )
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$15)
        RETURNING `+formTemplateColumns,
		t.ID,
		t.ArtistID,
		t.ParentFormTemplateID,
		t.RootFormTemplateID,
		t.VersionNumber,
		t.Order,
		t.Title,
		t.Type,
		nonNilStrings(t.Tags),
		t.UsesServicesArrayVersioning,
		nonNilSections(t.Sections),
		nonNilServices(t.Services),
		t.IsDeleted,
		t.DeletedAt,
		t.CreatedAt,
	)
	if err != nil {
		return domains.FormTemplate{}, wrapWriteErr("insert form template", err)
	}
	created, err := collectOneTemplate(rows)
	if err != nil {
		return domains.FormTemplate{}, wrapWriteErr("insert form template", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domains.FormTemplate{}, wrapWriteErr("commit", err)
	}
	return created, nil
}

// UpdateFormTemplateServices rewrites the services of an artist fork in place.
// Roots are never touched.
func (s *FormTemplateProvider) UpdateFormTemplateServices(ctx context.Context, id string, services []int64) (domains.FormTemplate, error) {
	rows, err := s.db.Query(ctx, `
        UPDATE form_templates
        SET services = $2, updated_at = NOW()
        WHERE id = $1 AND version_number > 0 AND NOT is_deleted
        RETURNING `+formTemplateColumns, id, nonNilServices(services))
	if err != nil {
		return domains.FormTemplate{}, fmt.Errorf("update form template services: %w", err)
	}
	return collectOneTemplate(rows)
}

func (s *FormTemplateProvider) MarkFormTemplateDeleted(ctx context.Context, id string, at time.Time) (domains.FormTemplate, error) {
	rows, err := s.db.Query(ctx, `
        UPDATE form_templates
        SET is_deleted = TRUE, deleted_at = $2, updated_at = $2
        WHERE id = $1 AND version_number > 0 AND NOT is_deleted
        RETURNING `+formTemplateColumns, id, at)
	if err != nil {
		return domains.FormTemplate{}, fmt.Errorf("mark form template deleted: %w", err)
	}
	return collectOneTemplate(rows)
}

func collectOneTemplate(rows pgx.Rows) (domains.FormTemplate, error) {
	template, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domains.FormTemplate])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.FormTemplate{}, storage.ErrNotFound
		}
		return domains.FormTemplate{}, err
	}
	return template, nil
}

func wrapWriteErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nonNilSections(sections []domains.Section) []domains.Section {
	if sections == nil {
		return []domains.Section{}
	}
	return sections
}

func nonNilServices(services []int64) []int64 {
	if services == nil {
		return []int64{}
	}
	return services
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
