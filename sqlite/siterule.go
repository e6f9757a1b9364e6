package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ jobgrab.SiteRuleService = (*SiteRuleService)(nil)

// SiteRuleService implements jobgrab.SiteRuleService using SQLite.
type SiteRuleService struct {
	db *DB
}

// NewSiteRuleService creates a new SiteRuleService.
func NewSiteRuleService(db *DB) *SiteRuleService {
	return &SiteRuleService{db: db}
}

const siteRuleColumns = "id, host, pattern, active, rule, position, created_at, updated_at"

// CreateSiteRule normalizes and stores a new site rule. A zero Position
// appends the rule after the existing ones. A caller-supplied ID is kept,
// which lets imports round-trip.
func (s *SiteRuleService) CreateSiteRule(ctx context.Context, sr *jobgrab.SiteRule) error {
	sr.Rule = *jobgrab.NormalizeRule(&sr.Rule)
	sr.Host = strings.TrimSpace(sr.Host)
	sr.Pattern = strings.TrimSpace(sr.Pattern)
	if err := sr.Validate(); err != nil {
		return err
	}

	if sr.ID == "" {
		sr.ID = uuid.New().String()
	} else {
		var exists int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM site_rules WHERE id = ?", sr.ID).Scan(&exists)
		if err != nil {
			return err
		}
		if exists > 0 {
			return jobgrab.Errorf(jobgrab.ECONFLICT, "site rule %q already exists", sr.ID)
		}
	}
	if sr.Position == 0 {
		var next int
		if err := s.db.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(position), 0) + 1 FROM site_rules",
		).Scan(&next); err != nil {
			return err
		}
		sr.Position = next
	}
	now := time.Now().UTC()
	sr.CreatedAt = now
	sr.UpdatedAt = now

	rule, err := marshalJSON(sr.Rule)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO site_rules (id, host, pattern, active, rule, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sr.ID, sr.Host, sr.Pattern, nullBool(sr.Active), rule, sr.Position,
		sr.CreatedAt.Format(timeFormat), sr.UpdatedAt.Format(timeFormat))
	return err
}

// FindSiteRuleByID retrieves a site rule by ID.
func (s *SiteRuleService) FindSiteRuleByID(ctx context.Context, id string) (*jobgrab.SiteRule, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+siteRuleColumns+" FROM site_rules WHERE id = ?", id)
	sr, err := scanSiteRule(row)
	if err == sql.ErrNoRows {
		return nil, jobgrab.Errorf(jobgrab.ENOTFOUND, "site rule not found")
	}
	if err != nil {
		return nil, err
	}
	return sr, nil
}

// FindSiteRules retrieves site rules in matching order: by position, then
// by creation.
func (s *SiteRuleService) FindSiteRules(ctx context.Context, filter jobgrab.SiteRuleFilter) ([]*jobgrab.SiteRule, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + siteRuleColumns + " FROM site_rules WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Host != nil {
		query.WriteString(" AND (host = ? OR (host = '' AND pattern = ?))")
		args = append(args, *filter.Host, *filter.Host)
	}
	if filter.Active != nil {
		if *filter.Active {
			query.WriteString(" AND (active IS NULL OR active = 1)")
		} else {
			query.WriteString(" AND active = 0")
		}
	}

	query.WriteString(" ORDER BY position ASC, created_at ASC, rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*jobgrab.SiteRule
	for rows.Next() {
		sr, err := scanSiteRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, sr)
	}
	return rules, rows.Err()
}

// UpdateSiteRule updates an existing site rule.
func (s *SiteRuleService) UpdateSiteRule(ctx context.Context, id string, upd jobgrab.SiteRuleUpdate) (*jobgrab.SiteRule, error) {
	sr, err := s.FindSiteRuleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Host != nil {
		sr.Host = strings.TrimSpace(*upd.Host)
	}
	if upd.Active != nil {
		active := *upd.Active
		sr.Active = &active
	}
	if upd.Rule != nil {
		sr.Rule = *upd.Rule
	}
	if upd.Position != nil {
		sr.Position = *upd.Position
	}

	sr.Rule = *jobgrab.NormalizeRule(&sr.Rule)
	if err := sr.Validate(); err != nil {
		return nil, err
	}
	sr.UpdatedAt = time.Now().UTC()

	rule, err := marshalJSON(sr.Rule)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE site_rules
		SET host = ?, active = ?, rule = ?, position = ?, updated_at = ?
		WHERE id = ?
	`, sr.Host, nullBool(sr.Active), rule, sr.Position, sr.UpdatedAt.Format(timeFormat), id)
	if err != nil {
		return nil, err
	}
	return sr, nil
}

// DeleteSiteRule permanently removes a site rule.
func (s *SiteRuleService) DeleteSiteRule(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM site_rules WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return jobgrab.Errorf(jobgrab.ENOTFOUND, "site rule not found")
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSiteRule(row scanner) (*jobgrab.SiteRule, error) {
	var (
		sr                   jobgrab.SiteRule
		active               sql.NullBool
		rule                 string
		createdAt, updatedAt string
	)
	if err := row.Scan(&sr.ID, &sr.Host, &sr.Pattern, &active, &rule, &sr.Position,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}
	sr.Active = boolPtr(active)

	// Stored rules were normalized on write; normalizing again repairs rows
	// written by hand.
	if normalized := jobgrab.NormalizeRule([]byte(rule)); normalized != nil {
		sr.Rule = *normalized
	}

	var err error
	if sr.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if sr.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &sr, nil
}
