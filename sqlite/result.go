package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ jobgrab.ResultService = (*ResultService)(nil)

// ResultService implements jobgrab.ResultService using SQLite.
type ResultService struct {
	db *DB
}

// NewResultService creates a new ResultService.
func NewResultService(db *DB) *ResultService {
	return &ResultService{db: db}
}

const resultColumns = `id, tab_id, url, rule, ok, text, count, error,
	template_text, template_entries, template_targets, content_hash, created_at`

// ContentHash returns the hash stored with a result: the hex xxhash64 of
// the composed job text. Identical postings grabbed twice share a hash.
func ContentHash(res *jobgrab.ExtractionResult) string {
	text := jobgrab.ComposeJobText(res)
	if text == "" {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}

// SaveResult stores a result, assigning ID, hash and timestamp.
func (s *ResultService) SaveResult(ctx context.Context, r *jobgrab.StoredResult) error {
	if strings.TrimSpace(r.TabID) == "" {
		return jobgrab.Errorf(jobgrab.EINVALID, "result tab ID required")
	}

	r.ID = uuid.New().String()
	r.ContentHash = ContentHash(&r.ExtractionResult)
	r.CreatedAt = time.Now().UTC()

	rule, err := marshalJSON(r.Rule)
	if err != nil {
		return err
	}
	entries, err := marshalJSON(r.TemplateEntries)
	if err != nil {
		return err
	}
	targets, err := marshalJSON(r.TemplateTargets)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (id, tab_id, url, rule, ok, text, count, error,
			template_text, template_entries, template_targets, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.TabID, r.URL, rule, r.OK, r.Text, r.Count, r.Error,
		r.TemplateText, entries, targets, r.ContentHash, r.CreatedAt.Format(timeFormat))

	return err
}

// FindLatestResult returns the most recent result for a tab.
func (s *ResultService) FindLatestResult(ctx context.Context, tabID string) (*jobgrab.StoredResult, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+resultColumns+`
		FROM results
		WHERE tab_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, tabID)

	r, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, jobgrab.Errorf(jobgrab.ENOTFOUND, "no result for tab %q", tabID)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// FindResults retrieves results, newest first.
func (s *ResultService) FindResults(ctx context.Context, filter jobgrab.ResultFilter) ([]*jobgrab.StoredResult, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + resultColumns + " FROM results WHERE 1=1")

	if filter.TabID != nil {
		query.WriteString(" AND tab_id = ?")
		args = append(args, *filter.TabID)
	}
	if filter.OK != nil {
		query.WriteString(" AND ok = ?")
		args = append(args, *filter.OK)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*jobgrab.StoredResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResult(row scanner) (*jobgrab.StoredResult, error) {
	var (
		r                      jobgrab.StoredResult
		rule, entries, targets string
		createdAt              string
	)
	if err := row.Scan(&r.ID, &r.TabID, &r.URL, &rule, &r.OK, &r.Text, &r.Count, &r.Error,
		&r.TemplateText, &entries, &targets, &r.ContentHash, &createdAt); err != nil {
		return nil, err
	}

	if rule != "" {
		r.Rule = jobgrab.NormalizeRule([]byte(rule))
	}
	if err := unmarshalJSON(entries, "template_entries", &r.TemplateEntries); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(targets, "template_targets", &r.TemplateTargets); err != nil {
		return nil, err
	}

	var err error
	if r.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &r, nil
}
