// Package fs stores snapshots and grabbed postings on the local filesystem.
package fs

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AndreyKolygin/jobgrab"
	"gopkg.in/yaml.v3"
)

// URLToPath converts a posting URL to a relative file path under its host.
// Example: https://jobs.example.com/openings/42 → jobs.example.com/openings/42.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", jobgrab.Errorf(jobgrab.EINVALID, "URL %q has no host", rawURL)
	}

	path := strings.TrimPrefix(u.Path, "/")
	switch {
	case path == "":
		path = "index.md"
	case strings.HasSuffix(path, "/"):
		path += "index.md"
	default:
		path += ".md"
	}
	return filepath.Join(host, filepath.FromSlash(path)), nil
}

// frontmatter is the YAML header written above a posting.
type frontmatter struct {
	Source  string            `yaml:"source"`
	Grabbed string            `yaml:"grabbed"`
	Fields  map[string]string `yaml:"fields,omitempty"`
}

// FormatResult formats a grabbed posting as markdown with YAML frontmatter.
// Template entries become frontmatter fields; the body is the composed job
// text.
func FormatResult(rawURL string, res *jobgrab.ExtractionResult, grabbed time.Time) (string, error) {
	fm := frontmatter{
		Source:  rawURL,
		Grabbed: grabbed.Format("2006-01-02"),
	}
	if len(res.TemplateEntries) > 0 {
		fm.Fields = make(map[string]string, len(res.TemplateEntries))
		for _, e := range res.TemplateEntries {
			fm.Fields[e.Key] = e.Value
		}
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	b.WriteString("---\n\n")
	b.WriteString(jobgrab.ComposeJobText(res))
	b.WriteString("\n")
	return b.String(), nil
}

// ResultStore writes postings with atomic update semantics.
// Postings are saved to a temporary directory, then moved into place on Commit.
type ResultStore struct {
	baseDir string
	name    string
	now     func() time.Time
}

// NewResultStore creates a new ResultStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewResultStore(baseDir, name string) *ResultStore {
	return &ResultStore{
		baseDir: baseDir,
		name:    name,
		now:     time.Now,
	}
}

func (s *ResultStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *ResultStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes a successful result. Failed results are rejected with EINVALID.
func (s *ResultStore) Save(ctx context.Context, rawURL string, res *jobgrab.ExtractionResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if res == nil || !res.OK {
		return jobgrab.Errorf(jobgrab.EINVALID, "refusing to save failed result for %s", rawURL)
	}

	relPath, err := URLToPath(rawURL)
	if err != nil {
		return err
	}
	content, err := FormatResult(rawURL, res, s.now())
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// Commit replaces the output directory with everything saved so far.
func (s *ResultStore) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards everything saved since the last Commit.
func (s *ResultStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
