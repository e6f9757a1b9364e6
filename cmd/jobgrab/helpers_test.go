package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	main "github.com/AndreyKolygin/jobgrab/cmd/jobgrab"
	"github.com/stretchr/testify/require"
)

func newDeps() (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
	}, stdout, stderr
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
