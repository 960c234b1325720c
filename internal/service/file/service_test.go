package file

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileService_ArchiveReport(t *testing.T) {
	ctx := context.Background()
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	svc := NewFileService(local, time.Minute).(*fileServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC) }

	path, err := svc.ArchiveReport(ctx, "user-1", "attendance-report-2024-03-15.pdf", strings.NewReader("pdf"), "application/pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "reports/user-1/attendance-report-2024-03-15-20240315T093000-"), path)
	assert.True(t, strings.HasSuffix(path, ".pdf"))

	exists, err := local.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, svc.DeleteFile(ctx, path))
	exists, err = local.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileService_ArchiveReport_Rejects(t *testing.T) {
	ctx := context.Background()
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	svc := NewFileService(local, time.Minute)

	_, err = svc.ArchiveReport(ctx, "user-1", "report.exe", strings.NewReader("x"), "application/octet-stream")
	assert.Error(t, err)

	_, err = svc.ArchiveReport(ctx, "../other", "report.pdf", strings.NewReader("x"), "application/pdf")
	assert.ErrorIs(t, err, storage.ErrInvalidPath)
}
