package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/morrillo/blo-migration/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add attachments index", "add_attachments_index"},
		{"Add-Attachments-Index", "add_attachments_index"},
		{"ADD__INDEX", "add_index"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"trailing_", "trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_NumbersSequentially(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "create ledger", "ledger tables")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_create_ledger.up.sql"), first.UpPath)

	second, err := CreateMigration(dir, "add index", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)

	up, err := os.ReadFile(second.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add index")

	down, err := os.ReadFile(second.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000010_late.up.sql":    {},
		"000010_late.down.sql":  {},
		"000002_early.up.sql":   {},
		"000002_early.down.sql": {},
		"README.md":             {},
		"nover_name.up.sql":     {},
	}

	list, err := ListMigrations(fsys)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, MigrationInfo{Version: 2, Name: "000002_early"}, list[0])
	assert.Equal(t, uint64(10), list[1].Version)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	list, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))

	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmbeddedMigrations_ArePaired(t *testing.T) {
	list, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	for _, m := range list {
		_, err := migrations.FS.Open(m.Name + ".down.sql")
		assert.NoError(t, err, "missing down migration for %s", m.Name)
	}
}
