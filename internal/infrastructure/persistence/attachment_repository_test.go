package persistence

import (
	"context"
	"testing"

	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAttachmentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAttachmentRepository(setupTargetTestDB(t))

	first := &accounting.Attachment{
		ResModel:   accounting.AttachmentResModel,
		ResID:      10,
		Name:       "scan.pdf",
		MimeType:   "application/pdf",
		FileSize:   4,
		Checksum:   "abc",
		StorageKey: "attachments/account.move/10/31-scan.pdf",
		OriginalID: 31,
	}
	second := &accounting.Attachment{
		ResModel:   accounting.AttachmentResModel,
		ResID:      10,
		Name:       "note.txt",
		StorageKey: "attachments/account.move/10/32-note.txt",
		OriginalID: 32,
	}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	t.Run("finds by original id", func(t *testing.T) {
		found, err := repo.FindByOriginalID(ctx, 31)
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
		assert.Equal(t, "application/pdf", found.MimeType)
	})

	t.Run("lists by resource", func(t *testing.T) {
		list, err := repo.FindByResource(ctx, accounting.AttachmentResModel, 10)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "scan.pdf", list[0].Name)

		empty, err := repo.FindByResource(ctx, accounting.AttachmentResModel, 11)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("rejects a second copy of the same legacy attachment", func(t *testing.T) {
		dup := *first
		dup.ID = 0
		assert.ErrorIs(t, repo.Create(ctx, &dup), accounting.ErrDuplicateOriginalID)
	})
}
