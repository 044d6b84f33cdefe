package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"github.com/morrillo/blo-migration/internal/domain/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStorageKey(t *testing.T) {
	key := StorageKey(42, migration.LegacyAttachment{LegacyID: 7, Name: "../../etc/passwd"})
	assert.Equal(t, "attachments/account.move/42/7-passwd", key)
}

func TestAttachmentCopier_SkipsAlreadyCopied(t *testing.T) {
	blobs := new(MockBlobStore)
	repo := new(MockAttachmentRepository)
	copier := NewAttachmentCopier(blobs, repo, nil)

	src := newFakeSource()
	src.attachments[501] = []migration.LegacyAttachment{
		{LegacyID: 1, Name: "a.pdf", Data: []byte("a")},
		{LegacyID: 2, Name: "b.pdf", Data: []byte("b")},
	}
	repo.On("FindByOriginalID", mock.Anything, int64(1)).Return(&accounting.Attachment{ID: 5, OriginalID: 1}, nil)
	repo.On("FindByOriginalID", mock.Anything, int64(2)).Return(nil, accounting.ErrNotFound)
	blobs.On("Put", mock.Anything, "attachments/account.move/9/2-b.pdf", []byte("b"), "").Return(nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *accounting.Attachment) bool {
		return a.OriginalID == 2 && a.Checksum == "3e23e8160039594a33894f6564e1b1348bbd7a0088d42c4acb73eeaed59c009d"
	})).Return(nil).Once()

	copied, err := copier.Copy(context.Background(), src, 501, 9)

	require.NoError(t, err)
	assert.Equal(t, 1, copied)
	blobs.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestAttachmentCopier_RemovesBlobWhenRecordFails(t *testing.T) {
	blobs := new(MockBlobStore)
	repo := new(MockAttachmentRepository)
	copier := NewAttachmentCopier(blobs, repo, nil)

	src := newFakeSource()
	src.attachments[501] = []migration.LegacyAttachment{{LegacyID: 3, Name: "c.pdf", Data: []byte("c")}}
	repo.On("FindByOriginalID", mock.Anything, int64(3)).Return(nil, accounting.ErrNotFound)
	blobs.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	blobs.On("Delete", mock.Anything, "attachments/account.move/9/3-c.pdf").Return(nil).Once()

	copied, err := copier.Copy(context.Background(), src, 501, 9)

	assert.Error(t, err)
	assert.Equal(t, 0, copied)
	blobs.AssertExpectations(t)
}

func TestAttachmentCopier_SkipsAttachmentWithoutContent(t *testing.T) {
	blobs := new(MockBlobStore)
	repo := new(MockAttachmentRepository)
	copier := NewAttachmentCopier(blobs, repo, nil)

	src := newFakeSource()
	src.attachments[501] = []migration.LegacyAttachment{
		{LegacyID: 5, Name: "inv.pdf", MimeType: "application/pdf", StoreFname: "ab/ab12cd"},
		{LegacyID: 6, Name: "note.txt", Data: []byte("n")},
	}
	repo.On("FindByOriginalID", mock.Anything, int64(5)).Return(nil, accounting.ErrNotFound)
	repo.On("FindByOriginalID", mock.Anything, int64(6)).Return(nil, accounting.ErrNotFound)
	blobs.On("Put", mock.Anything, "attachments/account.move/9/6-note.txt", []byte("n"), "").Return(nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *accounting.Attachment) bool {
		return a.OriginalID == 6
	})).Return(nil).Once()

	copied, err := copier.Copy(context.Background(), src, 501, 9)

	require.ErrorIs(t, err, migration.ErrAttachmentContentMissing)
	assert.Contains(t, err.Error(), "attachment 5")
	assert.Equal(t, "ATTACHMENT_CONTENT_MISSING", migration.ErrorCode(err))
	assert.Equal(t, 1, copied)
	blobs.AssertNotCalled(t, "Put", mock.Anything, "attachments/account.move/9/5-inv.pdf", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.MatchedBy(func(a *accounting.Attachment) bool {
		return a.OriginalID == 5
	}))
	blobs.AssertExpectations(t)
	repo.AssertExpectations(t)
}
