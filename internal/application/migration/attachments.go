package migration

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"

	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"github.com/morrillo/blo-migration/internal/domain/migration"
	"go.uber.org/zap"
)

// AttachmentCopier copies the files of a legacy invoice to blob storage and
// records them against the migrated invoice. A legacy attachment already
// recorded under its original ID is not copied again. An attachment whose
// content the source did not return is left uncopied so a later run can retry it.
type AttachmentCopier struct {
	blobs       BlobStore
	attachments accounting.AttachmentRepository
	logger      *zap.Logger
}

// NewAttachmentCopier creates a new AttachmentCopier
func NewAttachmentCopier(blobs BlobStore, attachments accounting.AttachmentRepository, logger *zap.Logger) *AttachmentCopier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentCopier{
		blobs:       blobs,
		attachments: attachments,
		logger:      logger,
	}
}

// StorageKey returns the blob key of a legacy attachment copied onto a local invoice
func StorageKey(localInvoiceID int64, a migration.LegacyAttachment) string {
	return path.Join("attachments", accounting.AttachmentResModel,
		fmt.Sprintf("%d", localInvoiceID),
		fmt.Sprintf("%d-%s", a.LegacyID, path.Base(a.Name)))
}

// Copy copies every attachment of the legacy invoice and returns how many were
// newly copied. Attachments without content are skipped and reported together
// in the returned error.
func (c *AttachmentCopier) Copy(ctx context.Context, reader migration.SourceReader, legacyInvoiceID, localInvoiceID int64) (int, error) {
	legacyAttachments, err := reader.ListAttachments(ctx, legacyInvoiceID)
	if err != nil {
		return 0, err
	}

	copied := 0
	var missing []error
	for _, la := range legacyAttachments {
		existing, err := c.attachments.FindByOriginalID(ctx, la.LegacyID)
		if err == nil && existing != nil {
			continue
		}
		if err != nil && !errors.Is(err, accounting.ErrNotFound) {
			return copied, correlationError(accounting.EntityAttachment, la.LegacyID, err)
		}
		if !la.HasContent() {
			c.logger.Warn("Attachment content not available",
				zap.Int64("legacy_attachment_id", la.LegacyID),
				zap.String("store_fname", la.StoreFname),
			)
			missing = append(missing, fmt.Errorf("attachment %d: %w", la.LegacyID, migration.ErrAttachmentContentMissing))
			continue
		}

		if err := c.copyOne(ctx, la, localInvoiceID); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, errors.Join(missing...)
}

func (c *AttachmentCopier) copyOne(ctx context.Context, la migration.LegacyAttachment, localInvoiceID int64) error {
	key := StorageKey(localInvoiceID, la)
	sum := sha256.Sum256(la.Data)

	if err := c.blobs.Put(ctx, key, la.Data, la.MimeType); err != nil {
		return fmt.Errorf("store attachment %d: %w", la.LegacyID, err)
	}

	attachment := &accounting.Attachment{
		ResModel:   accounting.AttachmentResModel,
		ResID:      localInvoiceID,
		Name:       la.Name,
		MimeType:   la.MimeType,
		FileSize:   int64(len(la.Data)),
		Checksum:   hex.EncodeToString(sum[:]),
		StorageKey: key,
		OriginalID: la.LegacyID,
	}
	if err := c.attachments.Create(ctx, attachment); err != nil {
		if delErr := c.blobs.Delete(ctx, key); delErr != nil {
			c.logger.Warn("Failed to remove orphaned attachment blob",
				zap.String("storage_key", key),
				zap.Error(delErr),
			)
		}
		return fmt.Errorf("record attachment %d: %w", la.LegacyID, err)
	}

	c.logger.Debug("Attachment copied",
		zap.Int64("legacy_attachment_id", la.LegacyID),
		zap.Int64("invoice_id", localInvoiceID),
		zap.String("storage_key", key),
	)
	return nil
}
