package accounting

// AttachmentResModel is the model name attachments of migrated invoices point at
const AttachmentResModel = "account.move"

// Attachment is a file attached to a target record. The file content lives in
// blob storage under StorageKey.
type Attachment struct {
	ID         int64
	ResModel   string
	ResID      int64
	Name       string
	MimeType   string
	FileSize   int64
	Checksum   string
	StorageKey string
	OriginalID int64
}
