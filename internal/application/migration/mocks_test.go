package migration

import (
	"context"
	"sync"
	"time"

	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"github.com/morrillo/blo-migration/internal/domain/migration"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindByOriginalID(ctx context.Context, originalID int64) (*accounting.Journal, error) {
	args := m.Called(ctx, originalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Journal), args.Error(1)
}

func (m *MockJournalRepository) Create(ctx context.Context, journal *accounting.Journal) error {
	return m.Called(ctx, journal).Error(0)
}

type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) FindByOriginalID(ctx context.Context, originalID int64) (*accounting.Partner, error) {
	args := m.Called(ctx, originalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Partner), args.Error(1)
}

func (m *MockPartnerRepository) Create(ctx context.Context, partner *accounting.Partner) error {
	return m.Called(ctx, partner).Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByOriginalID(ctx context.Context, originalID int64) (*accounting.Product, error) {
	args := m.Called(ctx, originalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *accounting.Product) error {
	return m.Called(ctx, product).Error(0)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByOriginalID(ctx context.Context, originalID int64) (*accounting.Invoice, error) {
	args := m.Called(ctx, originalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Create(ctx context.Context, payload *accounting.InvoicePayload) (*accounting.Invoice, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Invoice), args.Error(1)
}

type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) FindByOriginalID(ctx context.Context, originalID int64) (*accounting.Attachment, error) {
	args := m.Called(ctx, originalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) Create(ctx context.Context, attachment *accounting.Attachment) error {
	return m.Called(ctx, attachment).Error(0)
}

// =============================================================================
// Mock Ports
// =============================================================================

type MockSourceReader struct {
	mock.Mock
}

func (m *MockSourceReader) ListEligibleInvoiceIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockSourceReader) ReadInvoice(ctx context.Context, legacyID int64) (*migration.LegacyInvoiceHeader, error) {
	args := m.Called(ctx, legacyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*migration.LegacyInvoiceHeader), args.Error(1)
}

func (m *MockSourceReader) ReadLines(ctx context.Context, legacyID int64) ([]migration.LegacyInvoiceLine, error) {
	args := m.Called(ctx, legacyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]migration.LegacyInvoiceLine), args.Error(1)
}

func (m *MockSourceReader) ListAttachments(ctx context.Context, legacyID int64) ([]migration.LegacyAttachment, error) {
	args := m.Called(ctx, legacyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]migration.LegacyAttachment), args.Error(1)
}

func (m *MockSourceReader) Close() error {
	return m.Called().Error(0)
}

type MockRunLock struct {
	mock.Mock
}

func (m *MockRunLock) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockRunLock) Unlock(ctx context.Context, key, token string) error {
	return m.Called(ctx, key, token).Error(0)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *MockBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// =============================================================================
// Fakes
// =============================================================================

// stubConnector hands out a fixed reader or a fixed error
type stubConnector struct {
	mode   migration.Mode
	reader migration.SourceReader
	err    error
}

func (c *stubConnector) Mode() migration.Mode {
	return c.mode
}

func (c *stubConnector) Connect(ctx context.Context) (migration.SourceReader, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.reader, nil
}

// fakeSource is an in-memory legacy source
type fakeSource struct {
	order       []int64
	headers     map[int64]*migration.LegacyInvoiceHeader
	lines       map[int64][]migration.LegacyInvoiceLine
	attachments map[int64][]migration.LegacyAttachment
	readErr     map[int64]error
	attachErr   map[int64]error
	closed      bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		headers:     make(map[int64]*migration.LegacyInvoiceHeader),
		lines:       make(map[int64][]migration.LegacyInvoiceLine),
		attachments: make(map[int64][]migration.LegacyAttachment),
		readErr:     make(map[int64]error),
	}
}

func (f *fakeSource) add(h *migration.LegacyInvoiceHeader, lines ...migration.LegacyInvoiceLine) {
	f.order = append(f.order, h.LegacyID)
	f.headers[h.LegacyID] = h
	f.lines[h.LegacyID] = lines
}

func (f *fakeSource) ListEligibleInvoiceIDs(ctx context.Context) ([]int64, error) {
	return append([]int64(nil), f.order...), nil
}

func (f *fakeSource) ReadInvoice(ctx context.Context, legacyID int64) (*migration.LegacyInvoiceHeader, error) {
	if err := f.readErr[legacyID]; err != nil {
		return nil, err
	}
	return f.headers[legacyID], nil
}

func (f *fakeSource) ReadLines(ctx context.Context, legacyID int64) ([]migration.LegacyInvoiceLine, error) {
	return f.lines[legacyID], nil
}

func (f *fakeSource) ListAttachments(ctx context.Context, legacyID int64) ([]migration.LegacyAttachment, error) {
	if err := f.attachErr[legacyID]; err != nil {
		return nil, err
	}
	return f.attachments[legacyID], nil
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

// memoryInvoiceRepository is an in-memory target store for invoices
type memoryInvoiceRepository struct {
	mu       sync.Mutex
	nextID   int64
	invoices map[int64]*accounting.Invoice
	creates  int
}

func newMemoryInvoiceRepository() *memoryInvoiceRepository {
	return &memoryInvoiceRepository{nextID: 1, invoices: make(map[int64]*accounting.Invoice)}
}

func (r *memoryInvoiceRepository) FindByOriginalID(ctx context.Context, originalID int64) (*accounting.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[originalID]
	if !ok {
		return nil, accounting.ErrNotFound
	}
	return inv, nil
}

func (r *memoryInvoiceRepository) Create(ctx context.Context, payload *accounting.InvoicePayload) (*accounting.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if _, ok := r.invoices[payload.OriginalID]; ok {
		return nil, accounting.ErrDuplicateOriginalID
	}
	inv := payload.ToInvoice()
	inv.ID = r.nextID
	r.nextID++
	r.invoices[payload.OriginalID] = inv
	return inv, nil
}

// memoryCatalog answers FindByOriginalID for journals, partners and products
type memoryCatalog struct {
	journals map[int64]*accounting.Journal
	partners map[int64]*accounting.Partner
	products map[int64]*accounting.Product
}

type catalogJournals struct{ *memoryCatalog }
type catalogPartners struct{ *memoryCatalog }
type catalogProducts struct{ *memoryCatalog }

func (c catalogJournals) FindByOriginalID(ctx context.Context, id int64) (*accounting.Journal, error) {
	if j, ok := c.journals[id]; ok {
		return j, nil
	}
	return nil, accounting.ErrNotFound
}

func (c catalogJournals) Create(ctx context.Context, j *accounting.Journal) error {
	c.journals[j.OriginalID] = j
	return nil
}

func (c catalogPartners) FindByOriginalID(ctx context.Context, id int64) (*accounting.Partner, error) {
	if p, ok := c.partners[id]; ok {
		return p, nil
	}
	return nil, accounting.ErrNotFound
}

func (c catalogPartners) Create(ctx context.Context, p *accounting.Partner) error {
	c.partners[p.OriginalID] = p
	return nil
}

func (c catalogProducts) FindByOriginalID(ctx context.Context, id int64) (*accounting.Product, error) {
	if p, ok := c.products[id]; ok {
		return p, nil
	}
	return nil, accounting.ErrNotFound
}

func (c catalogProducts) Create(ctx context.Context, p *accounting.Product) error {
	c.products[p.OriginalID] = p
	return nil
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{
		journals: map[int64]*accounting.Journal{77: {ID: 3, Name: "Customer Invoices", Code: "INV", OriginalID: 77}},
		partners: map[int64]*accounting.Partner{12: {ID: 8, Name: "Acme", OriginalID: 12}},
		products: map[int64]*accounting.Product{9: {ID: 44, Name: "Widget", UomID: 1, TaxIDs: []int64{5}, OriginalID: 9}},
	}
}

func (c *memoryCatalog) resolver() *CorrelationResolver {
	return NewCorrelationResolver(catalogJournals{c}, catalogPartners{c}, catalogProducts{c})
}

// recordingMetrics keeps what the service reported
type recordingMetrics struct {
	invoices []migration.InvoiceOutcome
	runs     []*migration.Report
}

func (m *recordingMetrics) RecordInvoice(ctx context.Context, outcome migration.InvoiceOutcome) {
	m.invoices = append(m.invoices, outcome)
}

func (m *recordingMetrics) RecordRun(ctx context.Context, report *migration.Report) {
	m.runs = append(m.runs, report)
}
