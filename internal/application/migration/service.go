package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"github.com/morrillo/blo-migration/internal/domain/migration"
	"github.com/morrillo/blo-migration/internal/infrastructure/logger"
	"github.com/morrillo/blo-migration/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultLockKey is the run lock key shared by both transports
const DefaultLockKey = "invoice-migration"

// RunOptions tunes one migration run
type RunOptions struct {
	// CopyAttachments enables the attachment copy step. Off by default.
	CopyAttachments bool
	// InvoiceTimeout bounds the processing of a single invoice. Zero disables it.
	InvoiceTimeout time.Duration
	LockKey        string
	LockTTL        time.Duration
}

// InvoiceMigrationService migrates eligible legacy invoices into the target store.
// Invoices are processed one at a time in read order. A failure on one invoice
// is recorded in the report and does not stop the others; a source failure
// stops the run.
type InvoiceMigrationService struct {
	resolver    *CorrelationResolver
	builder     *PayloadBuilder
	invoices    accounting.InvoiceRepository
	attachments *AttachmentCopier
	lock        RunLock
	metrics     MetricsRecorder
	logger      *zap.Logger
}

// InvoiceMigrationServiceConfig holds the collaborators of the service
type InvoiceMigrationServiceConfig struct {
	Resolver    *CorrelationResolver
	Builder     *PayloadBuilder
	Invoices    accounting.InvoiceRepository
	Attachments *AttachmentCopier // optional
	Lock        RunLock           // optional
	Metrics     MetricsRecorder   // optional
	Logger      *zap.Logger
}

// NewInvoiceMigrationService creates a new InvoiceMigrationService
func NewInvoiceMigrationService(cfg InvoiceMigrationServiceConfig) *InvoiceMigrationService {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	builder := cfg.Builder
	if builder == nil {
		builder = NewPayloadBuilder()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &InvoiceMigrationService{
		resolver:    cfg.Resolver,
		builder:     builder,
		invoices:    cfg.Invoices,
		attachments: cfg.Attachments,
		lock:        cfg.Lock,
		metrics:     metrics,
		logger:      log,
	}
}

// Run migrates every eligible invoice of the source behind connector.
// The returned report is never nil. A non-nil error means the run was aborted;
// the report then holds the outcomes recorded before the abort.
func (s *InvoiceMigrationService) Run(
	ctx context.Context,
	connector migration.SourceConnector,
	mctx migration.MigrationContext,
	opts RunOptions,
) (*migration.Report, error) {
	report := migration.NewReport(connector.Mode())

	ctx, log := logger.WithRunID(ctx, s.logger, report.RunID.String())
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice_migration", "run",
		telemetry.WithAttribute(telemetry.SpanAttrRunID, report.RunID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrMode, string(connector.Mode())),
	)
	defer span.End()

	abort := func(err error) (*migration.Report, error) {
		report.Abort(err)
		telemetry.RecordError(span, err)
		s.metrics.RecordRun(ctx, report)
		logger.L(ctx).Error("Invoice migration aborted",
			zap.String("mode", string(report.Mode)),
			zap.Int("processed", len(report.Outcomes)),
			zap.Error(err),
		)
		return report, err
	}

	if err := mctx.Validate(); err != nil {
		return abort(err)
	}

	if s.lock != nil {
		release, err := s.acquireLock(ctx, opts)
		if err != nil {
			return abort(err)
		}
		defer release()
	}

	reader, err := connector.Connect(ctx)
	if err != nil {
		return abort(err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			log.Warn("Failed to close legacy source", zap.Error(err))
		}
	}()

	ids, err := reader.ListEligibleInvoiceIDs(ctx)
	if err != nil {
		return abort(sourceError("list eligible invoices", err))
	}
	report.Eligible = len(ids)
	logger.L(ctx).Info("Invoice migration started",
		zap.String("mode", string(report.Mode)),
		zap.Int("eligible", len(ids)),
		zap.Bool("copy_attachments", opts.CopyAttachments),
	)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return abort(err)
		}

		outcome, err := s.MigrateInvoice(ctx, reader, id, mctx, opts)
		if err != nil {
			report.Add(outcome)
			return abort(err)
		}
		report.Add(outcome)
	}

	report.Finish()
	s.metrics.RecordRun(ctx, report)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCreated, report.Created(),
		telemetry.SpanAttrSkipped, report.Skipped(),
		telemetry.SpanAttrFailed, report.Failed(),
	)
	logger.L(ctx).Info("Invoice migration finished",
		zap.Int("created", report.Created()),
		zap.Int("skipped", report.Skipped()),
		zap.Int("failed", report.Failed()),
		zap.Duration("duration", report.Duration()),
	)
	return report, nil
}

// MigrateInvoice moves one legacy invoice through
// fetched, resolved, built and then created, skipped or failed.
// The returned error is only set for source failures, which end the run; every
// other failure is reported in the outcome.
func (s *InvoiceMigrationService) MigrateInvoice(
	ctx context.Context,
	reader migration.SourceReader,
	legacyID int64,
	mctx migration.MigrationContext,
	opts RunOptions,
) (migration.InvoiceOutcome, error) {
	if opts.InvoiceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.InvoiceTimeout)
		defer cancel()
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "invoice_migration", "migrate_invoice",
		telemetry.WithAttribute(telemetry.SpanAttrLegacyInvoiceID, legacyID),
	)
	defer span.End()

	ctx = logger.WithLegacyInvoiceID(ctx, legacyID)
	log := logger.L(ctx)
	outcome := migration.InvoiceOutcome{LegacyID: legacyID}
	defer func() {
		s.metrics.RecordInvoice(ctx, outcome)
	}()

	header, err := reader.ReadInvoice(ctx, legacyID)
	if err != nil {
		err = sourceError("read invoice", err)
		outcome.Fail(err)
		telemetry.RecordError(span, err)
		return outcome, err
	}
	lines, err := reader.ReadLines(ctx, legacyID)
	if err != nil {
		err = sourceError("read invoice lines", err)
		outcome.Fail(err)
		telemetry.RecordError(span, err)
		return outcome, err
	}
	outcome.State = migration.StateFetched
	outcome.LineCount = len(lines)

	refs, err := s.resolver.ResolveInvoiceReferences(ctx, header, lines)
	if err != nil {
		outcome.Fail(err)
		log.Warn("Invoice references could not be resolved", zap.Error(err))
		return outcome, nil
	}
	outcome.State = migration.StateResolved

	payload, err := s.builder.BuildInvoicePayload(mctx, header, lines, refs)
	if err != nil {
		outcome.Fail(err)
		log.Warn("Invoice payload could not be built", zap.Error(err))
		return outcome, nil
	}
	outcome.State = migration.StateBuilt

	existing, err := s.invoices.FindByOriginalID(ctx, legacyID)
	switch {
	case err == nil:
		outcome.State = migration.StateSkipped
		outcome.LocalID = existing.ID
		log.Debug("Invoice already migrated", zap.Int64("invoice_id", existing.ID))
	case errors.Is(err, accounting.ErrNotFound):
		created, err := s.create(ctx, payload)
		if err != nil {
			outcome.Fail(err)
			telemetry.RecordError(span, err)
			log.Error("Invoice could not be created", zap.Error(err))
			return outcome, nil
		}
		outcome.State = created.state
		outcome.LocalID = created.id
		if created.state == migration.StateCreated {
			log.Info("Invoice migrated",
				zap.Int64("invoice_id", created.id),
				zap.Int("lines", len(payload.Lines)),
			)
		}
	default:
		err = correlationError(accounting.EntityInvoice, legacyID, err)
		outcome.Fail(err)
		log.Error("Invoice idempotency check failed", zap.Error(err))
		return outcome, nil
	}

	if opts.CopyAttachments && s.attachments != nil {
		copied, err := s.attachments.Copy(ctx, reader, legacyID, outcome.LocalID)
		outcome.AttachmentsCopied = copied
		if err != nil {
			outcome.AttachmentError = err.Error()
			log.Warn("Attachment copy incomplete", zap.Int("copied", copied), zap.Error(err))
		}
	}

	return outcome, nil
}

type createResult struct {
	id    int64
	state migration.InvoiceState
}

// create submits the payload. A concurrent run that created the same invoice
// first turns this attempt into a skip.
func (s *InvoiceMigrationService) create(ctx context.Context, payload *accounting.InvoicePayload) (createResult, error) {
	invoice, err := s.invoices.Create(ctx, payload)
	if err == nil {
		return createResult{id: invoice.ID, state: migration.StateCreated}, nil
	}
	if !errors.Is(err, accounting.ErrDuplicateOriginalID) {
		return createResult{}, fmt.Errorf("create invoice %d: %w", payload.OriginalID, err)
	}

	existing, findErr := s.invoices.FindByOriginalID(ctx, payload.OriginalID)
	if findErr != nil {
		return createResult{}, fmt.Errorf("create invoice %d: %w", payload.OriginalID, err)
	}
	return createResult{id: existing.ID, state: migration.StateSkipped}, nil
}

func (s *InvoiceMigrationService) acquireLock(ctx context.Context, opts RunOptions) (func(), error) {
	key := opts.LockKey
	if key == "" {
		key = DefaultLockKey
	}
	ttl := opts.LockTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	token, ok, err := s.lock.TryLock(ctx, key, ttl)
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, migration.ErrRunInProgress
	}

	return func() {
		// the run context may already be cancelled
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.lock.Unlock(releaseCtx, key, token); err != nil {
			logger.L(ctx).Warn("Failed to release run lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// sourceError keeps reader errors inside the run-fatal part of the taxonomy
func sourceError(op string, err error) error {
	if migration.IsRunFatal(err) {
		return err
	}
	return &migration.QueryError{Query: op, Err: err}
}
