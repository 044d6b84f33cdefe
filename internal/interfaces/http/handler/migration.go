package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appmigration "github.com/morrillo/blo-migration/internal/application/migration"
	"github.com/morrillo/blo-migration/internal/domain/migration"
	"github.com/morrillo/blo-migration/internal/infrastructure/logger"
	"github.com/morrillo/blo-migration/internal/interfaces/http/dto"
	"github.com/morrillo/blo-migration/internal/interfaces/http/middleware"
)

// InvoiceMigrator runs one invoice migration
type InvoiceMigrator interface {
	Run(ctx context.Context, connector migration.SourceConnector, mctx migration.MigrationContext, opts appmigration.RunOptions) (*migration.Report, error)
}

// MigrationHandler exposes the two operator actions that trigger an invoice
// migration, one per legacy transport
type MigrationHandler struct {
	BaseHandler
	migrator   InvoiceMigrator
	connectors map[migration.Mode]migration.SourceConnector
	mctx       migration.MigrationContext
	defaults   appmigration.RunOptions
}

// NewMigrationHandler creates a handler; defaults supply the run options a
// request does not override
func NewMigrationHandler(
	migrator InvoiceMigrator,
	rpc, sql migration.SourceConnector,
	mctx migration.MigrationContext,
	defaults appmigration.RunOptions,
) *MigrationHandler {
	return &MigrationHandler{
		migrator: migrator,
		connectors: map[migration.Mode]migration.SourceConnector{
			migration.ModeRPC: rpc,
			migration.ModeSQL: sql,
		},
		mctx:     mctx,
		defaults: defaults,
	}
}

// RegisterRoutes mounts the migration actions under /migrations
func (h *MigrationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/migrations/invoices")
	invoices.POST("/rpc", h.MigrateRPC)
	invoices.POST("/sql", h.MigrateSQL)
}

// MigrateRPC migrates invoices read through the legacy RPC endpoint
func (h *MigrationHandler) MigrateRPC(c *gin.Context) {
	h.migrate(c, migration.ModeRPC)
}

// MigrateSQL migrates invoices read directly from the legacy database
func (h *MigrationHandler) MigrateSQL(c *gin.Context) {
	h.migrate(c, migration.ModeSQL)
}

func (h *MigrationHandler) migrate(c *gin.Context, mode migration.Mode) {
	var req dto.RunMigrationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
			return
		}
		h.Error(c, dto.ErrCodeInvalidJSON, "Request body must be a JSON object")
		return
	}

	mctx := h.mctx
	if header := c.GetHeader(middleware.HeaderUserID); header != "" {
		userID, err := strconv.ParseInt(header, 10, 64)
		if err != nil || userID <= 0 {
			h.BadRequest(c, "X-User-ID must be a positive integer")
			return
		}
		mctx.ActingUserID = userID
	}

	opts := h.defaults
	if req.CopyAttachments != nil {
		opts.CopyAttachments = *req.CopyAttachments
	}

	ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), strconv.FormatInt(mctx.ActingUserID, 10))
	report, err := h.migrator.Run(ctx, h.connectors[mode], mctx, opts)
	resp := dto.NewMigrationReportResponse(report)
	if err != nil {
		code := dto.RunErrorCode(err)
		logger.L(ctx).Warn("Invoice migration request failed",
			zap.String("mode", string(mode)),
			zap.String("code", code),
			zap.Error(err),
		)
		h.ErrorWithData(c, code, err.Error(), resp)
		return
	}

	h.Success(c, resp)
}
