package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/depot-sh/depot/internal/domain/entities"
	"github.com/depot-sh/depot/internal/usecase"
	"github.com/depot-sh/depot/pkg/logging"
	"github.com/depot-sh/depot/pkg/types"
)

// UploadHandler ingests multipart upload batches.
type UploadHandler struct {
	ingest *usecase.IngestUseCase
	limits func() entities.Limits
	logger *logging.Logger
}

// NewUploadHandler creates an upload handler. limits is read per
// request so a config reload takes effect without a restart.
func NewUploadHandler(ingest *usecase.IngestUseCase, limits func() entities.Limits, logger *logging.Logger) *UploadHandler {
	return &UploadHandler{ingest: ingest, limits: limits, logger: logger}
}

// RegisterRoutes registers upload routes on an authenticated group.
func (h *UploadHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/upload", h.Upload)
}

// Upload accepts one or more files under the "file" multipart field and
// returns one outcome per file plus aggregate counts.
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid multipart form"})
		return
	}
	headers := form.File["file"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "no files provided"})
		return
	}

	batch := make([]entities.UploadFile, 0, len(headers))
	var opened []interface{ Close() error }
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, hdr := range headers {
		f, err := hdr.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to read upload"})
			return
		}
		opened = append(opened, f)
		batch = append(batch, entities.UploadFile{
			OriginalName: hdr.Filename,
			Reader:       f,
			DeclaredSize: hdr.Size,
		})
	}

	outcomes, err := h.ingest.Ingest(c.Request.Context(), batch, h.limits())
	if err != nil {
		if errors.Is(err, entities.ErrBatchTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: entities.ErrorKind(err)})
			return
		}
		h.logger.Error("batch ingestion failed", "error", err)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "ingestion failed"})
		return
	}

	resp := types.UploadResponse{Files: make([]types.FileOutcome, 0, len(outcomes))}
	for _, out := range outcomes {
		fo := types.FileOutcome{
			Filename: out.OriginalName,
			Success:  out.Success,
		}
		if out.Success {
			fo.SavedAs = out.StoredName
			fo.Hash = out.Digest
			resp.SuccessCount++
		} else {
			fo.Error = entities.ErrorKind(out.Err)
			resp.FailureCount++
		}
		resp.Files = append(resp.Files, fo)
	}
	resp.Success = resp.FailureCount == 0

	c.JSON(http.StatusOK, resp)
}
