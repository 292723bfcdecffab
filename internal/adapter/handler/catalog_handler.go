package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/depot-sh/depot/internal/domain/entities"
	"github.com/depot-sh/depot/internal/filetype"
	"github.com/depot-sh/depot/internal/usecase"
	"github.com/depot-sh/depot/pkg/types"
)

// CatalogHandler serves the date-grouped listing, raw files,
// thumbnails and deletion.
type CatalogHandler struct {
	catalog       *usecase.CatalogUseCase
	groupsPerPage func() int
}

func NewCatalogHandler(catalog *usecase.CatalogUseCase, groupsPerPage func() int) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, groupsPerPage: groupsPerPage}
}

// RegisterRoutes registers catalog routes on an authenticated group.
func (h *CatalogHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/files", h.List)
	group.DELETE("/files/:name", h.Delete)
	group.GET("/raw/:name", h.Serve)
	group.GET("/thumbs/:name", h.ServeThumb)
}

// List returns one page of date groups, newest dates first.
func (h *CatalogHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "0"))
	if perPage < 1 {
		perPage = h.groupsPerPage()
	}

	result, err := h.catalog.List(c.Request.Context(), page, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to list files"})
		return
	}

	resp := types.ListResponse{
		Groups:       make([]types.ListedGroup, 0, len(result.Groups)),
		TotalEntries: result.TotalEntries,
		TotalGroups:  result.TotalGroups,
		TotalPages:   result.TotalPages,
		Page:         result.Page,
	}
	for _, g := range result.Groups {
		lg := types.ListedGroup{
			Date:    g.Date.Format("2006-01-02"),
			Count:   g.Count,
			Entries: make([]types.ListedEntry, 0, len(g.Entries)),
		}
		for _, e := range g.Entries {
			lg.Entries = append(lg.Entries, types.ListedEntry{
				Name:         e.StoredName,
				OriginalName: e.OriginalName,
				Size:         e.SizeBytes,
				SizeHuman:    humanize.Bytes(uint64(e.SizeBytes)),
				Category:     string(filetype.CategoryOf(e.StoredName)),
				Mime:         filetype.MimeOf(e.StoredName),
				UploadedAt:   e.CreatedAt,
				HasThumbnail: e.HasThumbnail,
			})
		}
		resp.Groups = append(resp.Groups, lg)
	}

	c.JSON(http.StatusOK, resp)
}

// Serve streams the stored bytes. The content type comes from the
// extension lookup, falling back to sniffing the leading bytes when
// the extension says nothing.
func (h *CatalogHandler) Serve(c *gin.Context) {
	name := c.Param("name")
	rc, err := h.catalog.Open(c.Request.Context(), name)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	defer rc.Close()

	contentType := filetype.MimeOf(name)
	var header []byte
	if contentType == "application/octet-stream" {
		header = make([]byte, 3072)
		n, _ := io.ReadFull(rc, header)
		header = header[:n]
		if sniffed := filetype.SniffBytes(header); sniffed != "" {
			contentType = sniffed
		}
	}

	c.Header("Content-Type", contentType)
	if _, err := c.Writer.Write(header); err != nil {
		return
	}
	if _, err := io.Copy(c.Writer, rc); err != nil {
		// Too late for a JSON error once bytes have gone out.
		c.Abort()
	}
}

// ServeThumb streams the preview; 404 tells the client to fall back to
// a generic icon.
func (h *CatalogHandler) ServeThumb(c *gin.Context) {
	name := c.Param("name")
	rc, err := h.catalog.OpenThumb(c.Request.Context(), name)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", filetype.MimeOf(name))
	io.Copy(c.Writer, rc)
}

// Delete removes the entry and its thumbnail.
func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("name")); err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "not_found"})
	case errors.Is(err, entities.ErrInvalidName), errors.Is(err, entities.ErrEmptyName):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_name"})
	default:
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "internal_error"})
	}
}
