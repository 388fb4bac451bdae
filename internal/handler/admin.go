package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wordageddon/wordageddon/internal/domain"
	"github.com/wordageddon/wordageddon/internal/service"
	"github.com/wordageddon/wordageddon/internal/storage"
	"github.com/wordageddon/wordageddon/internal/validation"
)

// AdminHandler handles corpus administration HTTP requests
type AdminHandler struct {
	corpusService *service.CorpusService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(corpusService *service.CorpusService) *AdminHandler {
	return &AdminHandler{
		corpusService: corpusService,
	}
}

// UploadDocument godoc
// @Summary Upload a corpus document
// @Description Upload a text document and reindex the corpus
// @Tags admin
// @Accept mpfd
// @Produce json
// @Param document formData file true "Plain text document"
// @Success 201 {object} domain.Document
// @Failure 400 {object} ErrorResponse
// @Router /admin/documents [post]
func (h *AdminHandler) UploadDocument(c echo.Context) error {
	file, err := c.FormFile("document")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "no document file provided",
		})
	}

	content, err := readFormFile(file, validation.MaxDocumentSize)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "failed to read document file",
		})
	}

	doc, err := h.corpusService.UploadDocument(c.Request().Context(), file.Filename, content)
	if err != nil {
		if validation.IsUploadError(err) || errors.Is(err, storage.ErrReservedName) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to store document",
		})
	}

	return c.JSON(http.StatusCreated, doc)
}

// ListDocuments godoc
// @Summary List corpus documents
// @Description List the documents currently in the corpus
// @Tags admin
// @Produce json
// @Success 200 {array} domain.Document
// @Failure 500 {object} ErrorResponse
// @Router /admin/documents [get]
func (h *AdminHandler) ListDocuments(c echo.Context) error {
	docs, err := h.corpusService.ListDocuments(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to list documents",
		})
	}
	return c.JSON(http.StatusOK, docs)
}

// DeleteDocument godoc
// @Summary Delete a corpus document
// @Description Remove a document and reindex the corpus
// @Tags admin
// @Produce json
// @Param name path string true "Document name"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /admin/documents/{name} [delete]
func (h *AdminHandler) DeleteDocument(c echo.Context) error {
	name := c.Param("name")

	if err := h.corpusService.DeleteDocument(c.Request().Context(), name); err != nil {
		switch err {
		case domain.ErrDocumentNotFound:
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "document not found",
			})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "failed to delete document",
			})
		}
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadStopwords godoc
// @Summary Upload the stopword list
// @Description Replace the stopword list and reindex the corpus
// @Tags admin
// @Accept mpfd
// @Produce json
// @Param stopwords formData file true "Stopword list, one word per line"
// @Success 200 {object} map[string]int
// @Failure 400 {object} ErrorResponse
// @Router /admin/stopwords [post]
func (h *AdminHandler) UploadStopwords(c echo.Context) error {
	file, err := c.FormFile("stopwords")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "no stopwords file provided",
		})
	}

	content, err := readFormFile(file, validation.MaxStopwordsSize)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "failed to read stopwords file",
		})
	}

	count, err := h.corpusService.UploadStopwords(c.Request().Context(), content)
	if err != nil {
		if validation.IsUploadError(err) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to store stopwords",
		})
	}

	return c.JSON(http.StatusOK, map[string]int{
		"stopwords": count,
	})
}

// Reindex godoc
// @Summary Reindex the corpus
// @Description Rebuild the frequency index from the stored documents
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} ErrorResponse
// @Router /admin/reindex [post]
func (h *AdminHandler) Reindex(c echo.Context) error {
	if err := h.corpusService.Reload(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to reindex corpus",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "reindexed",
	})
}

// SaveSnapshot godoc
// @Summary Save an index snapshot
// @Description Persist the current frequency index to disk
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} ErrorResponse
// @Router /admin/snapshot [post]
func (h *AdminHandler) SaveSnapshot(c echo.Context) error {
	if err := h.corpusService.SaveSnapshot(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to save snapshot",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "saved",
	})
}

// LoadSnapshot godoc
// @Summary Load an index snapshot
// @Description Replace the live frequency index with the persisted snapshot
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /admin/snapshot/load [post]
func (h *AdminHandler) LoadSnapshot(c echo.Context) error {
	if err := h.corpusService.LoadSnapshot(c.Request().Context()); err != nil {
		switch err {
		case service.ErrNoSnapshot:
			return c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "no snapshot available",
			})
		default:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "failed to load snapshot",
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "loaded",
	})
}

// readFormFile reads an uploaded file, capping the read at maxSize plus one
// byte so oversized uploads still fail validation downstream.
func readFormFile(file *multipart.FileHeader, maxSize int64) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
