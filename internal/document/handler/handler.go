package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inksign/inksign/internal/document"
	"github.com/inksign/inksign/internal/document/service"
	"github.com/inksign/inksign/pkg/logger"
	"github.com/inksign/inksign/pkg/metrics"
	"github.com/inksign/inksign/pkg/middleware"
)

// Handler exposes the document lifecycle over HTTP. Every route runs behind
// the access guard; handlers only ever see verified identities.
type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the document routes behind the provided guard middleware.
func (h *Handler) Register(r *gin.Engine, guard gin.HandlerFunc) {
	d := r.Group("/api/documents", guard)
	d.GET("/user", h.List)
	d.GET("/:id", h.Get)
	d.GET("/:id/download", h.Download)
	d.POST("/upload", h.Upload)
	d.POST("/:id/sign", h.Sign)
	d.DELETE("/:id/destroy", h.Delete)
}

// List returns the caller's documents, never anyone else's.
func (h *Handler) List(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	docs, err := h.svc.List(c.Request.Context(), identity)
	if err != nil {
		h.fail(c, "list", err)
		return
	}
	metrics.DocumentOperations.WithLabelValues("list", "ok").Inc()
	c.JSON(http.StatusOK, docs)
}

func (h *Handler) Get(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	d, err := h.svc.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		h.fail(c, "get", err)
		return
	}
	metrics.DocumentOperations.WithLabelValues("get", "ok").Inc()
	c.JSON(http.StatusOK, d)
}

// Download returns a short-lived URL for the stored PDF bytes.
func (h *Handler) Download(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	url, err := h.svc.DownloadURL(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		h.fail(c, "download", err)
		return
	}
	metrics.DocumentOperations.WithLabelValues("download", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Upload accepts a multipart "file" field holding a PDF of at most 10MB.
func (h *Handler) Upload(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		metrics.DocumentOperations.WithLabelValues("upload", "rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": document.ErrMissingFile.Error()})
		return
	}
	defer file.Close()

	d, err := h.svc.Upload(c.Request.Context(), identity, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		h.fail(c, "upload", err)
		return
	}
	metrics.DocumentOperations.WithLabelValues("upload", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"message":  "document uploaded",
		"id":       d.ID,
		"filename": d.Filename,
		"size":     d.Size,
	})
}

// Sign applies the signature claim. multipart fields: signatureText
// (required), signatureImage (optional).
func (h *Handler) Sign(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	signatureText := c.PostForm("signatureText")

	var image *service.SignatureImage
	if file, header, err := c.Request.FormFile("signatureImage"); err == nil {
		defer file.Close()
		image = &service.SignatureImage{
			Filename:    header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      file,
		}
	}

	rec, err := h.svc.Sign(c.Request.Context(), identity, c.Param("id"), signatureText, image)
	if err != nil {
		h.fail(c, "sign", err)
		return
	}
	metrics.DocumentOperations.WithLabelValues("sign", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"message":  "document signed",
		"signedAt": rec.SignedAt,
		"signedBy": rec.SignedBy,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		h.fail(c, "delete", err)
		return
	}
	metrics.DocumentOperations.WithLabelValues("delete", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
}

// fail maps domain errors to HTTP statuses. Unexpected collaborator failures
// are logged and reported as a generic server error.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, document.ErrNotFound):
		metrics.DocumentOperations.WithLabelValues(op, "not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": document.ErrNotFound.Error()})
	case errors.Is(err, document.ErrUnsupportedType),
		errors.Is(err, document.ErrFileTooLarge),
		errors.Is(err, document.ErrMissingSignature),
		errors.Is(err, document.ErrMissingFile):
		metrics.DocumentOperations.WithLabelValues(op, "rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Errorf("document %s failed: %v", op, err)
		metrics.DocumentOperations.WithLabelValues(op, "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}
