package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/inksign/inksign/internal/document"
	"github.com/inksign/inksign/internal/document/repository"
	"github.com/inksign/inksign/internal/models"
	"github.com/inksign/inksign/internal/storage"
	"github.com/inksign/inksign/pkg/logger"
)

// MaxUploadSize is the largest accepted document. Exactly this size passes.
const MaxUploadSize = 10 * 1024 * 1024

const (
	// reads get one retry, mutations never retry (no double-effects)
	readTimeout  = 5 * time.Second
	writeTimeout = 10 * time.Second

	downloadURLTTL = 15 * time.Minute
)

// SignatureImage is an optional image attached to a sign request.
type SignatureImage struct {
	Filename    string
	Size        int64
	ContentType string
	Reader      io.Reader
}

/// Service owns the document lifecycle: per-owner visibility, upload
// validation and the monotonic UNSIGNED -> SIGNED transition.
type Service interface {
	List(ctx context.Context, identity *models.Identity) ([]*document.Document, error)
	Get(ctx context.Context, identity *models.Identity, id string) (*document.Document, error)
	Upload(ctx context.Context, identity *models.Identity, filename, contentType string, size int64, r io.Reader) (*document.Document, error)
	Sign(ctx context.Context, identity *models.Identity, id, signatureText string, image *SignatureImage) (*document.SignatureRecord, error)
	Delete(ctx context.Context, identity *models.Identity, id string) error
	DownloadURL(ctx context.Context, identity *models.Identity, id string) (string, error)
}

type service struct {
	repo  repository.Repository
	store storage.ObjectStore
}

func New(repo repository.Repository, store storage.ObjectStore) Service {
	return &service{repo: repo, store: store}
}

func (s *service) List(ctx context.Context, identity *models.Identity) ([]*document.Document, error) {
	var out []*document.Document
	err := withReadRetry(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.repo.ListByOwner(ctx, identity.UserID)
		return err
	})
	return out, err
}

func (s *service) Get(ctx context.Context, identity *models.Identity, id string) (*document.Document, error) {
	var d *document.Document
	err := withReadRetry(ctx, func(ctx context.Context) error {
		var err error
		d, err = s.repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if d.OwnerID != identity.UserID {
		// non-owners must not learn the document exists
		return nil, document.ErrNotFound
	}
	return d, nil
}

func (s *service) Upload(ctx context.Context, identity *models.Identity, filename, contentType string, size int64, r io.Reader) (*document.Document, error) {
	if r == nil {
		return nil, document.ErrMissingFile
	}
	if contentType != "application/pdf" {
		return nil, document.ErrUnsupportedType
	}
	if size > MaxUploadSize {
		return nil, document.ErrFileTooLarge
	}

	now := time.Now().UTC()
	doc := &document.Document{
		ID:         fmt.Sprintf("doc_%d", now.UnixNano()),
		OwnerID:    identity.UserID,
		Filename:   filename,
		Size:       size,
		Status:     document.StatusUnsigned,
		UploadedAt: now,
	}
	doc.StorageKey = fmt.Sprintf("documents/%s/%s/%s", identity.UserID, doc.ID, filename)

	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := s.store.Upload(wctx, doc.StorageKey, r, size, contentType); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	if _, err := s.repo.Create(wctx, doc); err != nil {
		// avoid orphaned bytes when metadata creation fails
		if derr := s.store.Delete(context.WithoutCancel(ctx), doc.StorageKey); derr != nil {
			logger.Warnf("orphan cleanup failed for %s: %v", doc.StorageKey, derr)
		}
		return nil, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

func (s *service) Sign(ctx context.Context, identity *models.Identity, id, signatureText string, image *SignatureImage) (*document.SignatureRecord, error) {
	if signatureText == "" {
		return nil, document.ErrMissingSignature
	}
	// ownership gate before any state change
	d, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	if d.Status == document.StatusSigned {
		// repeat sign is a no-op: the original record stands
		return d.Signature, nil
	}

	rec := &document.SignatureRecord{
		SignedBy:      identity.Name,
		SignatureText: signatureText,
		SignedAt:      time.Now().UTC(),
	}

	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if image != nil && image.Reader != nil {
		rec.ImageKey = fmt.Sprintf("signatures/%s/%s/%s", identity.UserID, id, image.Filename)
		if err := s.store.Upload(wctx, rec.ImageKey, image.Reader, image.Size, image.ContentType); err != nil {
			return nil, fmt.Errorf("signature image upload: %w", err)
		}
	}

	if err := s.repo.Sign(wctx, id, rec); err != nil {
		if errors.Is(err, document.ErrAlreadySigned) {
			// lost the race to a concurrent signer; report their record
			signed, gerr := s.Get(ctx, identity, id)
			if gerr != nil {
				return nil, gerr
			}
			return signed.Signature, nil
		}
		return nil, err
	}
	return rec, nil
}

func (s *service) Delete(ctx context.Context, identity *models.Identity, id string) error {
	d, err := s.Get(ctx, identity, id)
	if err != nil {
		return err
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := s.repo.Delete(wctx, id); err != nil {
		return err
	}
	// storage cleanup is best effort; metadata is already gone
	if d.StorageKey != "" {
		if err := s.store.Delete(wctx, d.StorageKey); err != nil {
			logger.Warnf("failed to delete stored object %s: %v", d.StorageKey, err)
		}
	}
	if d.Signature != nil && d.Signature.ImageKey != "" {
		if err := s.store.Delete(wctx, d.Signature.ImageKey); err != nil {
			logger.Warnf("failed to delete signature image %s: %v", d.Signature.ImageKey, err)
		}
	}
	return nil
}

func (s *service) DownloadURL(ctx context.Context, identity *models.Identity, id string) (string, error) {
	d, err := s.Get(ctx, identity, id)
	if err != nil {
		return "", err
	}
	rctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	url, err := s.store.PresignedURL(rctx, d.StorageKey, downloadURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	return url, nil
}

// withReadRetry runs op with a bounded timeout and a single retry on
// infrastructure failures. Domain errors are returned as-is.
func withReadRetry(ctx context.Context, op func(ctx context.Context) error) error {
	run := func() error {
		rctx, cancel := context.WithTimeout(ctx, readTimeout)
		defer cancel()
		return op(rctx)
	}
	err := run()
	if err == nil || errors.Is(err, document.ErrNotFound) || ctx.Err() != nil {
		return err
	}
	return run()
}
