package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inksign/inksign/internal/document"
	"github.com/inksign/inksign/internal/document/repository"
	"github.com/inksign/inksign/internal/models"
	"github.com/inksign/inksign/internal/storage"
)

var (
	john = &models.Identity{UserID: "1", Email: "user@example.com", Name: "John Doe"}
	admn = &models.Identity{UserID: "2", Email: "admin@example.com", Name: "Admin User"}
)

func newTestService() (Service, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	return New(repository.NewMemoryRepo(), store), store
}

func pdfBody(n int) *bytes.Reader {
	b := make([]byte, n)
	copy(b, "%PDF-1.4")
	return bytes.NewReader(b)
}

func TestUpload_ValidPDF(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	d, err := svc.Upload(ctx, john, "Contrat_de_travail.pdf", "application/pdf", 1024, pdfBody(1024))
	require.NoError(t, err)
	assert.Equal(t, "1", d.OwnerID)
	assert.Equal(t, document.StatusUnsigned, d.Status)
	assert.Equal(t, int64(1024), d.Size)
	assert.False(t, d.UploadedAt.IsZero())
	assert.Equal(t, 1, store.Len())

	// round-trip through get
	got, err := svc.Get(ctx, john, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Contrat_de_travail.pdf", got.Filename)
	assert.Equal(t, document.StatusUnsigned, got.Status)
}

func TestUpload_RejectsWrongType(t *testing.T) {
	svc, store := newTestService()
	_, err := svc.Upload(context.Background(), john, "notes.txt", "text/plain", 10, strings.NewReader("plain text"))
	require.ErrorIs(t, err, document.ErrUnsupportedType)
	assert.Equal(t, 0, store.Len())
}

func TestUpload_SizeBoundary(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// exactly 10 MiB passes
	_, err := svc.Upload(ctx, john, "big.pdf", "application/pdf", MaxUploadSize, pdfBody(MaxUploadSize))
	require.NoError(t, err)

	// one byte over fails
	_, err = svc.Upload(ctx, john, "huge.pdf", "application/pdf", MaxUploadSize+1, pdfBody(MaxUploadSize+1))
	require.ErrorIs(t, err, document.ErrFileTooLarge)
}

func TestUpload_MissingFile(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Upload(context.Background(), john, "a.pdf", "application/pdf", 0, nil)
	require.ErrorIs(t, err, document.ErrMissingFile)
}

func TestList_FiltersByOwner(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	d1, err := svc.Upload(ctx, john, "a.pdf", "application/pdf", 8, pdfBody(8))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, admn, "b.pdf", "application/pdf", 8, pdfBody(8))
	require.NoError(t, err)

	list, err := svc.List(ctx, john)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, d1.ID, list[0].ID)

	for _, d := range list {
		assert.Equal(t, "1", d.OwnerID)
	}
}

func TestGet_NonOwnerSeesNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	d, err := svc.Upload(ctx, john, "a.pdf", "application/pdf", 8, pdfBody(8))
	require.NoError(t, err)

	_, err = svc.Get(ctx, admn, d.ID)
	require.ErrorIs(t, err, document.ErrNotFound)
}

func TestSign_TransitionAndIdempotence(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	d, err := svc.Upload(ctx, john, "a.pdf", "application/pdf", 8, pdfBody(8))
	require.NoError(t, err)

	rec, err := svc.Sign(ctx, john, d.ID, "John Doe", nil)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", rec.SignedBy)
	assert.False(t, rec.SignedAt.IsZero())

	got, err := svc.Get(ctx, john, d.ID)
	require.NoError(t, err)
	assert.Equal(t, document.StatusSigned, got.Status)

	// repeat sign: no-op, original record returned unchanged
	rec2, err := svc.Sign(ctx, john, d.ID, "different text", nil)
	require.NoError(t, err)
	assert.Equal(t, rec.SignedAt, rec2.SignedAt)
	assert.Equal(t, rec.SignatureText, rec2.SignatureText)
}

func TestSign_RequiresText(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	d, err := svc.Upload(ctx, john, "a.pdf", "application/pdf", 8, pdfBody(8))
	require.NoError(t, err)

	_, err = svc.Sign(ctx, john, d.ID, "", nil)
	require.ErrorIs(t, err, document.ErrMissingSignature)

	// document untouched
	got, err := svc.Get(ctx, john, d.ID)
	require.NoError(t, err)
	assert.Equal(t, document.StatusUnsigned, got.Status)
}

func TestSign_NonOwnerSeesNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	d, err := svc.Upload(ctx, john, "a.pdf", "application/pdf", 8, pdfBody(8))
	require.NoError(t, err)

	_, err = svc.Sign(ctx, admn, d.ID, "Admin User", nil)
	require.ErrorIs(t, err, document.ErrNotFound)
}

func TestSign_WithImage(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	d, err := svc.Upload(ctx, john, "a.pdf", "application/pdf", 8, pdfBody(8))
	require.NoError(t, err)

	img := &SignatureImage{Filename: "sig.png", Size: 4, ContentType: "image/png", Reader: strings.NewReader("PNG!")}
	rec, err := svc.Sign(ctx, john, d.ID, "John Doe", img)
	require.NoError(t, err)
	require.NotEmpty(t, rec.ImageKey)
	assert.Equal(t, 2, store.Len())
}

func TestDelete_RemovesMetadataAndBytes(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	d, err := svc.Upload(ctx, john, "a.pdf", "application/pdf", 8, pdfBody(8))
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	require.NoError(t, svc.Delete(ctx, john, d.ID))
	assert.Equal(t, 0, store.Len())

	_, err = svc.Get(ctx, john, d.ID)
	require.ErrorIs(t, err, document.ErrNotFound)
}

func TestDelete_NonOwnerSeesNotFound(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	d, err := svc.Upload(ctx, john, "a.pdf", "application/pdf", 8, pdfBody(8))
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, admn, d.ID), document.ErrNotFound)
	assert.Equal(t, 1, store.Len())
}

func TestDownloadURL(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	d, err := svc.Upload(ctx, john, "a.pdf", "application/pdf", 8, pdfBody(8))
	require.NoError(t, err)

	url, err := svc.DownloadURL(ctx, john, d.ID)
	require.NoError(t, err)
	assert.Contains(t, url, d.ID)

	_, err = svc.DownloadURL(ctx, admn, d.ID)
	require.ErrorIs(t, err, document.ErrNotFound)
}

// flakyRepo fails the first read then recovers; mutations always fail once.
type flakyRepo struct {
	repository.Repository
	listCalls int
}

func (f *flakyRepo) ListByOwner(ctx context.Context, ownerID string) ([]*document.Document, error) {
	f.listCalls++
	if f.listCalls == 1 {
		return nil, errors.New("transient datastore error")
	}
	return f.Repository.ListByOwner(ctx, ownerID)
}

func TestList_RetriesOnceOnTransientError(t *testing.T) {
	repo := &flakyRepo{Repository: repository.NewMemoryRepo()}
	svc := New(repo, storage.NewMemoryStore())

	_, err := svc.List(context.Background(), john)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}
