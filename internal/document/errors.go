package document

import "errors"

var (
	// ErrNotFound is returned for missing documents and for documents the
	// caller does not own. Ownership failures are not distinguished so
	// non-owners cannot confirm a document exists.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadySigned signals that the UNSIGNED -> SIGNED transition
	// already happened. The original signature record is preserved.
	ErrAlreadySigned = errors.New("document already signed")
	// ErrUnsupportedType rejects non-PDF uploads.
	ErrUnsupportedType = errors.New("only PDF files are accepted")
	// ErrFileTooLarge rejects uploads over MaxUploadSize.
	ErrFileTooLarge = errors.New("file too large (max 10MB)")
	// ErrMissingSignature rejects sign requests without signature text.
	ErrMissingSignature = errors.New("signature required")
	// ErrMissingFile rejects uploads without a file part.
	ErrMissingFile = errors.New("no file provided")
)
