package document

import "time"

// SeedDocuments returns the demo documents shown for the built-in user
// directory when no MongoDB is configured. Object content is provisioned by
// the caller under each StorageKey.
func SeedDocuments() []*Document {
	return []*Document{
		{
			ID:         "1",
			OwnerID:    "1",
			Filename:   "Contrat_de_travail.pdf",
			StorageKey: "documents/1/1/Contrat_de_travail.pdf",
			Status:     StatusUnsigned,
			UploadedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:         "2",
			OwnerID:    "1",
			Filename:   "Accord_confidentialite.pdf",
			StorageKey: "documents/1/2/Accord_confidentialite.pdf",
			Status:     StatusSigned,
			UploadedAt: time.Date(2024, 1, 14, 14, 20, 0, 0, time.UTC),
			Signature: &SignatureRecord{
				SignedBy:      "John Doe",
				SignatureText: "John Doe",
				SignedAt:      time.Date(2024, 1, 14, 15, 0, 0, 0, time.UTC),
			},
		},
		{
			ID:         "3",
			OwnerID:    "1",
			Filename:   "Facture_janvier.pdf",
			StorageKey: "documents/1/3/Facture_janvier.pdf",
			Status:     StatusUnsigned,
			UploadedAt: time.Date(2024, 1, 13, 9, 15, 0, 0, time.UTC),
		},
	}
}
