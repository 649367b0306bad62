package document

import "time"

// Status is the lifecycle state of a document. The only legal transition is
// StatusUnsigned -> StatusSigned.
type Status string

const (
	StatusUnsigned Status = "UNSIGNED"
	StatusSigned   Status = "SIGNED"
)

// Document is an uploaded PDF owned by a single user. The owner is set at
// creation and never reassigned.
type Document struct {
	ID         string           `json:"id" bson:"_id,omitempty"`
	OwnerID    string           `json:"userId" bson:"ownerId"`
	Filename   string           `json:"filename" bson:"filename"`
	StorageKey string           `json:"-" bson:"storageKey"`
	Size       int64            `json:"size" bson:"size"`
	Status     Status           `json:"status" bson:"status"`
	UploadedAt time.Time        `json:"uploadDate" bson:"uploadedAt"`
	Signature  *SignatureRecord `json:"signature,omitempty" bson:"signature,omitempty"`
}

// SignatureRecord captures a signing event. Once written it is immutable.
type SignatureRecord struct {
	SignedBy      string    `json:"signedBy" bson:"signedBy"`
	SignatureText string    `json:"signatureText" bson:"signatureText"`
	ImageKey      string    `json:"imageKey,omitempty" bson:"imageKey,omitempty"`
	SignedAt      time.Time `json:"signedAt" bson:"signedAt"`
}
