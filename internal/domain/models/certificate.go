package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Certificate review statuses.
const (
	CertificatePending     = "pending"
	CertificateApproved    = "approved"
	CertificateDisapproved = "disapproved"
)

// CertificateStatuses lists the statuses in tab order.
var CertificateStatuses = []string{CertificatePending, CertificateApproved, CertificateDisapproved}

// Uploader identifies who submitted a certificate.
type Uploader struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

// Certificate is a compliance document uploaded by a recycler or delivery
// partner and reviewed by an admin.
type Certificate struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UploadedBy        Uploader           `bson:"uploaded_by" json:"uploaded_by"`
	DocumentType      string             `bson:"document_type" json:"document_type"`
	CertificateNumber string             `bson:"certificate_number" json:"certificate_number"`
	IssuingAuthority  string             `bson:"issuing_authority" json:"issuing_authority"`
	ValidityPeriod    string             `bson:"validity_period" json:"validity_period"`
	Status            string             `bson:"status" json:"status"` // pending | approved | disapproved
	UploadDocumentRef string             `bson:"upload_document" json:"upload_document"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// IsValidCertificateStatus reports whether s is a known review status.
func IsValidCertificateStatus(s string) bool {
	switch s {
	case CertificatePending, CertificateApproved, CertificateDisapproved:
		return true
	}
	return false
}
