// internal/app/features/certificates/types.go
package certificates

import (
	"github.com/dalemusser/recycleadmin/internal/app/system/viewdata"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
)

// certRow is one line of the certificates table.
type certRow struct {
	ID                string
	UploaderName      string
	UploaderEmail     string
	DocumentType      string
	CertificateNumber string
	IssuingAuthority  string
	ValidityPeriod    string
	Status            string
	DocumentURL       string
	Uploaded          string
	CanApprove        bool
	CanDisapprove     bool
}

type listData struct {
	viewdata.ListVM[models.Certificate]
	ActiveTab string
	Rows      []certRow
}

// reviewModalData backs the approve/disapprove confirmation modal.
type reviewModalData struct {
	Cert       certRow
	Action     string
	Verb       string
	Submitting bool
	ErrMessage string
	ReturnURL  string
}
