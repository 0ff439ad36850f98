package handler

import (
	"strings"

	"certvault/internal/document/models"
	dErrors "certvault/pkg/domain-errors"
)

// AddCertificateRequest is the body for POST /certificate/add. The owner comes
// from the authenticated caller, never from the body.
type AddCertificateRequest struct {
	CertificateType  string `json:"certificate_type"`
	CertificateName  string `json:"certificate_name"`
	HolderName       string `json:"holder_name"`
	IdentifierNumber string `json:"identifier_number"`
	SourceURI        string `json:"ipfs_url"`
}

func (r *AddCertificateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.CertificateType = strings.TrimSpace(r.CertificateType)
	r.CertificateName = strings.TrimSpace(r.CertificateName)
	r.HolderName = strings.TrimSpace(r.HolderName)
	r.SourceURI = strings.TrimSpace(r.SourceURI)
	if r.CertificateType == "" || r.CertificateName == "" || r.HolderName == "" || r.SourceURI == "" {
		return dErrors.New(dErrors.CodeBadRequest, "certificate_type, certificate_name, holder_name and ipfs_url are required")
	}
	return nil
}

func (r *AddCertificateRequest) document() models.Document {
	return models.Document{
		CertificateType:  r.CertificateType,
		CertificateName:  r.CertificateName,
		HolderName:       r.HolderName,
		IdentifierNumber: r.IdentifierNumber,
		SourceURI:        r.SourceURI,
	}
}
