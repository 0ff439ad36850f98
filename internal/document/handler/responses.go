package handler

import "certvault/internal/document/models"

// AddCertificateResponse is the body for a stored certificate.
type AddCertificateResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// CertificateListResponse is the body for GET /certificate/get/{mobile}.
type CertificateListResponse struct {
	Mobile       string                  `json:"mobile"`
	Certificates []models.StoredDocument `json:"certificates"`
}

// DocumentResponse is the body for a matched document lookup.
type DocumentResponse struct {
	Status   string                `json:"status"`
	Document models.StoredDocument `json:"document"`
}
