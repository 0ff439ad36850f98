package models

import "time"

// SourceUserUpload marks records appended through the public API. Other
// provenance values (issuer feeds, migrations) are written out of band.
const SourceUserUpload = "user_upload"

// Document is a certificate record owned by exactly one identity. Fields are
// stored verbatim as submitted; canonicalization happens only when matching.
type Document struct {
	CertificateType  string    `json:"certificate_type"`
	CertificateName  string    `json:"certificate_name"`
	HolderName       string    `json:"holder_name"`
	IdentifierNumber string    `json:"identifier_number,omitempty"`
	SourceURI        string    `json:"ipfs_url"`
	Source           string    `json:"source"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// StoredDocument annotates a Document with its store-assigned id.
type StoredDocument struct {
	ID string `json:"id"`
	Document
}
