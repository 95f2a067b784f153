// Package models holds the request/response shapes of the certificate API.
package models

import "time"

// Certificate is the public projection of a ledger record.
type Certificate struct {
	CertificateID string `json:"certificateId"`
	StudentName   string `json:"studentName"`
	Issuer        string `json:"issuer"`
	IssueDate     string `json:"issueDate"`
	ImageHash     string `json:"imageHash,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	PDFURL        string `json:"pdfUrl,omitempty"`
	Message       string `json:"message,omitempty"`
}

// IssueRequest carries everything issuance needs. Image is required.
type IssueRequest struct {
	CertificateID string
	StudentName   string
	Issuer        string
	IssueDate     string
	Image         []byte
}

// IssuerUpdate reports the result of rewriting a record's issuer.
type IssuerUpdate struct {
	Success       bool   `json:"success"`
	CertificateID string `json:"certificateId"`
	OldIssuer     string `json:"oldIssuer"`
	NewIssuer     string `json:"newIssuer"`
	Message       string `json:"message"`
}

// VerificationResult is always produced, never an error: the verify endpoint
// is a public trust check and must answer for any input.
type VerificationResult struct {
	Verified           bool      `json:"verified"`
	ExistsOnBlockchain bool      `json:"existsOnBlockchain"`
	CertificateID      string    `json:"certificateId,omitempty"`
	StudentName        string    `json:"studentName,omitempty"`
	Issuer             string    `json:"issuer,omitempty"`
	IssueDate          string    `json:"issueDate,omitempty"`
	ImageHash          string    `json:"imageHash,omitempty"`
	ImageURL           string    `json:"imageUrl,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
	Error              string    `json:"error,omitempty"`
	Details            string    `json:"details,omitempty"`
}

// Status reports ledger connectivity and the service's public endpoints.
type Status struct {
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	ServerIP   string            `json:"serverIp"`
	AccessURLs map[string]string `json:"accessUrls,omitempty"`
}
