package handler

import (
	"bytes"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certchain/internal/audit"
	"certchain/internal/certificate/models"
	"certchain/internal/certificate/service"
	storemem "certchain/internal/contentstore/memory"
	ledgermem "certchain/internal/ledger/memory"
	"certchain/internal/platform/config"
	"certchain/pkg/testutil"
)

func newRouter(t *testing.T) chi.Router {
	t.Helper()

	cfg := &config.Config{
		ServerIP:       "10.0.0.5",
		PublicBaseURL:  "http://10.0.0.5:3000",
		GatewayBaseURL: "http://10.0.0.5:8081",
		KeyPrefix:      "certificate_",
		MaxUploadBytes: 10 << 20,
	}
	svc := service.New(
		ledgermem.New(),
		storemem.New(),
		audit.NewPublisher(audit.NewInMemoryStore()),
		cfg,
		slog.Default(),
		nil,
	)

	r := chi.NewRouter()
	New(svc, slog.Default(), cfg.MaxUploadBytes).Register(r)
	return r
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func issueFields() map[string]string {
	return map[string]string{
		"certificateId": "C100",
		"studentName":   "Ada Lovelace",
		"issuer":        "Acme University",
	}
}

func issueCertificate(t *testing.T, router chi.Router) *models.Certificate {
	t.Helper()
	req := testutil.NewMultipartRequest(t, http.MethodPost, "/certificates",
		issueFields(), "certificateImage", "cert.png", tinyPNG(t))
	rr := testutil.DoRequest(router, req)
	require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())
	return testutil.UnmarshalResponse[models.Certificate](t, rr)
}

func TestIssueCertificate(t *testing.T) {
	router := newRouter(t)

	cert := issueCertificate(t, router)
	assert.Equal(t, "C100", cert.CertificateID)
	assert.Equal(t, "Ada Lovelace", cert.StudentName)
	assert.Equal(t, "Acme University", cert.Issuer)
	assert.NotEmpty(t, cert.ImageHash)
	assert.Contains(t, cert.ImageURL, "/ipfs/"+cert.ImageHash)
	assert.Contains(t, cert.PDFURL, "/certificates/C100/pdf")
}

func TestIssueMissingIssuer(t *testing.T) {
	router := newRouter(t)

	fields := issueFields()
	delete(fields, "issuer")
	req := testutil.NewMultipartRequest(t, http.MethodPost, "/certificates",
		fields, "certificateImage", "cert.png", tinyPNG(t))
	rr := testutil.DoRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	errResp := testutil.UnmarshalErrorResponse(t, rr)
	assert.Equal(t, "bad_request", errResp["error"])
}

func TestIssueMissingImage(t *testing.T) {
	router := newRouter(t)

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/certificates",
		issueFields(), "", "", nil)
	rr := testutil.DoRequest(router, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestIssueRejectsNonImagePayload(t *testing.T) {
	router := newRouter(t)

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/certificates",
		issueFields(), "certificateImage", "cert.txt", []byte("definitely not an image"))
	rr := testutil.DoRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	errResp := testutil.UnmarshalErrorResponse(t, rr)
	assert.Contains(t, errResp["message"], "image files")
}

func TestGetCertificate(t *testing.T) {
	router := newRouter(t)
	issueCertificate(t, router)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/certificates/C100"))
	require.Equal(t, http.StatusOK, rr.Code)

	cert := testutil.UnmarshalResponse[models.Certificate](t, rr)
	assert.Equal(t, "Ada Lovelace", cert.StudentName)
}

func TestGetCertificateNotFound(t *testing.T) {
	router := newRouter(t)
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/certificates/missing"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListCertificates(t *testing.T) {
	router := newRouter(t)
	issueCertificate(t, router)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/certificates"))
	require.Equal(t, http.StatusOK, rr.Code)

	certs := testutil.UnmarshalResponse[[]models.Certificate](t, rr)
	require.Len(t, *certs, 1)
	assert.Equal(t, "C100", (*certs)[0].CertificateID)
}

func TestUpdateIssuer(t *testing.T) {
	router := newRouter(t)
	issueCertificate(t, router)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/certificates/C100/issuer",
		map[string]string{"issuer": "New University"})
	rr := testutil.DoRequest(router, req)
	require.Equal(t, http.StatusOK, rr.Code)

	update := testutil.UnmarshalResponse[models.IssuerUpdate](t, rr)
	assert.True(t, update.Success)
	assert.Equal(t, "Acme University", update.OldIssuer)
	assert.Equal(t, "New University", update.NewIssuer)
}

func TestUpdateIssuerMissingIssuer(t *testing.T) {
	router := newRouter(t)
	issueCertificate(t, router)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/certificates/C100/issuer", map[string]string{})
	rr := testutil.DoRequest(router, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetPDF(t *testing.T) {
	router := newRouter(t)
	issueCertificate(t, router)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/certificates/C100/pdf"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "inline")
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")))
}

func TestGetPDFNotFound(t *testing.T) {
	router := newRouter(t)
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/certificates/missing/pdf"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestVerifyAlwaysAnswers(t *testing.T) {
	router := newRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/verify/nope"))
	require.Equal(t, http.StatusOK, rr.Code, "verification must answer 200 even for unknown ids")

	result := testutil.UnmarshalResponse[models.VerificationResult](t, rr)
	assert.False(t, result.Verified)
	assert.False(t, result.ExistsOnBlockchain)
}

func TestVerifyIssuedCertificate(t *testing.T) {
	router := newRouter(t)
	issueCertificate(t, router)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/verify/C100"))
	require.Equal(t, http.StatusOK, rr.Code)

	result := testutil.UnmarshalResponse[models.VerificationResult](t, rr)
	assert.True(t, result.Verified)
	assert.True(t, result.ExistsOnBlockchain)
	assert.Equal(t, "Ada Lovelace", result.StudentName)
}

func TestStatusConnected(t *testing.T) {
	router := newRouter(t)
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/status"))
	require.Equal(t, http.StatusOK, rr.Code)

	status := testutil.UnmarshalResponse[models.Status](t, rr)
	assert.Equal(t, "connected", status.Status)
	assert.Equal(t, "10.0.0.5", status.ServerIP)
}
