// Package service orchestrates the certificate workflows: issuance across
// the content store and the ledger, read/verify reconciliation, issuer
// updates, and PDF synthesis. Handlers stay thin; everything that sequences
// external calls lives here.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"certchain/internal/audit"
	"certchain/internal/certificate/codec"
	"certchain/internal/certificate/models"
	"certchain/internal/contentstore"
	"certchain/internal/ledger"
	"certchain/internal/platform/config"
	"certchain/internal/platform/metrics"
	"certchain/internal/render"
	"certchain/pkg/domainerrors"
)

// placeholderIssueDate is reported on every read path. The asset schema has
// no date field, so the date supplied at issuance is not recoverable from the
// ledger; extending the schema is the only real fix.
const placeholderIssueDate = "2024-01-01"

const issueDateLayout = "2006-01-02"

// Service composes the ledger client, the content store, and the renderer.
type Service struct {
	ledger  ledger.Client
	store   contentstore.Store
	audit   *audit.Publisher
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(
	led ledger.Client,
	store contentstore.Store,
	aud *audit.Publisher,
	cfg *config.Config,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		ledger:  led,
		store:   store,
		audit:   aud,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
}

// Issue validates the request, stores the image, and commits the record.
// Validation happens before any external call. A content-store failure aborts
// the workflow before the ledger is touched. A ledger-commit failure leaves
// the already-stored image as an orphan: content-addressed blocks are
// unreachable without the reference, so no compensating delete runs. That
// consistency window is deliberate, not hidden.
func (s *Service) Issue(ctx context.Context, req models.IssueRequest) (*models.Certificate, error) {
	if err := validateIssue(req); err != nil {
		s.metrics.IncIssuanceFailure()
		return nil, err
	}

	issuer := codec.NormalizeIssuer(req.Issuer)
	issueDate := req.IssueDate
	if issueDate == "" {
		issueDate = time.Now().Format(issueDateLayout)
	}

	ref, err := s.store.Add(ctx, bytes.NewReader(req.Image))
	if err != nil {
		s.metrics.IncIssuanceFailure()
		s.emitAudit(ctx, req.CertificateID, audit.ActionIssue, "failed", "image upload rejected")
		return nil, domainerrors.Wrap(domainerrors.CodeArtifactStore, "failed to store certificate image", err)
	}

	composite, err := codec.Encode(req.StudentName, ref)
	if err != nil {
		s.metrics.IncIssuanceFailure()
		return nil, err
	}

	key := s.cfg.KeyPrefix + req.CertificateID
	err = s.ledger.Invoke(ctx, ledger.FnCreateAsset,
		key, composite, ledger.PlaceholderSize, issuer, ledger.PlaceholderAppraisal)
	if err != nil {
		s.logger.ErrorContext(ctx, "ledger commit failed, stored image is orphaned",
			"certificate_id", req.CertificateID,
			"image_hash", ref,
			"error", err,
		)
		s.metrics.IncIssuanceFailure()
		s.emitAudit(ctx, req.CertificateID, audit.ActionIssue, "failed", "ledger commit failed")
		return nil, domainerrors.Wrap(domainerrors.CodeLedgerCommit, "failed to store certificate on blockchain", err)
	}

	s.metrics.IncIssued()
	s.emitAudit(ctx, req.CertificateID, audit.ActionIssue, "ok", "")
	s.logger.InfoContext(ctx, "certificate issued",
		"certificate_id", req.CertificateID,
		"image_hash", ref,
	)

	return &models.Certificate{
		CertificateID: req.CertificateID,
		StudentName:   req.StudentName,
		Issuer:        issuer,
		IssueDate:     issueDate,
		ImageHash:     ref,
		ImageURL:      s.imageURL(ref),
		PDFURL:        s.pdfURL(req.CertificateID),
		Message:       "Certificate image stored on IPFS and data stored on blockchain",
	}, nil
}

// Get returns the public projection of one record.
func (s *Service) Get(ctx context.Context, id string) (*models.Certificate, error) {
	asset, err := s.readAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	cert := s.project(*asset)
	return &cert, nil
}

// List returns every certificate record, filtered by the namespace prefix so
// unrelated assets on the shared chaincode are ignored.
func (s *Service) List(ctx context.Context) ([]models.Certificate, error) {
	raw, err := s.ledger.Query(ctx, ledger.FnGetAllAssets)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeLedgerQuery, "failed to list certificates", err)
	}

	var assets []ledger.Asset
	if err := json.Unmarshal(raw, &assets); err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeLedgerQuery, "malformed ledger response", err)
	}

	certs := make([]models.Certificate, 0, len(assets))
	for _, a := range assets {
		if !strings.HasPrefix(a.ID, s.cfg.KeyPrefix) {
			continue
		}
		certs = append(certs, s.project(a))
	}
	return certs, nil
}

// UpdateIssuer rewrites the issuer field only, preserving the composite
// field byte for byte.
func (s *Service) UpdateIssuer(ctx context.Context, id, issuer string) (*models.IssuerUpdate, error) {
	if strings.TrimSpace(issuer) == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "issuer name is required")
	}

	asset, err := s.readAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	normalized := codec.NormalizeIssuer(issuer)
	err = s.ledger.Invoke(ctx, ledger.FnUpdateAsset,
		asset.ID, asset.Color, ledger.PlaceholderSize, normalized, ledger.PlaceholderAppraisal)
	if err != nil {
		s.emitAudit(ctx, id, audit.ActionUpdateIssuer, "failed", "ledger commit failed")
		return nil, domainerrors.Wrap(domainerrors.CodeLedgerCommit, "failed to update issuer", err)
	}

	s.emitAudit(ctx, id, audit.ActionUpdateIssuer, "ok", "")
	return &models.IssuerUpdate{
		Success:       true,
		CertificateID: id,
		OldIssuer:     codec.NormalizeIssuer(asset.Owner),
		NewIssuer:     normalized,
		Message:       "Issuer updated successfully",
	}, nil
}

// Verify never returns an error: any failure along the read path is folded
// into an unverified result so the public trust check always answers.
func (s *Service) Verify(ctx context.Context, id string) models.VerificationResult {
	s.metrics.IncVerification()
	now := time.Now()

	asset, err := s.readAsset(ctx, id)
	if err != nil {
		s.metrics.IncVerificationFailure()
		s.emitAudit(ctx, id, audit.ActionVerify, "failed", domainerrors.Message(err))
		return models.VerificationResult{
			Verified:           false,
			ExistsOnBlockchain: false,
			Timestamp:          now,
			Error:              "certificate not found on blockchain",
			Details:            domainerrors.Message(err),
		}
	}

	name, ref := codec.Decode(asset.Color)
	if name == "" {
		name = "Unknown Student"
	}

	result := models.VerificationResult{
		Verified:           true,
		ExistsOnBlockchain: true,
		CertificateID:      strings.TrimPrefix(asset.ID, s.cfg.KeyPrefix),
		StudentName:        name,
		Issuer:             codec.NormalizeIssuer(asset.Owner),
		IssueDate:          placeholderIssueDate,
		ImageHash:          ref,
		Timestamp:          now,
	}
	if ref != "" {
		result.ImageURL = s.imageURL(ref)
	}

	s.emitAudit(ctx, id, audit.ActionVerify, "ok", "")
	return result
}

// RenderPDF reads the record, fetches the image, and synthesizes the
// document. A fetch failure substitutes the generated fallback image so one
// unreachable block cannot take down the PDF endpoint.
func (s *Service) RenderPDF(ctx context.Context, id string) ([]byte, error) {
	asset, err := s.readAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	name, ref := codec.Decode(asset.Color)

	var imageBytes []byte
	if ref != "" {
		fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
		imageBytes, err = s.store.Get(fetchCtx, ref)
		cancel()
		if err != nil {
			s.logger.WarnContext(ctx, "image fetch failed, substituting fallback image",
				"certificate_id", id,
				"image_hash", ref,
				"error", err,
			)
			s.metrics.IncRenderFallback()
			imageBytes, err = render.FallbackImage()
			if err != nil {
				return nil, domainerrors.Wrap(domainerrors.CodeRender, "fallback image generation failed", err)
			}
		}
	}

	doc, err := render.Certificate(render.Data{
		CertificateID: strings.TrimPrefix(asset.ID, s.cfg.KeyPrefix),
		StudentName:   name,
		Issuer:        codec.NormalizeIssuer(asset.Owner),
		IssueDate:     placeholderIssueDate,
		ImageRef:      ref,
	}, imageBytes)
	if err != nil {
		return nil, err
	}

	s.metrics.IncPDFRender()
	return doc, nil
}

// Ping checks ledger connectivity with a list query.
func (s *Service) Ping(ctx context.Context) error {
	if _, err := s.ledger.Query(ctx, ledger.FnGetAllAssets); err != nil {
		return domainerrors.Wrap(domainerrors.CodeLedgerQuery, "blockchain connection failed", err)
	}
	return nil
}

// ServerIP exposes the configured public IP for the status endpoint.
func (s *Service) ServerIP() string { return s.cfg.ServerIP }

// PublicBaseURL exposes the service's public base URL for the status endpoint.
func (s *Service) PublicBaseURL() string { return s.cfg.PublicBaseURL }

func (s *Service) readAsset(ctx context.Context, id string) (*ledger.Asset, error) {
	raw, err := s.ledger.Query(ctx, ledger.FnReadAsset, s.cfg.KeyPrefix+id)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, domainerrors.New(domainerrors.CodeNotFound, "certificate not found")
	}
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeLedgerQuery, "ledger query failed", err)
	}

	var asset ledger.Asset
	if err := json.Unmarshal(raw, &asset); err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeLedgerQuery, "malformed ledger response", err)
	}
	return &asset, nil
}

func (s *Service) project(a ledger.Asset) models.Certificate {
	name, ref := codec.Decode(a.Color)
	id := strings.TrimPrefix(a.ID, s.cfg.KeyPrefix)

	cert := models.Certificate{
		CertificateID: id,
		StudentName:   name,
		Issuer:        codec.NormalizeIssuer(a.Owner),
		IssueDate:     placeholderIssueDate,
		ImageHash:     ref,
		PDFURL:        s.pdfURL(id),
	}
	if ref != "" {
		cert.ImageURL = s.imageURL(ref)
	}
	return cert
}

func (s *Service) imageURL(ref string) string {
	return s.cfg.GatewayBaseURL + "/ipfs/" + ref
}

func (s *Service) pdfURL(id string) string {
	return s.cfg.PublicBaseURL + "/certificates/" + id + "/pdf"
}

func (s *Service) emitAudit(ctx context.Context, id, action, outcome, detail string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Emit(ctx, audit.Event{
		CertificateID: id,
		Action:        action,
		Outcome:       outcome,
		Detail:        detail,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "error", err)
	}
}

func validateIssue(req models.IssueRequest) error {
	switch {
	case strings.TrimSpace(req.CertificateID) == "":
		return domainerrors.New(domainerrors.CodeBadRequest, "certificate ID is required")
	case strings.TrimSpace(req.StudentName) == "":
		return domainerrors.New(domainerrors.CodeBadRequest, "student name is required")
	case strings.Contains(req.StudentName, codec.Delimiter):
		return domainerrors.New(domainerrors.CodeBadRequest, "student name must not contain "+codec.Delimiter)
	case strings.TrimSpace(req.Issuer) == "":
		return domainerrors.New(domainerrors.CodeBadRequest, "issuer is required")
	case len(req.Image) == 0:
		return domainerrors.New(domainerrors.CodeBadRequest, "certificate image is required")
	}
	if req.IssueDate != "" {
		if _, err := time.Parse(issueDateLayout, req.IssueDate); err != nil {
			return domainerrors.New(domainerrors.CodeBadRequest, "issue date must be YYYY-MM-DD")
		}
	}
	return nil
}
