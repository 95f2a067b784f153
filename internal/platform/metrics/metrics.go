package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics is
// valid and records nothing, so tests can pass nil instead of touching the
// default registry.
type Metrics struct {
	CertificatesIssued   prometheus.Counter
	IssuanceFailures     prometheus.Counter
	Verifications        prometheus.Counter
	VerificationFailures prometheus.Counter
	PDFRenders           prometheus.Counter
	RenderFallbacks      prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		CertificatesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certchain_certificates_issued_total",
			Help: "Total number of certificates committed to the ledger",
		}),
		IssuanceFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certchain_issuance_failures_total",
			Help: "Total number of failed issuance attempts",
		}),
		Verifications: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certchain_verifications_total",
			Help: "Total number of verification requests",
		}),
		VerificationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certchain_verification_failures_total",
			Help: "Total number of verifications that did not confirm a record",
		}),
		PDFRenders: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certchain_pdf_renders_total",
			Help: "Total number of certificate PDFs rendered",
		}),
		RenderFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certchain_render_fallbacks_total",
			Help: "Total number of renders that substituted the fallback image",
		}),
	}
}

func (m *Metrics) IncIssued() {
	if m != nil {
		m.CertificatesIssued.Inc()
	}
}

func (m *Metrics) IncIssuanceFailure() {
	if m != nil {
		m.IssuanceFailures.Inc()
	}
}

func (m *Metrics) IncVerification() {
	if m != nil {
		m.Verifications.Inc()
	}
}

func (m *Metrics) IncVerificationFailure() {
	if m != nil {
		m.VerificationFailures.Inc()
	}
}

func (m *Metrics) IncPDFRender() {
	if m != nil {
		m.PDFRenders.Inc()
	}
}

func (m *Metrics) IncRenderFallback() {
	if m != nil {
		m.RenderFallbacks.Inc()
	}
}
