package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"colmado/internal/config"
	"colmado/internal/domain"
	"colmado/internal/report"
)

// ReportService builds compliance declarations and renders their
// artifacts.
type ReportService interface {
	Build(ctx context.Context, year int, month time.Month, kind domain.ReportKind) (*domain.ComplianceReport, error)
	BuildXML(ctx context.Context, year int, month time.Month, kind domain.ReportKind) (*domain.ComplianceReport, []byte, error)
	WriteExcel(ctx context.Context, year int, month time.Month, kind domain.ReportKind, w io.Writer) error
}

type reportService struct {
	builder *report.Builder
	fiscal  config.FiscalConfig
}

// NewReportService creates a new ReportService implementation.
func NewReportService(builder *report.Builder, fiscal config.FiscalConfig) ReportService {
	return &reportService{builder: builder, fiscal: fiscal}
}

func (s *reportService) Build(ctx context.Context, year int, month time.Month, kind domain.ReportKind) (*domain.ComplianceReport, error) {
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("%w: year %d out of range", domain.ErrValidation, year)
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return s.builder.Build(ctx, from, to, kind)
}

// BuildXML builds the report and serializes the mandated artifact.
// Serialization validates schema conformance; a violation means no
// artifact is emitted at all.
func (s *reportService) BuildXML(ctx context.Context, year int, month time.Month, kind domain.ReportKind) (*domain.ComplianceReport, []byte, error) {
	r, err := s.Build(ctx, year, month, kind)
	if err != nil {
		return nil, nil, err
	}
	out, err := report.Serialize(r, s.fiscal.IssuerRNC, s.fiscal.IssuerName)
	if err != nil {
		return nil, nil, err
	}
	return r, out, nil
}

func (s *reportService) WriteExcel(ctx context.Context, year int, month time.Month, kind domain.ReportKind, w io.Writer) error {
	r, err := s.Build(ctx, year, month, kind)
	if err != nil {
		return err
	}
	return report.WriteExcel(r, w)
}
