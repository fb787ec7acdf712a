package report

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"

	"colmado/internal/domain"
	"colmado/internal/ncf"
)

// Namespaces of the mandated report schemas, one per declaration kind.
const (
	ns606 = "https://dgii.gov.do/esquemas/606"
	ns607 = "https://dgii.gov.do/esquemas/607"
)

// Declaration is the XML document for one compliance report.
type Declaration struct {
	XMLName xml.Name
	Xmlns   string   `xml:"xmlns,attr"`
	Header  Header   `xml:"Encabezado"`
	Details []Detail `xml:"Detalle>Registro"`
}

// Header is the issuer and aggregate block of a declaration.
type Header struct {
	IssuerRNC     string `xml:"RNCEmisor"`
	IssuerName    string `xml:"RazonSocial"`
	Period        string `xml:"Periodo"`
	GeneratedAt   string `xml:"FechaGeneracion"`
	RecordCount   int    `xml:"CantidadRegistros"`
	TaxableAmount string `xml:"TotalMontoGravado"`
	TaxAmount     string `xml:"TotalITBIS"`
}

// Detail is one reported document.
type Detail struct {
	Identifier     string `xml:"RNCCedula"`
	IdentifierType string `xml:"TipoIdentificacion"`
	FiscalNumber   string `xml:"NCF"`
	ModifiedNCF    string `xml:"NCFModificado,omitempty"`
	DocumentDate   string `xml:"Fecha"`
	TaxableAmount  string `xml:"MontoGravado"`
	TaxAmount      string `xml:"ITBIS"`
}

var (
	issuerRNCPattern = regexp.MustCompile(`^(\d{9}|\d{11})$`)
	periodPattern    = regexp.MustCompile(`^\d{6}$`)
	moneyPattern     = regexp.MustCompile(`^-?\d+\.\d{2}$`)
)

// Serialize renders the report as the mandated XML artifact. It
// validates the assembled document first and refuses to emit anything
// non-conformant.
func Serialize(r *domain.ComplianceReport, issuerRNC, issuerName string) ([]byte, error) {
	root := "Compra606"
	xmlns := ns606
	if r.Kind == domain.ReportSales {
		root = "Venta607"
		xmlns = ns607
	}

	decl := Declaration{
		XMLName: xml.Name{Local: root},
		Xmlns:   xmlns,
		Header: Header{
			IssuerRNC:     issuerRNC,
			IssuerName:    issuerName,
			Period:        r.Period,
			GeneratedAt:   r.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
			RecordCount:   r.Totals.RecordCount,
			TaxableAmount: r.Totals.TaxableAmount.StringFixed(2),
			TaxAmount:     r.Totals.TaxAmount.StringFixed(2),
		},
		Details: make([]Detail, 0, len(r.Records)),
	}
	for i := range r.Records {
		rec := &r.Records[i]
		decl.Details = append(decl.Details, Detail{
			Identifier:     rec.Identifier,
			IdentifierType: rec.IdentifierType,
			FiscalNumber:   rec.FiscalNumber,
			ModifiedNCF:    rec.ModifiedNCF,
			DocumentDate:   rec.DocumentDate.Format("2006-01-02"),
			TaxableAmount:  rec.TaxableAmount.StringFixed(2),
			TaxAmount:      rec.TaxAmount.StringFixed(2),
		})
	}

	if err := validate(&decl); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(decl); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchemaViolation, err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// validate enforces the minimal external schema expectations before
// any artifact leaves the builder.
func validate(d *Declaration) error {
	if !issuerRNCPattern.MatchString(d.Header.IssuerRNC) {
		return fmt.Errorf("%w: issuer RNC %q must be 9 or 11 digits", domain.ErrSchemaViolation, d.Header.IssuerRNC)
	}
	if d.Header.IssuerName == "" {
		return fmt.Errorf("%w: issuer legal name is required", domain.ErrSchemaViolation)
	}
	if !periodPattern.MatchString(d.Header.Period) {
		return fmt.Errorf("%w: period %q must be YYYYMM", domain.ErrSchemaViolation, d.Header.Period)
	}
	if !moneyPattern.MatchString(d.Header.TaxableAmount) || !moneyPattern.MatchString(d.Header.TaxAmount) {
		return fmt.Errorf("%w: header totals must have exactly two decimals", domain.ErrSchemaViolation)
	}
	if d.Header.RecordCount != len(d.Details) {
		return fmt.Errorf("%w: record count %d does not match %d detail blocks",
			domain.ErrSchemaViolation, d.Header.RecordCount, len(d.Details))
	}
	for i := range d.Details {
		det := &d.Details[i]
		if det.Identifier == "" {
			return fmt.Errorf("%w: detail %d missing identifier", domain.ErrSchemaViolation, i)
		}
		if det.IdentifierType == "" {
			return fmt.Errorf("%w: detail %d missing identifier type", domain.ErrSchemaViolation, i)
		}
		if !ncf.IsValid(det.FiscalNumber) {
			return fmt.Errorf("%w: detail %d fiscal number %q is not a valid NCF", domain.ErrSchemaViolation, i, det.FiscalNumber)
		}
		if !moneyPattern.MatchString(det.TaxableAmount) || !moneyPattern.MatchString(det.TaxAmount) {
			return fmt.Errorf("%w: detail %d amounts must have exactly two decimals", domain.ErrSchemaViolation, i)
		}
	}
	return nil
}
