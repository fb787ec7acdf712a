package domain

// NCFType identifies a fiscal document type. Each type numbers
// independently from its own authorized sequence.
type NCFType string

const (
	NCFCreditoFiscal   NCFType = "B01" // requires a registered taxpayer
	NCFConsumo         NCFType = "B02"
	NCFNotaDebito      NCFType = "B03"
	NCFNotaCredito     NCFType = "B04"
	NCFRegimenEspecial NCFType = "B14"
	NCFGubernamental   NCFType = "B15" // requires a registered taxpayer
)

// ValidNCFTypes enumerates the legally defined document types.
var ValidNCFTypes = map[NCFType]bool{
	NCFCreditoFiscal:   true,
	NCFConsumo:         true,
	NCFNotaDebito:      true,
	NCFNotaCredito:     true,
	NCFRegimenEspecial: true,
	NCFGubernamental:   true,
}

// RequiresRegisteredTaxpayer reports whether sales under this document
// type must carry a registry-valid counterparty RNC.
func (t NCFType) RequiresRegisteredTaxpayer() bool {
	return t == NCFCreditoFiscal || t == NCFGubernamental
}

// SaleStatus represents the lifecycle of a sale.
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
	SaleStatusRefunded  SaleStatus = "refunded"
)

// PaymentMethod is how a sale was paid.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCredit   PaymentMethod = "credit"
)

// IdentifierKind classifies a counterparty tax identifier.
type IdentifierKind string

const (
	IdentifierRNC      IdentifierKind = "rnc"
	IdentifierCedula   IdentifierKind = "cedula"
	IdentifierPassport IdentifierKind = "passport"
	IdentifierUnknown  IdentifierKind = "unknown"
)

// DGIICode returns the identifier-type code used in compliance report
// detail blocks: 1 = RNC, 2 = cedula, 3 = passport/other.
func (k IdentifierKind) DGIICode() string {
	switch k {
	case IdentifierRNC:
		return "1"
	case IdentifierCedula:
		return "2"
	default:
		return "3"
	}
}

// TaxpayerStatus is the registry status of a taxpayer entry.
type TaxpayerStatus string

const (
	TaxpayerActive    TaxpayerStatus = "ACTIVO"
	TaxpayerSuspended TaxpayerStatus = "SUSPENDIDO"
	TaxpayerCancelled TaxpayerStatus = "DADO DE BAJA"
)

// ReportKind selects the compliance declaration side.
type ReportKind string

const (
	ReportPurchases ReportKind = "606" // purchase-side declaration
	ReportSales     ReportKind = "607" // sale-side declaration
)

// UserRole defines the capability boundary for fiscal operations.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleCashier UserRole = "cashier"
)
