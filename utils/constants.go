package utils

// Currency and tax constants
const (
	// RupeeCurrency is the ISO code of the settlement currency
	RupeeCurrency = "INR"

	// DefaultTaxRate is the jewelry GST rate applied at checkout (3%)
	DefaultTaxRate = 0.03

	// InvoiceDueTermDays is the payment term stamped on every invoice
	InvoiceDueTermDays = 30
)

// Barcode constants
const (
	// BarcodePrefix prefixes every auto-generated product barcode
	BarcodePrefix = "4CD"

	// BarcodeSuffixDigits is the number of random digits in a generated barcode
	BarcodeSuffixDigits = 9
)

// HTTP constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Cache keys
const (
	// RateSnapshotCacheKey stores the assembled pricing rate snapshot
	RateSnapshotCacheKey = "pricing:rate_snapshot"
)
