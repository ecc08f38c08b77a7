package models

// DefaultAllowedDistance is the check-in radius, in meters, applied when a
// replicated branch carries none.
const DefaultAllowedDistance = 100.0

type Branch struct {
	ID              string        `json:"id" mapstructure:"id"`
	Name            string        `json:"name" mapstructure:"name"`
	Latitude        float64       `json:"latitude" mapstructure:"latitude"`
	Longitude       float64       `json:"longitude" mapstructure:"longitude"`
	AllowedDistance float64       `json:"allowedDistance" mapstructure:"allowedDistance"` // meters
	TableCount      int           `json:"tableCount" mapstructure:"tableCount"`
	Printer         PrinterConfig `json:"printer" mapstructure:"printer"`
}

// PrinterConfig is the per-branch bill/printer setup nested under a branch.
type PrinterConfig struct {
	HeaderText   string `json:"headerText" mapstructure:"headerText"`
	FooterText   string `json:"footerText" mapstructure:"footerText"`
	PaymentQRURL string `json:"paymentQrUrl" mapstructure:"paymentQrUrl"`
	PaperSize    string `json:"paperSize" mapstructure:"paperSize"`
}

const (
	PaperSize58mm = "58mm"
	PaperSize80mm = "80mm"
)

// DefaultPrinterConfig returns the settings merged under any branch whose
// replicated printer block is missing fields. Absence is a default-fill
// point, never an error.
func DefaultPrinterConfig() PrinterConfig {
	return PrinterConfig{
		HeaderText: "",
		FooterText: "Thank you, see you again!",
		PaperSize:  PaperSize80mm,
	}
}

// FillDefaults resolves every absent branch field to its documented
// default. Safe to call on an already-filled branch.
func (b Branch) FillDefaults() Branch {
	if b.AllowedDistance <= 0 {
		b.AllowedDistance = DefaultAllowedDistance
	}
	def := DefaultPrinterConfig()
	if b.Printer.FooterText == "" {
		b.Printer.FooterText = def.FooterText
	}
	if b.Printer.PaperSize == "" {
		b.Printer.PaperSize = def.PaperSize
	}
	return b
}
