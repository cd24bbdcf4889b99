package entity

import "fmt"

const (
	MinReceiptWidth = 24
	MaxReceiptWidth = 80
)

// PrinterSettings is device-local printing configuration.
type PrinterSettings struct {
	Enabled   bool `json:"enabled"`
	Width     int  `json:"width"`
	AutoPrint bool `json:"autoPrint"`
}

// DefaultPrinterSettings is used until the settings page saves something.
func DefaultPrinterSettings() PrinterSettings {
	return PrinterSettings{Enabled: true, Width: 40, AutoPrint: false}
}

// Validate checks the width bounds.
func (s PrinterSettings) Validate() error {
	if s.Width < MinReceiptWidth || s.Width > MaxReceiptWidth {
		return fmt.Errorf("width must be between %d and %d characters", MinReceiptWidth, MaxReceiptWidth)
	}
	return nil
}
