package request

// PrinterSettingsRequest replaces the device printer settings
type PrinterSettingsRequest struct {
	Enabled   *bool `json:"enabled" binding:"required"`
	Width     int   `json:"width" binding:"required,min=24,max=80"`
	AutoPrint *bool `json:"autoPrint" binding:"required"`
}
