package request

// SalesReportRequest selects the bucket size of a report
type SalesReportRequest struct {
	Period string `form:"period" binding:"omitempty,oneof=daily weekly monthly"`
}

// SalesExportRequest selects the window and file format of an export
type SalesExportRequest struct {
	Period string `form:"period" binding:"omitempty,oneof=daily weekly monthly"`
	Format string `form:"format" binding:"omitempty,oneof=csv xlsx"`
}

// TransactionFilterRequest filters the transaction list. Dates are YYYY-MM-DD.
type TransactionFilterRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Search    string `form:"search"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
