package constants

// Clock numbers are left-padded with '0' to this width.
const ClockWidth = 6

// NotFoundName is stored as the name of a not-found record when the extraction carried no name.
const NotFoundName = "Not Found"

// Summary labels, rendered after the per-unit rows in this order.
const (
	SummaryManualFound = "Manual Found"
	SummaryNotFound    = "Not Found"
	SummaryGrandTotal  = "Grand Total"
)

// UnassignedUnit labels matched employees whose master row has a blank OO Name.
const UnassignedUnit = "Unassigned"

// Master dataset columns (matched case-insensitively after trimming).
const (
	ColEmployeeCode = "Employee Code"
	ColEmployeeName = "Employee Name"
	ColOrgUnit      = "OO Name"
)

// RequiredMasterColumns lists the columns a master dataset must carry.
var RequiredMasterColumns = []string{ColEmployeeCode, ColEmployeeName, ColOrgUnit}

// Report download names and content types.
const (
	ReportBaseName   = "Generated_Report"
	ContentTypePDF   = "application/pdf"
	ContentTypeXLSX  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	UploadFieldName  = "image_files"
	UploadMissingMsg = "Upload image_files[]"
	GenerateFailMsg  = "PDF generation failed"
)

// ReportFormat selects the rendering of a reconciliation result.
type ReportFormat string

const (
	FormatPDF  ReportFormat = "pdf"
	FormatXLSX ReportFormat = "xlsx"
)

// ParseReportFormat maps a user-supplied format to a ReportFormat. Empty means PDF.
func ParseReportFormat(s string) (ReportFormat, bool) {
	switch ReportFormat(NormalizeExt(s)) {
	case "", FormatPDF:
		return FormatPDF, true
	case FormatXLSX:
		return FormatXLSX, true
	}
	return "", false
}

// Filename returns the attachment filename for the format.
func (f ReportFormat) Filename() string {
	if f == FormatXLSX {
		return ReportBaseName + ".xlsx"
	}
	return ReportBaseName + ".pdf"
}

// ContentType returns the response content type for the format.
func (f ReportFormat) ContentType() string {
	if f == FormatXLSX {
		return ContentTypeXLSX
	}
	return ContentTypePDF
}
