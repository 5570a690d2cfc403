package models

type ActivityAction string

const (
	ActionUserLogin        ActivityAction = "User Login"
	ActionUserCreated      ActivityAction = "User Created"
	ActionUserUpdated      ActivityAction = "User Updated"
	ActionUserDeleted      ActivityAction = "User Deleted"
	ActionPasswordChanged  ActivityAction = "Password Changed"
	ActionAppCreated       ActivityAction = "Application Created"
	ActionAppEdited        ActivityAction = "Application Edited"
	ActionAppDeleted       ActivityAction = "Application Deleted"
	ActionAppSubmitted     ActivityAction = "Application Submitted"
	ActionAppForwarded     ActivityAction = "Reviewed and Forwarded Application"
	ActionTechnicalReview  ActivityAction = "Technical Assessment Completed"
	ActionAppApproved      ActivityAction = "Application Approved"
	ActionAppRejected      ActivityAction = "Application Rejected"
	ActionAppReturned      ActivityAction = "Application Returned"
	ActionCommentAdded     ActivityAction = "Comment Added"
	ActionCommentDeleted   ActivityAction = "Comment Deleted"
	ActionDocumentUploaded ActivityAction = "Document Uploaded"
	ActionDocumentViewed   ActivityAction = "Document Viewed"
	ActionDocumentDeleted  ActivityAction = "Document Deleted"
	ActionPermitPrinted    ActivityAction = "Permit Printed"
	ActionLogEdited        ActivityAction = "Activity Log Edited"
	ActionLogDeleted       ActivityAction = "Activity Log Deleted"
	ActionLogsExported     ActivityAction = "Logs Exported"
	ActionMessageSent      ActivityAction = "Message Sent"
	ActionReportExported   ActivityAction = "Report Exported"
)

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
	ExportXLSX ExportFormat = "xlsx"
)

func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportCSV, ExportJSON, ExportXLSX:
		return true
	}
	return false
}

func (f ExportFormat) ContentType() string {
	switch f {
	case ExportCSV:
		return "text/csv"
	case ExportJSON:
		return "application/json"
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}
