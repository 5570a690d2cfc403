package models

type RbacFunc func(userID string, role UserRole, path string) bool

type Module string

const (
	UsersModule        Module = "USERS"
	ApplicationsModule Module = "APPLICATIONS"
	WorkflowModule     Module = "WORKFLOW"
	DocumentsModule    Module = "DOCUMENTS"
	CommentsModule     Module = "COMMENTS"
	ActivityLogsModule Module = "ACTIVITY_LOGS"
	MessagesModule     Module = "MESSAGES"
	ReportsModule      Module = "REPORTS"
	PermitModule       Module = "PERMIT"
)

type Permission string

const (
	CreatePermission  Permission = "CREATE"
	EditPermission    Permission = "EDIT"
	ViewPermission    Permission = "VIEW"
	ManagePermission  Permission = "MANAGE"
	FlowPermission    Permission = "FLOW"
	ExportPermission  Permission = "EXPORT"
	PrintPermission   Permission = "PRINT"
	FilesPermission   Permission = "FILES"
	CommentPermission Permission = "COMMENT"
)
