package rbac

import (
	"permit-workflow-backend/models"
)

var (
	AllRoles       = models.AllRoles
	IctRoleSet     = []models.UserRole{models.IctRole}
	OverseerSet    = []models.UserRole{models.IctRole, models.PermitSupervisorRole}
	OfficerRoleSet = []models.UserRole{models.IctRole, models.PermittingOfficerRole}
	ReportsRoleSet = []models.UserRole{models.IctRole, models.PermitSupervisorRole, models.CatchmentChairpersonRole}
	PrintRoleSet   = []models.UserRole{models.IctRole, models.PermitSupervisorRole, models.PermittingOfficerRole}
	ReturnRoleSet  = []models.UserRole{models.IctRole, models.ChairpersonRole, models.CatchmentManagerRole, models.CatchmentChairpersonRole}
	DocDeleteSet   = []models.UserRole{models.IctRole, models.PermitSupervisorRole, models.PermittingOfficerRole}
)

func (i *impl) initRules(ownerAllow models.RbacFunc) {
	i.addUsersRbac()
	i.addApplicationsRbac(ownerAllow)
	i.addWorkflowRbac()
	i.addCommentsRbac()
	i.addDocumentsRbac()
	i.addActivityLogsRbac()
	i.addMessagesRbac()
	i.addReportsRbac()
	i.addPermitRbac(ownerAllow)
}

func (i *impl) addUsersRbac() {
	i.RegisterRule(models.UsersModule, models.ViewPermission, IctRoleSet, "/api/v1/users/list [post]", nil)
	i.RegisterRule(models.UsersModule, models.ViewPermission, IctRoleSet, "/api/v1/users/{id} [get]", nil)
	i.RegisterRule(models.UsersModule, models.ManagePermission, IctRoleSet, "/api/v1/users [post]", nil)
	i.RegisterRule(models.UsersModule, models.ManagePermission, IctRoleSet, "/api/v1/users/{id} [put]", nil)
	i.RegisterRule(models.UsersModule, models.ManagePermission, IctRoleSet, "/api/v1/users/{id}/reset_password [put]", nil)
	i.RegisterRule(models.UsersModule, models.ManagePermission, IctRoleSet, "/api/v1/users/{id} [delete]", nil)
}

func (i *impl) addApplicationsRbac(ownerAllow models.RbacFunc) {
	i.RegisterRule(models.ApplicationsModule, models.ViewPermission, AllRoles, "/api/v1/applications/list [post]", nil)
	i.RegisterRule(models.ApplicationsModule, models.ViewPermission, AllRoles, "/api/v1/applications/queue [post]", nil)
	i.RegisterRule(models.ApplicationsModule, models.ViewPermission, AllRoles, "/api/v1/applications/{id} [get]", nil)
	i.RegisterRule(models.ApplicationsModule, models.CreatePermission, OfficerRoleSet, "/api/v1/applications [post]", nil)
	i.RegisterRule(models.ApplicationsModule, models.EditPermission, OfficerRoleSet, "/api/v1/applications/{id} [put]", ownerAllow)
	i.RegisterRule(models.ApplicationsModule, models.ManagePermission, IctRoleSet, "/api/v1/applications/{id} [delete]", nil)
}

func (i *impl) addWorkflowRbac() {
	i.RegisterRule(models.WorkflowModule, models.FlowPermission, OfficerRoleSet, "/api/v1/applications/{id}/submit [put]", nil)
	i.RegisterRule(models.WorkflowModule, models.FlowPermission, []models.UserRole{models.IctRole, models.ChairpersonRole}, "/api/v1/applications/{id}/forward [put]", nil)
	i.RegisterRule(models.WorkflowModule, models.FlowPermission, []models.UserRole{models.IctRole, models.CatchmentManagerRole}, "/api/v1/applications/{id}/technical_review [put]", nil)
	i.RegisterRule(models.WorkflowModule, models.FlowPermission, []models.UserRole{models.IctRole, models.CatchmentChairpersonRole}, "/api/v1/applications/{id}/approve [put]", nil)
	i.RegisterRule(models.WorkflowModule, models.FlowPermission, []models.UserRole{models.IctRole, models.CatchmentChairpersonRole}, "/api/v1/applications/{id}/reject [put]", nil)
	i.RegisterRule(models.WorkflowModule, models.FlowPermission, ReturnRoleSet, "/api/v1/applications/{id}/return [put]", nil)
}

func (i *impl) addCommentsRbac() {
	i.RegisterRule(models.CommentsModule, models.ViewPermission, AllRoles, "/api/v1/applications/{id}/comments [get]", nil)
	i.RegisterRule(models.CommentsModule, models.CommentPermission, AllRoles, "/api/v1/applications/{id}/comments [post]", nil)
	i.RegisterRule(models.CommentsModule, models.ManagePermission, IctRoleSet, "/api/v1/applications/{id}/comments/{comment_id} [delete]", nil)
	i.RegisterRule(models.CommentsModule, models.PrintPermission, AllRoles, "/api/v1/applications/{id}/comments/print [get]", nil)
}

func (i *impl) addDocumentsRbac() {
	i.RegisterRule(models.DocumentsModule, models.ViewPermission, AllRoles, "/api/v1/applications/{id}/documents [get]", nil)
	i.RegisterRule(models.DocumentsModule, models.FilesPermission, AllRoles, "/api/v1/applications/{id}/documents [post]", nil)
	i.RegisterRule(models.DocumentsModule, models.ViewPermission, AllRoles, "/api/v1/documents/{id}/download [get]", nil)
	i.RegisterRule(models.DocumentsModule, models.ViewPermission, AllRoles, "/api/v1/documents/{id}/history [get]", nil)
	i.RegisterRule(models.DocumentsModule, models.ManagePermission, DocDeleteSet, "/api/v1/documents/{id} [delete]", nil)
}

func (i *impl) addActivityLogsRbac() {
	i.RegisterRule(models.ActivityLogsModule, models.ViewPermission, OverseerSet, "/api/v1/activity_logs/list [post]", nil)
	i.RegisterRule(models.ActivityLogsModule, models.ViewPermission, OverseerSet, "/api/v1/activity_logs/stats [post]", nil)
	i.RegisterRule(models.ActivityLogsModule, models.ExportPermission, OverseerSet, "/api/v1/activity_logs/export [post]", nil)
	i.RegisterRule(models.ActivityLogsModule, models.ManagePermission, IctRoleSet, "/api/v1/activity_logs/{id} [put]", nil)
	i.RegisterRule(models.ActivityLogsModule, models.ManagePermission, IctRoleSet, "/api/v1/activity_logs/{id} [delete]", nil)
	i.RegisterRule(models.ActivityLogsModule, models.ViewPermission, AllRoles, "/api/v1/applications/{id}/timeline [get]", nil)
}

func (i *impl) addMessagesRbac() {
	i.RegisterRule(models.MessagesModule, models.ViewPermission, AllRoles, "/api/v1/messages/list [post]", nil)
	i.RegisterRule(models.MessagesModule, models.ViewPermission, AllRoles, "/api/v1/messages/unread_count [get]", nil)
	i.RegisterRule(models.MessagesModule, models.ViewPermission, AllRoles, "/api/v1/messages/recipients [get]", nil)
	i.RegisterRule(models.MessagesModule, models.CreatePermission, AllRoles, "/api/v1/messages [post]", nil)
	i.RegisterRule(models.MessagesModule, models.EditPermission, AllRoles, "/api/v1/messages/{id}/read [put]", nil)
	i.RegisterRule(models.MessagesModule, models.EditPermission, AllRoles, "/api/v1/messages/{id} [delete]", nil)
}

func (i *impl) addReportsRbac() {
	i.RegisterRule(models.ReportsModule, models.ViewPermission, ReportsRoleSet, "/api/v1/reports/summary [post]", nil)
	i.RegisterRule(models.ReportsModule, models.ExportPermission, ReportsRoleSet, "/api/v1/reports/applications/export [post]", nil)
}

func (i *impl) addPermitRbac(ownerAllow models.RbacFunc) {
	i.RegisterRule(models.PermitModule, models.PrintPermission, PrintRoleSet, "/api/v1/applications/{id}/permit [get]", ownerAllow)
}
