package rbac

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"permit-workflow-backend/models"
)

func TestRbac(t *testing.T) {
	t.Run(`pathToRegex check`, func(t *testing.T) {
		path, method, err := parseSwaggerPattern("/api/v1/applications/{id}/comments [post]")
		require.Nil(t, err)
		require.Equal(t, POST, method)
		r1 := pathToRegex(path)

		require.True(t, r1.MatchString("/api/v1/applications/123-321/comments"))
		require.False(t, r1.MatchString("/api/v1/applications/comments"))

		path, method, err = parseSwaggerPattern("/api/v1/applications/{id}/comments/{comment_id} [delete]")
		require.Nil(t, err)
		require.Equal(t, DELETE, method)
		r2 := pathToRegex(path)

		require.True(t, r2.MatchString("/api/v1/applications/123-321/comments/qwe-ewr123"))
		require.False(t, r2.MatchString("/api/v1/applications/123-321/comments"))
	})
	t.Run(`pattern without method is refused`, func(t *testing.T) {
		_, _, err := parseSwaggerPattern("/api/v1/users")
		require.Error(t, err)
	})
	t.Run(`normalizePath`, func(t *testing.T) {
		require.Equal(t, "/api/v1/users", normalizePath("api//v1/users/"))
		require.Equal(t, "/", normalizePath(""))
	})
}

func TestRules(t *testing.T) {
	ownerAllow := func(userID string, role models.UserRole, path string) bool {
		if role == models.IctRole {
			return true
		}
		return strings.Contains(path, "own-")
	}
	i := newImpl()
	i.initRules(ownerAllow)

	check := func(method, path string, role models.UserRole) bool {
		handler, found := i.GetRuleFunc(method, path)
		if !found {
			return true
		}
		return handler("u-1", role, path)
	}

	t.Run("users are ict only", func(t *testing.T) {
		require.True(t, check("POST", "/api/v1/users/list", models.IctRole))
		require.False(t, check("POST", "/api/v1/users/list", models.PermitSupervisorRole))
		require.False(t, check("DELETE", "/api/v1/users/abc", models.PermittingOfficerRole))
	})
	t.Run("workflow actions follow stage owners", func(t *testing.T) {
		require.True(t, check("PUT", "/api/v1/applications/a1/submit", models.PermittingOfficerRole))
		require.False(t, check("PUT", "/api/v1/applications/a1/submit", models.ChairpersonRole))
		require.True(t, check("PUT", "/api/v1/applications/a1/forward", models.ChairpersonRole))
		require.False(t, check("PUT", "/api/v1/applications/a1/forward", models.CatchmentManagerRole))
		require.True(t, check("PUT", "/api/v1/applications/a1/technical_review", models.CatchmentManagerRole))
		require.True(t, check("PUT", "/api/v1/applications/a1/approve", models.CatchmentChairpersonRole))
		require.False(t, check("PUT", "/api/v1/applications/a1/approve", models.PermitSupervisorRole))
		require.False(t, check("PUT", "/api/v1/applications/a1/return", models.PermittingOfficerRole))
		for _, role := range models.AllRoles {
			require.Equal(t, role == models.IctRole || role == models.CatchmentChairpersonRole,
				check("PUT", "/api/v1/applications/a1/reject", role), role)
		}
	})
	t.Run("audit log edits are ict only", func(t *testing.T) {
		require.True(t, check("PUT", "/api/v1/activity_logs/l1", models.IctRole))
		require.False(t, check("PUT", "/api/v1/activity_logs/l1", models.PermitSupervisorRole))
		require.True(t, check("POST", "/api/v1/activity_logs/list", models.PermitSupervisorRole))
		require.False(t, check("POST", "/api/v1/activity_logs/list", models.ChairpersonRole))
	})
	t.Run("owner rule is applied to edits", func(t *testing.T) {
		require.True(t, check("PUT", "/api/v1/applications/own-1", models.PermittingOfficerRole))
		require.False(t, check("PUT", "/api/v1/applications/other-1", models.PermittingOfficerRole))
		require.False(t, check("GET", "/api/v1/applications/other-1/permit", models.PermittingOfficerRole))
	})
	t.Run("owner rule keeps role set", func(t *testing.T) {
		require.False(t, check("PUT", "/api/v1/applications/own-1", models.ChairpersonRole))
		require.True(t, check("PUT", "/api/v1/applications/any-1", models.IctRole))
	})
	t.Run("routes without rules are open", func(t *testing.T) {
		_, found := i.GetRuleFunc("GET", "/api/v1/auth/me")
		require.False(t, found)
	})
	t.Run("permissions map", func(t *testing.T) {
		perms := i.GetPermissions(models.IctRole)
		require.Contains(t, perms[models.UsersModule], models.ManagePermission)
		officer := i.GetPermissions(models.PermittingOfficerRole)
		require.NotContains(t, officer, models.UsersModule)
		require.Contains(t, officer[models.WorkflowModule], models.FlowPermission)
	})
}
