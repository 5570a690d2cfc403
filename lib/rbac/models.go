package rbac

import (
	"permit-workflow-backend/models"
	"regexp"
)

type MethodRule struct {
	Method  HTTPMethod
	Handler models.RbacFunc
}

type HTTPMethod string

const (
	GET    HTTPMethod = "GET"
	POST   HTTPMethod = "POST"
	PUT    HTTPMethod = "PUT"
	DELETE HTTPMethod = "DELETE"
	PATCH  HTTPMethod = "PATCH"
	ALL    HTTPMethod = "ALL"
)

type PathRule struct {
	Exact    map[string]models.RbacFunc // checked first
	Patterns []PatternRule              // paths with {params}
}

type PatternRule struct {
	Pattern *regexp.Regexp
	Handler models.RbacFunc
}
