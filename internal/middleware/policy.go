package middleware

import (
	"fmt"
	"net/http"

	"github.com/idiarso4/SIM-AUG/internal/models"
)

// policies maps a capability to the roles allowed to exercise it. Routes
// declare capabilities; role membership lives in this one table instead of
// being scattered per handler.
var policies = map[string][]models.UserRole{
	"users.manage":        {models.RoleAdmin, models.RoleSuperAdmin},
	"students.read":       {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher},
	"students.write":      {models.RoleAdmin, models.RoleSuperAdmin},
	"teachers.read":       {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher},
	"teachers.write":      {models.RoleAdmin, models.RoleSuperAdmin},
	"classes.read":        {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher, models.RoleStudent},
	"classes.write":       {models.RoleAdmin, models.RoleSuperAdmin},
	"subjects.read":       {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher, models.RoleStudent},
	"subjects.write":      {models.RoleAdmin, models.RoleSuperAdmin},
	"grades.read":         {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher, models.RoleStudent, models.RoleParent},
	"grades.write":        {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher},
	"attendance.read":     {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher, models.RoleStudent, models.RoleParent},
	"attendance.write":    {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher},
	"assignments.read":    {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher, models.RoleStudent},
	"assignments.write":   {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher},
	"assignments.submit":  {models.RoleStudent, models.RoleAdmin, models.RoleSuperAdmin},
	"assignments.grade":   {models.RoleTeacher, models.RoleAdmin, models.RoleSuperAdmin},
	"cbt.read":            {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher, models.RoleStudent},
	"cbt.write":           {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher},
	"cbt.submit":          {models.RoleStudent, models.RoleAdmin, models.RoleSuperAdmin},
	"permissions.read":    {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher, models.RoleStudent, models.RoleParent},
	"permissions.write":   {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher, models.RoleStudent},
	"permissions.decide":  {models.RoleTeacher, models.RoleAdmin, models.RoleSuperAdmin},
	"announcements.read":  {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher, models.RoleStudent, models.RoleParent},
	"announcements.write": {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher},
	"lessonplans.read":    {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher},
	"lessonplans.write":   {models.RoleTeacher, models.RoleAdmin, models.RoleSuperAdmin},
	"duty.read":           {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher, models.RoleStudent},
	"duty.write":          {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher},
	"reports.read":        {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher},
	"reports.write":       {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher},
	"dashboard.read":      {models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher},
}

// Allowed reports whether role may exercise capability. Unknown
// capabilities deny everything.
func Allowed(capability string, role models.UserRole) bool {
	for _, allowed := range policies[capability] {
		if allowed == role {
			return true
		}
	}
	return false
}

// Authorize gates a handler behind a capability. It must run after the
// Authenticator so the user is on the context.
func Authorize(capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				unauthorized(w, "Authorization required")
				return
			}

			if !Allowed(capability, user.Role) {
				writeJSONError(w, http.StatusForbidden,
					fmt.Sprintf("Role %s is not authorized to access this resource", user.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
