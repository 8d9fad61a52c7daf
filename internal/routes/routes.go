package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/idiarso4/SIM-AUG/internal/auth"
	"github.com/idiarso4/SIM-AUG/internal/handlers"
	"github.com/idiarso4/SIM-AUG/internal/middleware"
	"github.com/idiarso4/SIM-AUG/internal/utils"
)

// SetupRouter wires every handler behind the authenticator and the
// capability policy. /health and /metrics stay public; /api/auth/register
// and /api/auth/login are the only open API routes.
func SetupRouter(client *mongo.Client, dbName string, manager *auth.Manager, revoker *auth.Revoker, mailer *utils.Mailer) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.Metrics)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Server is healthy"))
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	authHandler := handlers.NewAuthHandler(client, dbName, manager, revoker)
	userHandler := handlers.NewUserHandler(client, dbName)
	studentHandler := handlers.NewStudentHandler(client, dbName)
	teacherHandler := handlers.NewTeacherHandler(client, dbName)
	classHandler := handlers.NewClassHandler(client, dbName)
	subjectHandler := handlers.NewSubjectHandler(client, dbName)
	gradeHandler := handlers.NewGradeHandler(client, dbName)
	attendanceHandler := handlers.NewAttendanceHandler(client, dbName)
	assignmentHandler := handlers.NewAssignmentHandler(client, dbName)
	cbtHandler := handlers.NewCBTHandler(client, dbName)
	permissionHandler := handlers.NewPermissionHandler(client, dbName, mailer)
	announcementHandler := handlers.NewAnnouncementHandler(client, dbName, mailer)
	lessonPlanHandler := handlers.NewLessonPlanHandler(client, dbName)
	dutyHandler := handlers.NewDutyTeacherHandler(client, dbName)
	reportHandler := handlers.NewReportHandler(client, dbName)
	dashboardHandler := handlers.NewDashboardHandler(client, dbName)

	api := router.PathPrefix("/api").Subrouter()

	// Public auth routes.
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Everything below requires a valid token.
	authenticator := middleware.NewAuthenticator(manager, revoker,
		client.Database(dbName).Collection("users"))
	protected := api.NewRoute().Subrouter()
	protected.Use(authenticator.Middleware)

	protected.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	protected.HandleFunc("/auth/profile", authHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/auth/change-password", authHandler.ChangePassword).Methods("PUT")
	protected.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")

	// guard registers a route behind a capability from the policy table.
	guard := func(path, capability string, handler http.HandlerFunc, methods ...string) {
		protected.Handle(path, middleware.Authorize(capability)(handler)).Methods(methods...)
	}

	guard("/users", "users.manage", userHandler.List, "GET")
	guard("/users", "users.manage", userHandler.Create, "POST")
	guard("/users/{id}", "users.manage", userHandler.GetByID, "GET")
	guard("/users/{id}", "users.manage", userHandler.Update, "PUT")
	guard("/users/{id}", "users.manage", userHandler.Delete, "DELETE")

	guard("/students", "students.read", studentHandler.List, "GET")
	guard("/students", "students.write", studentHandler.Create, "POST")
	guard("/students/{id}", "students.read", studentHandler.GetByID, "GET")
	guard("/students/{id}", "students.write", studentHandler.Update, "PUT")
	guard("/students/{id}", "students.write", studentHandler.Delete, "DELETE")

	guard("/teachers", "teachers.read", teacherHandler.List, "GET")
	guard("/teachers", "teachers.write", teacherHandler.Create, "POST")
	guard("/teachers/{id}", "teachers.read", teacherHandler.GetByID, "GET")
	guard("/teachers/{id}", "teachers.write", teacherHandler.Update, "PUT")
	guard("/teachers/{id}", "teachers.write", teacherHandler.Delete, "DELETE")

	guard("/classes", "classes.read", classHandler.List, "GET")
	guard("/classes", "classes.write", classHandler.Create, "POST")
	guard("/classes/{id}", "classes.read", classHandler.GetByID, "GET")
	guard("/classes/{id}", "classes.write", classHandler.Update, "PUT")
	guard("/classes/{id}", "classes.write", classHandler.Delete, "DELETE")

	guard("/subjects", "subjects.read", subjectHandler.List, "GET")
	guard("/subjects", "subjects.write", subjectHandler.Create, "POST")
	guard("/subjects/{id}", "subjects.read", subjectHandler.GetByID, "GET")
	guard("/subjects/{id}", "subjects.write", subjectHandler.Update, "PUT")
	guard("/subjects/{id}", "subjects.write", subjectHandler.Delete, "DELETE")

	guard("/grades", "grades.read", gradeHandler.List, "GET")
	guard("/grades", "grades.write", gradeHandler.Create, "POST")
	guard("/grades/{id}", "grades.read", gradeHandler.GetByID, "GET")
	guard("/grades/{id}", "grades.write", gradeHandler.Update, "PUT")
	guard("/grades/{id}", "grades.write", gradeHandler.Delete, "DELETE")

	guard("/attendance", "attendance.read", attendanceHandler.List, "GET")
	guard("/attendance", "attendance.write", attendanceHandler.Create, "POST")
	guard("/attendance/{id}", "attendance.read", attendanceHandler.GetByID, "GET")
	guard("/attendance/{id}", "attendance.write", attendanceHandler.Update, "PUT")
	guard("/attendance/{id}", "attendance.write", attendanceHandler.Delete, "DELETE")

	guard("/assignments", "assignments.read", assignmentHandler.List, "GET")
	guard("/assignments", "assignments.write", assignmentHandler.Create, "POST")
	guard("/assignments/student/{studentId}", "assignments.read", assignmentHandler.StudentAssignments, "GET")
	guard("/assignments/{id}", "assignments.read", assignmentHandler.GetByID, "GET")
	guard("/assignments/{id}", "assignments.write", assignmentHandler.Update, "PUT")
	guard("/assignments/{id}", "assignments.write", assignmentHandler.Delete, "DELETE")
	guard("/assignments/{id}/submit", "assignments.submit", assignmentHandler.Submit, "POST")
	guard("/assignments/{id}/grade", "assignments.grade", assignmentHandler.Grade, "POST")
	guard("/assignments/{id}/stats", "assignments.read", assignmentHandler.Stats, "GET")

	guard("/cbt", "cbt.read", cbtHandler.List, "GET")
	guard("/cbt", "cbt.write", cbtHandler.Create, "POST")
	guard("/cbt/{id}", "cbt.read", cbtHandler.GetByID, "GET")
	guard("/cbt/{id}", "cbt.write", cbtHandler.Update, "PUT")
	guard("/cbt/{id}", "cbt.write", cbtHandler.Delete, "DELETE")
	guard("/cbt/{id}/status", "cbt.write", cbtHandler.UpdateStatus, "PATCH")
	guard("/cbt/{id}/student", "cbt.read", cbtHandler.StudentView, "GET")
	guard("/cbt/{id}/submit", "cbt.submit", cbtHandler.Submit, "POST")
	guard("/cbt/{id}/results", "cbt.write", cbtHandler.Results, "GET")

	guard("/permissions", "permissions.read", permissionHandler.List, "GET")
	guard("/permissions", "permissions.write", permissionHandler.Create, "POST")
	guard("/permissions/{id}", "permissions.read", permissionHandler.GetByID, "GET")
	guard("/permissions/{id}", "permissions.write", permissionHandler.Update, "PUT")
	guard("/permissions/{id}", "permissions.decide", permissionHandler.Delete, "DELETE")
	guard("/permissions/{id}/approve", "permissions.decide", permissionHandler.Approve, "PUT")
	guard("/permissions/{id}/reject", "permissions.decide", permissionHandler.Reject, "PUT")

	guard("/announcements", "announcements.read", announcementHandler.List, "GET")
	guard("/announcements", "announcements.write", announcementHandler.Create, "POST")
	guard("/announcements/{id}", "announcements.read", announcementHandler.GetByID, "GET")
	guard("/announcements/{id}", "announcements.write", announcementHandler.Update, "PUT")
	guard("/announcements/{id}", "announcements.write", announcementHandler.Delete, "DELETE")
	guard("/announcements/{id}/publish", "announcements.write", announcementHandler.Publish, "POST")
	guard("/announcements/{id}/read", "announcements.read", announcementHandler.MarkRead, "POST")

	guard("/lesson-plans", "lessonplans.read", lessonPlanHandler.List, "GET")
	guard("/lesson-plans", "lessonplans.write", lessonPlanHandler.Create, "POST")
	guard("/lesson-plans/{id}", "lessonplans.read", lessonPlanHandler.GetByID, "GET")
	guard("/lesson-plans/{id}", "lessonplans.write", lessonPlanHandler.Update, "PUT")
	guard("/lesson-plans/{id}", "lessonplans.write", lessonPlanHandler.Delete, "DELETE")
	guard("/lesson-plans/{id}/attendance", "lessonplans.write", lessonPlanHandler.RecordAttendance, "POST")

	guard("/duty-teachers", "duty.read", dutyHandler.List, "GET")
	guard("/duty-teachers", "duty.write", dutyHandler.Create, "POST")
	guard("/duty-teachers/{id}", "duty.read", dutyHandler.GetByID, "GET")
	guard("/duty-teachers/{id}", "duty.write", dutyHandler.Update, "PUT")
	guard("/duty-teachers/{id}", "duty.write", dutyHandler.Delete, "DELETE")
	guard("/gate-passes", "duty.read", dutyHandler.ListGatePasses, "GET")
	guard("/gate-passes", "duty.read", dutyHandler.CreateGatePass, "POST")
	guard("/gate-passes/{id}/approve", "duty.write", dutyHandler.ApproveGatePass, "POST")
	guard("/gate-passes/{id}/reject", "duty.write", dutyHandler.RejectGatePass, "POST")
	guard("/gate-passes/{id}/gate", "duty.write", dutyHandler.RecordGate, "POST")
	guard("/gate-logs", "duty.read", dutyHandler.ListGateLogs, "GET")

	guard("/reports", "reports.read", reportHandler.List, "GET")
	guard("/reports", "reports.write", reportHandler.Create, "POST")
	guard("/reports/{id}", "reports.read", reportHandler.GetByID, "GET")
	guard("/reports/{id}", "reports.write", reportHandler.Update, "PUT")
	guard("/reports/{id}", "reports.write", reportHandler.Delete, "DELETE")

	guard("/dashboard/stats", "dashboard.read", dashboardHandler.Stats, "GET")
	guard("/dashboard/activities", "dashboard.read", dashboardHandler.Activities, "GET")
	guard("/dashboard/events", "dashboard.read", dashboardHandler.Events, "GET")

	return router
}
