package application

import "expvar"

// Exposed on /api/debug/vars when debug metrics are enabled.
var (
	metricRegistrations = expvar.NewInt("auth_registrations")
	metricLogins        = expvar.NewInt("auth_logins")
	metricLoginFailures = expvar.NewInt("auth_login_failures")
	metricTasksCreated  = expvar.NewInt("tasks_created")
	metricTasksUpdated  = expvar.NewInt("tasks_updated")
	metricTasksDeleted  = expvar.NewInt("tasks_deleted")
)
