package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// User management
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current/settings", deps.UserHandler.UpdateSettings).Methods("PUT")

	// Finance settings
	r.HandleFunc("/api/task/{taskId}/settings", deps.FinanceSettingsHandler.GetTaskSettings).Methods("GET")
	r.HandleFunc("/api/task/{taskId}/settings", deps.FinanceSettingsHandler.UpdateTaskSettings).Methods("PUT")
	r.HandleFunc("/api/project/{projectId}/settings", deps.FinanceSettingsHandler.GetProjectSettings).Methods("GET")
	r.HandleFunc("/api/project/{projectId}/settings", deps.FinanceSettingsHandler.UpdateProjectSettings).Methods("PUT")

	// Time entries
	r.HandleFunc("/api/task/{taskId}/time-entry", deps.TimeEntryHandler.LogTime).Methods("POST")
	r.HandleFunc("/api/task/{taskId}/time-entry", deps.TimeEntryHandler.ListForTask).Methods("GET")
	r.HandleFunc("/api/time-entry/{entryId}", deps.TimeEntryHandler.DeleteEntry).Methods("DELETE")

	// Timer
	r.HandleFunc("/api/timer", deps.TimerHandler.StartTimer).Methods("POST")
	r.HandleFunc("/api/timer", deps.TimerHandler.CurrentTimer).Methods("GET")
	r.HandleFunc("/api/timer/stop", deps.TimerHandler.StopTimer).Methods("POST")
	r.HandleFunc("/api/timer/start", deps.TimerHandler.ModifyStartTime).Methods("PATCH")

	// Costs
	r.HandleFunc("/api/project/{projectId}/cost", deps.CostHandler.AddCost).Methods("POST")
	r.HandleFunc("/api/project/{projectId}/cost", deps.CostHandler.ListForProject).Methods("GET")
	r.HandleFunc("/api/task/{taskId}/cost", deps.CostHandler.ListForTask).Methods("GET")
	r.HandleFunc("/api/cost/{costId}", deps.CostHandler.DeleteCost).Methods("DELETE")

	// Finance reports
	r.HandleFunc("/api/task/{taskId}/finance", deps.ReportHandler.TaskFinance).Methods("GET")
	r.HandleFunc("/api/project/{projectId}/finance", deps.ReportHandler.ProjectFinance).Methods("GET")
}
