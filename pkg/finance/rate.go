package finance

// RateContext holds the fallback rates available for a single entry.
type RateContext struct {
	TaskRateCents        *int64
	ProjectRateCents     *int64
	UserDefaultRateCents *int64
}

func NewRateContext(task *Task, project *Project, userDefaultRateCents *int64) RateContext {
	rc := RateContext{UserDefaultRateCents: userDefaultRateCents}
	if task != nil {
		rc.TaskRateCents = task.Settings.HourlyRateCents
	}
	if project != nil {
		rc.ProjectRateCents = project.Settings.HourlyRateCents
	}
	return rc
}

// Resolve picks the first positive rate among the entry rate, the task rate, the project rate
// and the user default rate. When none is set it returns 0 and false; the entry is still
// counted, with a zero amount.
func (rc RateContext) Resolve(entryRateCents *int64) (int64, bool) {
	for _, rate := range []*int64{entryRateCents, rc.TaskRateCents, rc.ProjectRateCents, rc.UserDefaultRateCents} {
		if rate != nil && *rate > 0 {
			return *rate, true
		}
	}
	return 0, false
}

func ResolveRate(entry TimeEntry, task *Task, project *Project, userDefaultRateCents *int64) (int64, bool) {
	return NewRateContext(task, project, userDefaultRateCents).Resolve(entry.HourlyRateCents)
}
