package report

import (
	"strconv"
	"strings"
	"sync"

	"github.com/klokku/ledger/internal/event_bus"
	"github.com/klokku/ledger/pkg/finance"
	log "github.com/sirupsen/logrus"
)

// reportCache keeps computed reports until an ingestion event touches their task or project.
// The generation counter lets a computation that raced with an invalidation skip storing its
// stale result.
type reportCache struct {
	mu         sync.RWMutex
	reports    map[string]finance.Report
	generation uint64
}

func newReportCache() *reportCache {
	return &reportCache{reports: make(map[string]finance.Report)}
}

func scopePrefix(scope finance.Scope, id int) string {
	return string(scope) + ":" + strconv.Itoa(id) + "|"
}

func (c *reportCache) get(key string) (finance.Report, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	report, ok := c.reports[key]
	return report, c.generation, ok
}

func (c *reportCache) put(key string, generation uint64, report finance.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return
	}
	c.reports[key] = report
}

func (c *reportCache) invalidate(scope finance.Scope, id int) {
	prefix := scopePrefix(scope, id)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	for key := range c.reports {
		if strings.HasPrefix(key, prefix) {
			delete(c.reports, key)
		}
	}
}

func (c *reportCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.reports = make(map[string]finance.Report)
}

func (c *reportCache) invalidateTaskAndProject(taskId *int, projectId *int) {
	if taskId != nil {
		c.invalidate(finance.ScopeTask, *taskId)
	}
	if projectId != nil {
		c.invalidate(finance.ScopeProject, *projectId)
	}
}

func (c *reportCache) subscribe(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped[event_bus.TimeEntryLogged](bus, event_bus.TimeEntryLoggedEvent,
		func(e event_bus.EventT[event_bus.TimeEntryLogged]) error {
			log.Debugf("invalidating reports of task %d after time entry %s", e.Data.TaskId, e.Data.EntryId)
			c.invalidateTaskAndProject(&e.Data.TaskId, e.Data.ProjectId)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.TimeEntryDeleted](bus, event_bus.TimeEntryDeletedEvent,
		func(e event_bus.EventT[event_bus.TimeEntryDeleted]) error {
			c.invalidateTaskAndProject(&e.Data.TaskId, e.Data.ProjectId)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.CostItemAdded](bus, event_bus.CostItemAddedEvent,
		func(e event_bus.EventT[event_bus.CostItemAdded]) error {
			c.invalidateTaskAndProject(e.Data.TaskId, &e.Data.ProjectId)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.CostItemDeleted](bus, event_bus.CostItemDeletedEvent,
		func(e event_bus.EventT[event_bus.CostItemDeleted]) error {
			c.invalidateTaskAndProject(e.Data.TaskId, &e.Data.ProjectId)
			return nil
		})
	// Settings flow from projects into tasks and task rates into project reports.
	event_bus.SubscribeTyped[event_bus.FinanceSettingsUpdated](bus, event_bus.FinanceSettingsUpdatedEvent,
		func(e event_bus.EventT[event_bus.FinanceSettingsUpdated]) error {
			log.Debugf("clearing report cache after %s %d settings update", e.Data.Scope, e.Data.Id)
			c.clear()
			return nil
		})
	event_bus.SubscribeTyped[event_bus.UserSettingsUpdated](bus, event_bus.UserSettingsUpdatedEvent,
		func(e event_bus.EventT[event_bus.UserSettingsUpdated]) error {
			c.clear()
			return nil
		})
}
