package event_bus

import "github.com/google/uuid"

const (
	TimeEntryLoggedEvent        EventType = "time_entry.logged"
	TimeEntryDeletedEvent       EventType = "time_entry.deleted"
	CostItemAddedEvent          EventType = "cost_item.added"
	CostItemDeletedEvent        EventType = "cost_item.deleted"
	FinanceSettingsUpdatedEvent EventType = "finance_settings.updated"
	UserSettingsUpdatedEvent    EventType = "user.settings.updated"
)

type TimeEntryLogged struct {
	EntryId uuid.UUID
	TaskId  int
	// ProjectId is nil for tasks outside any project.
	ProjectId *int
	UserId    int
}

type TimeEntryDeleted struct {
	EntryId   uuid.UUID
	TaskId    int
	ProjectId *int
}

type CostItemAdded struct {
	CostId    uuid.UUID
	ProjectId int
	TaskId    *int
}

type CostItemDeleted struct {
	CostId    uuid.UUID
	ProjectId int
	TaskId    *int
}

// FinanceSettingsUpdated is published for both task and project settings; Scope is "task" or "project".
type FinanceSettingsUpdated struct {
	Scope string
	Id    int
}

// UserSettingsUpdated signals a changed default rate or timezone, which affects every report the
// user contributed time to.
type UserSettingsUpdated struct {
	UserId int
}
