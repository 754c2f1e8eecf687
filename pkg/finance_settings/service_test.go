package finance_settings

import (
	"context"
	"testing"

	"github.com/klokku/ledger/internal/event_bus"
	"github.com/klokku/ledger/pkg/finance"
	"github.com/klokku/ledger/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cents(v int64) *int64 {
	return &v
}

func flag(v bool) *bool {
	return &v
}

func percent(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var projectId = 3

func setupService(t *testing.T) (context.Context, *ServiceImpl, *RepositoryStub, *event_bus.EventBus) {
	t.Helper()
	repo := NewRepositoryStub()
	repo.AddProject(finance.Project{Id: projectId, Name: "Website", Settings: finance.FinanceSettings{
		HourlyRateCents:        cents(4000),
		SalesCommissionEnabled: flag(true),
		SalesCommissionPercent: percent("12.5"),
	}})
	repo.AddTask(finance.Task{Id: 11, ProjectId: &projectId, Name: "Design", Settings: finance.FinanceSettings{
		FixedBudgetCents: cents(100000),
	}})
	repo.AddTask(finance.Task{Id: 12, Name: "Standalone"})
	bus := event_bus.NewEventBus()
	ctx := user.WithUser(context.Background(), user.User{Id: 1, Uid: "u-1"})
	return ctx, NewService(repo, bus), repo, bus
}

func TestService_EffectiveTaskSettings(t *testing.T) {
	t.Run("inherits unset fields from project", func(t *testing.T) {
		ctx, service, _, _ := setupService(t)

		effective, err := service.EffectiveTaskSettings(ctx, 11)

		require.NoError(t, err)
		assert.Equal(t, int64(100000), *effective.FixedBudgetCents)
		assert.Equal(t, int64(4000), *effective.HourlyRateCents)
		assert.True(t, effective.CommissionEnabled())
		assert.Equal(t, "12.5", effective.CommissionPercent().String())
	})

	t.Run("task outside project keeps own settings", func(t *testing.T) {
		ctx, service, _, _ := setupService(t)

		effective, err := service.EffectiveTaskSettings(ctx, 12)

		require.NoError(t, err)
		assert.Nil(t, effective.HourlyRateCents)
		assert.False(t, effective.CommissionEnabled())
	})

	t.Run("unknown task", func(t *testing.T) {
		ctx, service, _, _ := setupService(t)

		_, err := service.EffectiveTaskSettings(ctx, 99)

		assert.ErrorIs(t, err, ErrSettingsNotFound)
	})

	t.Run("requires current user", func(t *testing.T) {
		_, service, _, _ := setupService(t)

		_, err := service.EffectiveTaskSettings(context.Background(), 11)

		assert.ErrorIs(t, err, user.ErrNoUser)
	})
}

func TestService_UpdateTaskSettings(t *testing.T) {
	t.Run("leaves percent unset and publishes event", func(t *testing.T) {
		// given
		ctx, service, repo, bus := setupService(t)
		var published []event_bus.FinanceSettingsUpdated
		event_bus.SubscribeTyped[event_bus.FinanceSettingsUpdated](bus, event_bus.FinanceSettingsUpdatedEvent,
			func(e event_bus.EventT[event_bus.FinanceSettingsUpdated]) error {
				published = append(published, e.Data)
				return nil
			})

		// when
		updated, err := service.UpdateTaskSettings(ctx, 12, finance.FinanceSettings{SalesCommissionEnabled: flag(true)})

		// then
		require.NoError(t, err)
		assert.Nil(t, updated.SalesCommissionPercent)
		stored, _ := repo.GetTask(ctx, 12)
		assert.Nil(t, stored.Settings.SalesCommissionPercent)
		assert.True(t, stored.Settings.CommissionEnabled())
		assert.Equal(t, []event_bus.FinanceSettingsUpdated{{Scope: "task", Id: 12}}, published)
	})

	t.Run("enabling commission keeps the project percent", func(t *testing.T) {
		// given
		ctx, service, _, _ := setupService(t)

		// when
		_, err := service.UpdateTaskSettings(ctx, 11, finance.FinanceSettings{
			FixedBudgetCents:       cents(100000),
			SalesCommissionEnabled: flag(true),
		})
		require.NoError(t, err)
		effective, err := service.EffectiveTaskSettings(ctx, 11)

		// then
		require.NoError(t, err)
		assert.True(t, effective.CommissionEnabled())
		assert.Equal(t, "12.5", effective.CommissionPercent().String())
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		tests := []struct {
			name     string
			settings finance.FinanceSettings
		}{
			{"negative budget", finance.FinanceSettings{FixedBudgetCents: cents(-1)}},
			{"negative rate", finance.FinanceSettings{HourlyRateCents: cents(-100)}},
			{"percent above 100", finance.FinanceSettings{SalesCommissionPercent: percent("100.5")}},
			{"negative percent", finance.FinanceSettings{SalesCommissionPercent: percent("-1")}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ctx, service, _, _ := setupService(t)

				_, err := service.UpdateTaskSettings(ctx, 11, tt.settings)

				assert.ErrorIs(t, err, ErrInvalidSettings)
			})
		}
	})
}

func TestService_UpdateProjectSettings(t *testing.T) {
	// given
	ctx, service, _, bus := setupService(t)
	var published []event_bus.FinanceSettingsUpdated
	event_bus.SubscribeTyped[event_bus.FinanceSettingsUpdated](bus, event_bus.FinanceSettingsUpdatedEvent,
		func(e event_bus.EventT[event_bus.FinanceSettingsUpdated]) error {
			published = append(published, e.Data)
			return nil
		})

	// when
	_, err := service.UpdateProjectSettings(ctx, projectId, finance.FinanceSettings{HourlyRateCents: cents(5000)})
	require.NoError(t, err)
	effective, err := service.EffectiveTaskSettings(ctx, 11)

	// then
	require.NoError(t, err)
	assert.Equal(t, int64(5000), *effective.HourlyRateCents)
	assert.False(t, effective.CommissionEnabled())
	assert.Equal(t, []event_bus.FinanceSettingsUpdated{{Scope: "project", Id: projectId}}, published)
}
