package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klokku/ledger/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

var ErrUserDataInvalid = errors.New("invalid user data")

type Service interface {
	GetCurrentUser(ctx context.Context) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	UpdateCurrentUserSettings(ctx context.Context, settings Settings) (User, error)
	DefaultRates(ctx context.Context, userIds []int) (map[int]int64, error)
}

type UserServiceImpl struct {
	repo     Repo
	eventBus *event_bus.EventBus
}

func NewUserService(repo Repo, eventBus *event_bus.EventBus) *UserServiceImpl {
	return &UserServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *UserServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetUser(ctx, userId)
}

func (s *UserServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return s.repo.GetUserByUid(ctx, uid)
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, user User) (User, error) {
	if err := validateSettings(user.Settings); err != nil {
		return User{}, err
	}
	id, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return User{}, err
	}
	user.Id = id
	return user, nil
}

func (s *UserServiceImpl) UpdateCurrentUserSettings(ctx context.Context, settings Settings) (User, error) {
	current, err := CurrentUser(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validateSettings(settings); err != nil {
		return User{}, err
	}
	if err := s.repo.UpdateSettings(ctx, current.Id, settings); err != nil {
		return User{}, err
	}
	current.Settings = settings

	err = s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.UserSettingsUpdatedEvent,
		event_bus.UserSettingsUpdated{UserId: current.Id}))
	if err != nil {
		log.Errorf("failed to publish user settings update event: %v", err)
		return User{}, err
	}
	return current, nil
}

func (s *UserServiceImpl) DefaultRates(ctx context.Context, userIds []int) (map[int]int64, error) {
	return s.repo.DefaultRates(ctx, userIds)
}

func validateSettings(settings Settings) error {
	if settings.DefaultHourlyRateCents != nil && *settings.DefaultHourlyRateCents < 0 {
		return fmt.Errorf("%w: default hourly rate must not be negative", ErrUserDataInvalid)
	}
	if settings.Timezone != "" {
		if _, err := time.LoadLocation(settings.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %s", ErrUserDataInvalid, settings.Timezone)
		}
	}
	return nil
}
