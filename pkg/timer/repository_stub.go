package timer

import (
	"context"
)

type RepositoryStub struct {
	timers map[int]RunningTimer // userId -> timer
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{timers: map[int]RunningTimer{}}
}

func (s *RepositoryStub) ReplaceTimer(ctx context.Context, userId int, timer RunningTimer) (RunningTimer, error) {
	s.timers[userId] = timer
	return timer, nil
}

func (s *RepositoryStub) DeleteTimer(ctx context.Context, userId int) error {
	delete(s.timers, userId)
	return nil
}

func (s *RepositoryStub) FindTimer(ctx context.Context, userId int) (RunningTimer, error) {
	return s.timers[userId], nil
}
