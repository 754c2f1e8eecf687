package user

import (
	"context"
)

type StubUserRepository struct {
	nextId int
	data   map[int]User
}

func NewStubUserRepository() *StubUserRepository {
	return &StubUserRepository{data: map[int]User{}}
}

func (s *StubUserRepository) CreateUser(ctx context.Context, user User) (int, error) {
	s.nextId++
	user.Id = s.nextId
	s.data[user.Id] = user
	return user.Id, nil
}

func (s *StubUserRepository) GetUser(ctx context.Context, id int) (User, error) {
	u, ok := s.data[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *StubUserRepository) GetUserByUid(ctx context.Context, uid string) (User, error) {
	for _, u := range s.data {
		if u.Uid == uid {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubUserRepository) UpdateSettings(ctx context.Context, userId int, settings Settings) error {
	u, ok := s.data[userId]
	if !ok {
		return ErrUserNotFound
	}
	u.Settings = settings
	s.data[userId] = u
	return nil
}

func (s *StubUserRepository) DefaultRates(ctx context.Context, userIds []int) (map[int]int64, error) {
	rates := make(map[int]int64)
	for _, id := range userIds {
		if u, ok := s.data[id]; ok && u.Settings.DefaultHourlyRateCents != nil {
			rates[id] = *u.Settings.DefaultHourlyRateCents
		}
	}
	return rates, nil
}
