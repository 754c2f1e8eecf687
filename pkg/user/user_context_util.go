package user

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey struct{}

var ErrNoUser = errors.New("user not found in context")

// CurrentId returns the id of the user attached to ctx by WithUser.
func CurrentId(ctx context.Context) (int, error) {
	u, err := CurrentUser(ctx)
	if err != nil {
		return 0, err
	}
	return u.Id, nil
}

func CurrentUser(ctx context.Context) (User, error) {
	u, ok := ctx.Value(contextKey{}).(User)
	if !ok {
		log.Trace("user not found in context")
		return User{}, ErrNoUser
	}
	return u, nil
}

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}
