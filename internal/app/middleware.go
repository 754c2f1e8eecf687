package app

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klokku/ledger/pkg/user"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies) {
	r.Use(userMiddleware(deps.UserService))
}

// userMiddleware propagates the user named by the X-User-Id header into the request context.
// Requests without the header pass through; services reject them where a user is required.
func userMiddleware(userService user.Service) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			userIdHeader := req.Header.Get("X-User-Id")
			ctx := req.Context()

			if userIdHeader != "" {
				u, err := userService.GetUserByUid(ctx, userIdHeader)
				if err != nil {
					if errors.Is(err, user.ErrUserNotFound) {
						log.Debugf("user not found: %s", userIdHeader)
						http.Error(w, "user not found", http.StatusForbidden)
						return
					}
					log.Errorf("failed to get user: %v", err)
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				log.Tracef("user found: %s", u.Uid)
				ctx = user.WithUser(ctx, u)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}
