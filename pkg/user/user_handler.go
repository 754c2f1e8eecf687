package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/klokku/ledger/internal/rest"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	Uid         string      `json:"uid"`
	Username    string      `json:"username"`
	DisplayName string      `json:"displayName"`
	Settings    SettingsDTO `json:"settings"`
}

type SettingsDTO struct {
	Timezone               string `json:"timezone"`
	DefaultHourlyRateCents *int64 `json:"defaultHourlyRateCents"`
}

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{userService: userService}
}

// CreateUser godoc
// @Summary Create a new user
// @Tags User
// @Accept json
// @Produce json
// @Param user body UserDTO true "User"
// @Success 201 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/user [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating user")

	var dto UserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	if dto.Uid == "" || dto.Username == "" {
		rest.WriteError(w, http.StatusBadRequest, "Uid and username are required", "")
		return
	}
	if dto.DisplayName == "" {
		dto.DisplayName = dto.Username
	}

	created, err := h.userService.CreateUser(r.Context(), dtoToUser(dto))
	if err != nil {
		if errors.Is(err, ErrUserDataInvalid) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid user data", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Tracef("Created user: %+v", created)
	rest.WriteJSON(w, http.StatusCreated, userToDTO(created))
}

// CurrentUser godoc
// @Summary Get current user
// @Tags User
// @Produce json
// @Success 200 {object} UserDTO
// @Failure 403 {string} string "User not found"
// @Router /api/user/current [get]
// @Security XUserId
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	current, err := h.userService.GetCurrentUser(r.Context())
	if err != nil {
		writeUserError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, userToDTO(current))
}

// UpdateSettings godoc
// @Summary Update current user settings
// @Tags User
// @Accept json
// @Produce json
// @Param settings body SettingsDTO true "Settings"
// @Success 200 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/user/current/settings [put]
// @Security XUserId
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	updated, err := h.userService.UpdateCurrentUserSettings(r.Context(), Settings{
		Timezone:               dto.Timezone,
		DefaultHourlyRateCents: dto.DefaultHourlyRateCents,
	})
	if err != nil {
		if errors.Is(err, ErrUserDataInvalid) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid settings", err.Error())
			return
		}
		writeUserError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, userToDTO(updated))
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoUser):
		http.Error(w, "user not found", http.StatusForbidden)
	case errors.Is(err, ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func dtoToUser(dto UserDTO) User {
	return User{
		Uid:         dto.Uid,
		Username:    dto.Username,
		DisplayName: dto.DisplayName,
		Settings: Settings{
			Timezone:               dto.Settings.Timezone,
			DefaultHourlyRateCents: dto.Settings.DefaultHourlyRateCents,
		},
	}
}

func userToDTO(u User) UserDTO {
	return UserDTO{
		Uid:         u.Uid,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Settings: SettingsDTO{
			Timezone:               u.Settings.Timezone,
			DefaultHourlyRateCents: u.Settings.DefaultHourlyRateCents,
		},
	}
}
