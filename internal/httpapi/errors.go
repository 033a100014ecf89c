package httpapi

import (
	"errors"
	"net/http"

	"github.com/user/district-runner/internal/character"
	"github.com/user/district-runner/internal/game"
	"github.com/user/district-runner/internal/mission"
	"github.com/user/district-runner/internal/scene"
	"github.com/user/district-runner/internal/types"
)

var errInvalidRequest = errors.New("invalid request")

// statusRule maps a sentinel error to an HTTP status
type statusRule struct {
	err    error
	status int
}

var statusRules = []statusRule{
	{errInvalidRequest, http.StatusBadRequest},
	{types.ErrUnknownEnum, http.StatusBadRequest},

	{game.ErrRunNotFound, http.StatusNotFound},
	{game.ErrItemNotFound, http.StatusNotFound},
	{mission.ErrMissionNotFound, http.StatusNotFound},
	{scene.ErrOptionNotFound, http.StatusNotFound},
	{scene.ErrSceneNotFound, http.StatusNotFound},

	{scene.ErrOptionHidden, http.StatusForbidden},
	{character.ErrInsufficientCredits, http.StatusPaymentRequired},

	{game.ErrNoActiveMission, http.StatusConflict},
	{game.ErrMissionInProgress, http.StatusConflict},
	{game.ErrItemOwned, http.StatusConflict},
	{mission.ErrMissionAlreadyAccepted, http.StatusConflict},
	{mission.ErrMissionAlreadyCompleted, http.StatusConflict},
	{mission.ErrMissionNotAccepted, http.StatusConflict},
	{scene.ErrNoActiveScene, http.StatusConflict},
	{scene.ErrAdvanceNeedsChoice, http.StatusConflict},

	{mission.ErrMissionNotEligible, http.StatusUnprocessableEntity},
	{scene.ErrSceneLocked, http.StatusUnprocessableEntity},
	{game.ErrSnapshotVersion, http.StatusUnprocessableEntity},

	{game.ErrStorageDisabled, http.StatusNotImplemented},
}

// statusFor returns the HTTP status for an error returned by the game manager
func statusFor(err error) int {
	for _, rule := range statusRules {
		if errors.Is(err, rule.err) {
			return rule.status
		}
	}
	return http.StatusInternalServerError
}
