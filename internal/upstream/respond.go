package upstream

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wastewise/wastewise-console/internal/platform/httpx"
	"github.com/wastewise/wastewise-console/internal/shared"
)

// RespondError gives every handler the same failure interpretation: an
// invalid session clears the principal and sends the caller to login
// exactly once; an upstream rejection is relayed with its message; anything
// else (transport failure included) reads as the upstream being
// unreachable. Nothing here is retried.
func RespondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if errors.Is(err, shared.ErrSessionInvalid) {
		shared.EndSession(w, r)
		return
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		status := http.StatusBadGateway
		if statusErr.Status >= 400 && statusErr.Status < 500 {
			status = statusErr.Status
		}
		httpx.Problem(w, status, "Upstream Rejected", statusErr.Message)
		return
	}
	if logger != nil {
		logger.Error("upstream call failed", slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.Problem(w, http.StatusBadGateway, "Upstream Unavailable", "the waste-management service could not be reached")
}
