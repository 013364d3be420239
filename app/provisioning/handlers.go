package provisioning

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/staffroomhq/staffroom-api/internal/monitor"
	"github.com/staffroomhq/staffroom-api/internal/responses"
)

const internalErrorMessage = "internal server error"

// Handler exposes account provisioning over HTTP. It owns no state besides
// the provisioner, which is injected so tests can run it against fakes
// without touching global config.
type Handler struct {
	provisioner *Provisioner
}

func NewHandler(p *Provisioner) *Handler {
	return &Handler{provisioner: p}
}

// CreateAccount is the POST handler for account provisioning. Provisioning
// failures come back as 400 with the failure summary and the remote service's
// message; a body that cannot be decoded at all is a 500.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		monitor.ErrorToSentry(err)
		responses.WriteError(w, http.StatusInternalServerError, internalErrorMessage, err.Error())
		return
	}

	result, err := h.provisioner.CreateAccount(r.Context(), &req)
	if err != nil {
		var perr *Error
		if errors.As(err, &perr) {
			responses.WriteError(w, http.StatusBadRequest, perr.Summary, perr.Details)
			return
		}
		monitor.ErrorToSentry(err)
		responses.WriteError(w, http.StatusInternalServerError, internalErrorMessage, err.Error())
		return
	}

	responses.WriteJSON(w, http.StatusOK, result)
}
