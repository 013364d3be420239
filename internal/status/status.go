package status

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/staffroomhq/staffroom-api/config"
	"github.com/staffroomhq/staffroom-api/internal/responses"
	"github.com/staffroomhq/staffroom-api/version"
)

const (
	statusOK       = "ok"
	statusNotReady = "not_ready"
)

type statusResponse map[string]interface{}

// GetStatus responds to health probes. It does not call out to the backend
// platform, it only reports whether the server is configured to reach it.
func GetStatus(w http.ResponseWriter, req *http.Request) {
	generalState := statusOK
	if config.GetSupabaseURL() == "" || config.GetServiceRoleKey() == "" {
		generalState = statusNotReady
	}

	response := statusResponse{
		"timestamp":     fmt.Sprintf("%v", time.Now().UTC()),
		"version":       version.GetDevVersion(),
		"general_state": generalState,
	}

	responses.AddJSONContentType(w)
	json.NewEncoder(w).Encode(response)
}
