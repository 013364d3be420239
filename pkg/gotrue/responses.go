package gotrue

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CreateUserParams is the payload for the admin create user call.
type CreateUserParams struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	EmailConfirm bool   `json:"email_confirm"`
}

// User is an identity record as the identity service returns it. The password
// is write-only and never comes back.
type User struct {
	ID               string                 `json:"id"`
	Aud              string                 `json:"aud,omitempty"`
	Role             string                 `json:"role,omitempty"`
	Email            string                 `json:"email"`
	Phone            string                 `json:"phone,omitempty"`
	EmailConfirmedAt *time.Time             `json:"email_confirmed_at,omitempty"`
	AppMetadata      map[string]interface{} `json:"app_metadata,omitempty"`
	UserMetadata     map[string]interface{} `json:"user_metadata,omitempty"`
	CreatedAt        *time.Time             `json:"created_at,omitempty"`
	UpdatedAt        *time.Time             `json:"updated_at,omitempty"`
}

// APIError is a rejection coming from the identity service itself, as opposed
// to a transport failure.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity service error (%v): %s", e.Code, e.Message)
}

// errorBody covers the shapes GoTrue uses for error responses across versions.
type errorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return apiErr
	}
	for _, m := range []string{body.Msg, body.Message, body.ErrorDescription} {
		if m != "" {
			apiErr.Message = m
			break
		}
	}
	return apiErr
}
