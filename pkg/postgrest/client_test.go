package postgrest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileRow struct {
	ID       string `json:"id"`
	NIP      string `json:"nip"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func TestNewClientRequiredOptions(t *testing.T) {
	_, err := NewClient()
	assert.EqualError(t, err, "data service address required")

	_, err = NewClient(WithServer("http://localhost:9999"))
	assert.EqualError(t, err, "data service key required")
}

func TestInsertReturnsRepresentation(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		var row profileRow
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&row))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(row)
	}))
	defer srv.Close()

	c, err := NewClient(WithServer(srv.URL), WithServiceKey("service-key"))
	require.NoError(t, err)

	var inserted profileRow
	err = c.Insert(context.Background(), "profiles",
		profileRow{ID: "u1", NIP: "001", FullName: "A B", Role: "guru"}, &inserted)
	require.NoError(t, err)

	assert.Equal(t, "u1", inserted.ID)
	assert.Equal(t, "guru", inserted.Role)

	assert.Equal(t, http.MethodPost, gotReq.Method)
	assert.Equal(t, "/rest/v1/profiles", gotReq.URL.Path)
	assert.Equal(t, "return=representation", gotReq.Header.Get("Prefer"))
	assert.Equal(t, "application/vnd.pgrst.object+json", gotReq.Header.Get("Accept"))
	assert.Equal(t, "service-key", gotReq.Header.Get("apikey"))
	assert.Equal(t, "Bearer service-key", gotReq.Header.Get("Authorization"))
}

func TestInsertNilTarget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "u1"}`))
	}))
	defer srv.Close()

	c, err := NewClient(WithServer(srv.URL), WithServiceKey("service-key"))
	require.NoError(t, err)

	require.NoError(t, c.Insert(context.Background(), "profiles", profileRow{ID: "u1"}, nil))
}

func TestInsertRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code": "23505", "message": "duplicate key value violates unique constraint \"profiles_pkey\"", "details": "Key (id)=(u1) already exists."}`))
	}))
	defer srv.Close()

	c, err := NewClient(WithServer(srv.URL), WithServiceKey("service-key"))
	require.NoError(t, err)

	err = c.Insert(context.Background(), "profiles", profileRow{ID: "u1"}, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Code)
	assert.Contains(t, apiErr.Message, "duplicate key value")
	assert.Contains(t, apiErr.Details, "already exists")
}
