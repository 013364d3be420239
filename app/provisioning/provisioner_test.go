package provisioning

import (
	"context"
	"testing"

	"github.com/staffroomhq/staffroom-api/pkg/gotrue"
	"github.com/staffroomhq/staffroom-api/pkg/postgrest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentity struct {
	user      *gotrue.User
	createErr error
	deleteErr error

	createCalls int
	deleteCalls int
	deletedIDs  []string
}

func (f *fakeIdentity) CreateUser(_ context.Context, params gotrue.CreateUserParams) (*gotrue.User, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.user, nil
}

func (f *fakeIdentity) DeleteUser(_ context.Context, id string) error {
	f.deleteCalls++
	f.deletedIDs = append(f.deletedIDs, id)
	return f.deleteErr
}

type fakeProfiles struct {
	insertErr error

	insertCalls int
	lastTable   string
	lastRecord  Profile
}

func (f *fakeProfiles) Insert(_ context.Context, table string, record interface{}, into interface{}) error {
	f.insertCalls++
	f.lastTable = table
	f.lastRecord = record.(Profile)
	if f.insertErr != nil {
		return f.insertErr
	}
	if p, ok := into.(*Profile); ok {
		*p = f.lastRecord
	}
	return nil
}

func validRequest() *CreateAccountRequest {
	return &CreateAccountRequest{
		Email:    "a@b.com",
		Password: "secret123",
		NIP:      "001",
		FullName: "A B",
	}
}

func TestCreateAccountValidation(t *testing.T) {
	cases := []struct {
		name   string
		mangle func(*CreateAccountRequest)
	}{
		{"missing email", func(r *CreateAccountRequest) { r.Email = "" }},
		{"missing password", func(r *CreateAccountRequest) { r.Password = "" }},
		{"missing nip", func(r *CreateAccountRequest) { r.NIP = "" }},
		{"missing full name", func(r *CreateAccountRequest) { r.FullName = "" }},
	}
	for _, cs := range cases {
		t.Run(cs.name, func(t *testing.T) {
			identity := &fakeIdentity{}
			profiles := &fakeProfiles{}
			p := NewProvisioner(identity, profiles)

			req := validRequest()
			cs.mangle(req)
			result, err := p.CreateAccount(context.Background(), req)

			require.Error(t, err)
			assert.Nil(t, result)

			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, MissingFieldsMessage, perr.Summary)
			assert.Empty(t, perr.Details)

			assert.Zero(t, identity.createCalls)
			assert.Zero(t, profiles.insertCalls)
		})
	}
}

func TestCreateAccountSuccess(t *testing.T) {
	identity := &fakeIdentity{user: &gotrue.User{ID: "u1", Email: "a@b.com"}}
	profiles := &fakeProfiles{}
	p := NewProvisioner(identity, profiles)

	result, err := p.CreateAccount(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "u1", result.User.ID)
	assert.Equal(t, result.User.ID, result.Profile.ID)
	assert.Equal(t, "001", result.Profile.NIP)
	assert.Equal(t, "A B", result.Profile.FullName)
	assert.Equal(t, RoleGuru, result.Profile.Role)

	assert.Equal(t, 1, identity.createCalls)
	assert.Equal(t, 1, profiles.insertCalls)
	assert.Equal(t, ProfilesTable, profiles.lastTable)
	assert.Zero(t, identity.deleteCalls)
}

func TestCreateAccountNumericDefaults(t *testing.T) {
	identity := &fakeIdentity{user: &gotrue.User{ID: "u1"}}
	profiles := &fakeProfiles{}
	p := NewProvisioner(identity, profiles)

	result, err := p.CreateAccount(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Zero(t, result.Profile.BaseSalary)
	assert.Zero(t, result.Profile.HourlyRate)
	assert.Zero(t, result.Profile.PresenceRate)
}

func TestCreateAccountIdentityRejected(t *testing.T) {
	identity := &fakeIdentity{
		createErr: &gotrue.APIError{Code: 422, Message: "User already registered"},
	}
	profiles := &fakeProfiles{}
	p := NewProvisioner(identity, profiles)

	_, err := p.CreateAccount(context.Background(), validRequest())
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, IdentityFailureMessage, perr.Summary)
	assert.Equal(t, "User already registered", perr.Details)

	assert.Zero(t, profiles.insertCalls)
	assert.Zero(t, identity.deleteCalls)
}

func TestCreateAccountIdentityEmpty(t *testing.T) {
	identity := &fakeIdentity{user: &gotrue.User{}}
	profiles := &fakeProfiles{}
	p := NewProvisioner(identity, profiles)

	_, err := p.CreateAccount(context.Background(), validRequest())
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, IdentityFailureMessage, perr.Summary)
	assert.Zero(t, profiles.insertCalls)
}

func TestCreateAccountProfileRejectedRollsBackIdentity(t *testing.T) {
	identity := &fakeIdentity{user: &gotrue.User{ID: "u1"}}
	profiles := &fakeProfiles{
		insertErr: &postgrest.APIError{Code: 409, Message: `duplicate key value violates unique constraint "profiles_nip_key"`},
	}
	p := NewProvisioner(identity, profiles)

	_, err := p.CreateAccount(context.Background(), validRequest())
	require.Error(t, err)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ProfileFailureMessage, perr.Summary)
	assert.Contains(t, perr.Details, "duplicate key value")

	require.Equal(t, 1, identity.deleteCalls)
	assert.Equal(t, []string{"u1"}, identity.deletedIDs)
}

func TestCreateAccountRollbackFailureNotSurfaced(t *testing.T) {
	identity := &fakeIdentity{
		user:      &gotrue.User{ID: "u1"},
		deleteErr: &gotrue.APIError{Code: 500, Message: "boom"},
	}
	profiles := &fakeProfiles{insertErr: &postgrest.APIError{Code: 503, Message: "unavailable"}}
	p := NewProvisioner(identity, profiles)

	_, err := p.CreateAccount(context.Background(), validRequest())
	require.Error(t, err)

	// the caller only ever learns about the profile failure
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ProfileFailureMessage, perr.Summary)
	assert.Equal(t, "unavailable", perr.Details)
	assert.Equal(t, 1, identity.deleteCalls)
}
