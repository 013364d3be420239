// Package provisioning creates staff accounts against the backend platform:
// an identity record through the identity service admin API, then a linked
// profile row through the data service. When the profile insert fails after
// the identity was already created, the identity is deleted again so that no
// profile-less account survives the request.
package provisioning

import (
	"context"
	"errors"

	"github.com/staffroomhq/staffroom-api/internal/metrics"
	"github.com/staffroomhq/staffroom-api/internal/monitor"
	"github.com/staffroomhq/staffroom-api/pkg/gotrue"
	"github.com/staffroomhq/staffroom-api/pkg/postgrest"

	"github.com/sirupsen/logrus"
)

var logger = monitor.NewModuleLogger("provisioning")

// Client-visible failure summaries. Kept stable since frontends match on them.
const (
	MissingFieldsMessage   = "missing required fields: email, password, nip, full_name"
	IdentityFailureMessage = "failed to create user"
	ProfileFailureMessage  = "failed to create profile"
)

// IdentityService is the administrative surface of the identity provider
// needed for provisioning.
type IdentityService interface {
	CreateUser(ctx context.Context, params gotrue.CreateUserParams) (*gotrue.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// ProfileStore is the single-row insert surface of the data service.
type ProfileStore interface {
	Insert(ctx context.Context, table string, record interface{}, into interface{}) error
}

// Error is a provisioning failure the caller may see. Anything else coming
// out of CreateAccount is an internal fault.
type Error struct {
	Summary string
	Details string
}

func (e *Error) Error() string {
	if e.Details == "" {
		return e.Summary
	}
	return e.Summary + ": " + e.Details
}

// Provisioner runs the two-phase account creation flow.
type Provisioner struct {
	identity IdentityService
	profiles ProfileStore
}

func NewProvisioner(identity IdentityService, profiles ProfileStore) *Provisioner {
	return &Provisioner{identity: identity, profiles: profiles}
}

// CreateAccount validates the request, creates the identity record and then
// the profile row. The two remote calls are strictly sequential and each is
// attempted exactly once; there is no transaction spanning them. If the
// profile insert fails, the freshly created identity is deleted on a
// best-effort basis and the insert failure is what the caller gets back.
func (p *Provisioner) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*AccountCreated, error) {
	if req.Email == "" || req.Password == "" || req.NIP == "" || req.FullName == "" {
		metrics.ProvisioningFailures.WithLabelValues(metrics.StageValidation).Inc()
		return nil, &Error{Summary: MissingFieldsMessage}
	}

	log := logger.WithFields(logrus.Fields{"email": req.Email, "nip": req.NIP})

	user, err := p.identity.CreateUser(ctx, gotrue.CreateUserParams{
		Email:        req.Email,
		Password:     req.Password,
		EmailConfirm: true,
	})
	if err != nil {
		metrics.ProvisioningFailures.WithLabelValues(metrics.StageIdentity).Inc()
		log.WithError(err).Info("identity creation rejected")
		return nil, &Error{Summary: IdentityFailureMessage, Details: errDetails(err)}
	}
	if user == nil || user.ID == "" {
		metrics.ProvisioningFailures.WithLabelValues(metrics.StageIdentity).Inc()
		log.Error("identity service returned no user")
		return nil, &Error{Summary: IdentityFailureMessage, Details: "identity service returned no user"}
	}

	record := Profile{
		ID:           user.ID,
		NIP:          req.NIP,
		FullName:     req.FullName,
		Role:         RoleGuru,
		BaseSalary:   req.BaseSalary,
		HourlyRate:   req.HourlyRate,
		PresenceRate: req.PresenceRate,
	}
	var inserted Profile
	if err := p.profiles.Insert(ctx, ProfilesTable, record, &inserted); err != nil {
		metrics.ProvisioningFailures.WithLabelValues(metrics.StageProfile).Inc()
		log.WithError(err).Info("profile insert rejected, rolling back identity")
		p.rollbackIdentity(ctx, user.ID)
		return nil, &Error{Summary: ProfileFailureMessage, Details: errDetails(err)}
	}

	metrics.ProvisioningSuccesses.Inc()
	log.WithFields(logrus.Fields{"user_id": user.ID}).Info("account provisioned")
	return &AccountCreated{Success: true, User: user, Profile: &inserted}, nil
}

// rollbackIdentity deletes an identity record that ended up without a profile.
// The outcome does not influence the response; a failed delete leaves an
// orphaned identity behind, which is only logged and reported.
func (p *Provisioner) rollbackIdentity(ctx context.Context, id string) {
	if err := p.identity.DeleteUser(ctx, id); err != nil {
		metrics.ProvisioningFailures.WithLabelValues(metrics.StageRollback).Inc()
		logger.WithFields(logrus.Fields{"user_id": id}).WithError(err).Error("identity rollback failed, orphaned identity left behind")
		monitor.ErrorToSentry(err, map[string]string{"user_id": id})
	}
}

// errDetails extracts the message a remote service rejected the call with,
// falling back to the whole error text for transport-level failures.
func errDetails(err error) string {
	var gtErr *gotrue.APIError
	if errors.As(err, &gtErr) {
		return gtErr.Message
	}
	var pgErr *postgrest.APIError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}
