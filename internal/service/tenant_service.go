package service

import (
	"context"
	"fmt"

	"github.com/geobase-api/internal/apperror"
	"github.com/geobase-api/internal/auth"
	"github.com/geobase-api/internal/models"
	"github.com/geobase-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// tenantService is the concrete implementation of TenantService
type tenantService struct {
	repos    *repository.Repositories
	notifier Notifier
	log      zerolog.Logger
}

// newTenantService creates a new TenantService
func newTenantService(repos *repository.Repositories, notifier Notifier, log zerolog.Logger) *tenantService {
	return &tenantService{
		repos:    repos,
		notifier: notifier,
		log:      log.With().Str("service", "tenant").Logger(),
	}
}

// Resolve returns the user record for an authenticated identity,
// guaranteed to reference a client. First-time identities get a fresh
// client and user row; returning identities get an opportunistic
// email/name refresh that never fails the request.
func (s *tenantService) Resolve(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	if identity == nil || identity.Subject == "" {
		return nil, apperror.Unauthenticated()
	}

	email := identity.Email
	if email == "" {
		// The provider can withhold the email address
		email = fmt.Sprintf("user-%s@temp.local", identity.Subject)
	}

	user, err := s.repos.User.GetByExternalID(ctx, identity.Subject)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if user == nil {
		return s.register(ctx, identity, email)
	}

	// Refresh profile fields if the provider reports a change. A write
	// conflict here keeps the stored values rather than failing the call.
	if user.Email != email || user.Name != identity.Name {
		if err := s.repos.User.UpdateProfile(ctx, user.ID, email, identity.Name); err != nil {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("Profile refresh failed, keeping stored values")
		} else {
			user.Email = email
			user.Name = identity.Name
		}
	}

	return user, nil
}

// register creates the client and user rows for a first-time identity.
// This is the only path that creates a client.
func (s *tenantService) register(ctx context.Context, identity *auth.Identity, email string) (*models.User, error) {
	slug := clientSlug(identity.Subject)
	if taken, err := s.repos.Client.SlugExists(ctx, slug); err != nil {
		return nil, fmt.Errorf("checking client slug: %w", err)
	} else if taken {
		slug = "client-" + uuid.New().String()[:8]
	}

	client := &models.Client{
		ID:   uuid.New().String(),
		Name: models.DefaultClientName,
		Slug: slug,
	}

	if err := s.repos.Client.Create(ctx, client); err != nil {
		if !repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("creating client: %w", err)
		}
		// The pre-check raced a concurrent insert; retry once with a
		// random suffix
		client.Slug = "client-" + uuid.New().String()[:8]
		if err := s.repos.Client.Create(ctx, client); err != nil {
			return nil, fmt.Errorf("creating client: %w", err)
		}
	}

	user := &models.User{
		ID:         uuid.New().String(),
		ExternalID: identity.Subject,
		Email:      email,
		Name:       identity.Name,
		ClientID:   client.ID,
	}

	if err := s.repos.User.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			// A concurrent first request won the race; use its row
			existing, lookupErr := s.repos.User.GetByExternalID(ctx, identity.Subject)
			if lookupErr != nil || existing == nil {
				return nil, fmt.Errorf("creating user: %w", err)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("client_id", client.ID).
		Msg("Registered new user and client")
	s.notifier.NewUser(email, identity.Name)

	return user, nil
}

// clientSlug derives the initial slug from the identity subject
func clientSlug(subject string) string {
	if len(subject) > 8 {
		subject = subject[:8]
	}
	return "client-" + subject
}
