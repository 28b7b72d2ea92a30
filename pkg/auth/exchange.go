package auth

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/y0ug/linkedauth/pkg/linkedin"
)

// UserUID derives the internal identifier for a LinkedIn member. The
// mapping depends only on the provider's immutable member id, never on
// mutable profile attributes.
func UserUID(providerUserID string) string {
	return "linkedin:" + providerUserID
}

// Exchange runs the callback side of the login flow: it verifies the CSRF
// state, trades the authorization code for an access token, gathers the
// member's profile and email, provisions the local identity, and mints
// the session credential.
//
// The state check happens before any outbound call; a mismatch or a
// missing expectedState fails with ErrStateMismatch. Profile and email
// have no data dependency on each other and are fetched in parallel, but
// both complete before provisioning begins.
func (h *Handler) Exchange(ctx context.Context, code, state, expectedState string) (*UserRecord, string, error) {
	if expectedState == "" || state != expectedState {
		return nil, "", ErrStateMismatch
	}

	accessToken, err := h.LinkedIn.ExchangeCode(ctx, code, state)
	if err != nil {
		return nil, "", err
	}

	var (
		profile *linkedin.Profile
		email   string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = h.LinkedIn.Profile(gctx, accessToken)
		return err
	})
	g.Go(func() error {
		var err error
		email, err = h.LinkedIn.Email(gctx, accessToken)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	user := projectUser(profile, email)

	created, err := h.provision(ctx, user, accessToken)
	if err != nil {
		return nil, "", err
	}

	customToken, err := mintCustomToken(user.UID, h.Config)
	if err != nil {
		return nil, "", &ProvisioningError{Op: "mint custom token", Err: err}
	}

	if created && h.Notifier != nil {
		go h.Notifier.Send("New LinkedIn sign-in",
			fmt.Sprintf("Provisioned %s (%s)", user.UID, user.DisplayName))
	}

	return &user, customToken, nil
}

// projectUser flattens the provider data into the local identity record.
// An absent profile leaves the profile fields empty rather than failing
// the login; an absent email stays the empty string.
func projectUser(profile *linkedin.Profile, email string) UserRecord {
	user := UserRecord{
		UID:           UserUID(""),
		Email:         email,
		EmailVerified: true,
	}
	if profile != nil {
		user.UID = UserUID(profile.ID)
		user.DisplayName = profile.DisplayName()
		user.PhotoURL = profile.PictureURL
	}
	return user
}

// provision upserts the identity record and persists the provider access
// token. Both writes are issued concurrently and both must succeed before
// the session credential is minted.
func (h *Handler) provision(ctx context.Context, user UserRecord, accessToken string) (bool, error) {
	var created bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		created, err = h.Database.UpsertUser(gctx, user)
		if err != nil {
			return &ProvisioningError{Op: "upsert user", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		if err := h.Database.StoreAccessToken(gctx, user.UID, accessToken); err != nil {
			return &ProvisioningError{Op: "store access token", Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return false, err
	}
	return created, nil
}
