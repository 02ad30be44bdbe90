package apiclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"oncology-dashboard/internal/models"
)

// TokenKeeper owns the session tokens the transport attaches and refreshes.
type TokenKeeper interface {
	Tokens() (models.TokenPair, bool)
	UpdateAccessToken(access string) error
	Logout()
}

// Refresher mints a new access token from a refresh token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*models.RefreshResponse, error)
}

// authTransport attaches the bearer token to every request and recovers
// from an expired access token by refreshing it once and replaying the
// request once. Concurrent 401s for the same token share one refresh.
type authTransport struct {
	base   http.RoundTripper
	keeper TokenKeeper
	auth   Refresher
	group  singleflight.Group
}

func newAuthTransport(base http.RoundTripper, keeper TokenKeeper, auth Refresher) *authTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &authTransport{base: base, keeper: keeper, auth: auth}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	pair, _ := t.keeper.Tokens()

	res, err := t.send(req, pair.Access)
	if err != nil || res.StatusCode != http.StatusUnauthorized {
		return res, err
	}

	if pair.Refresh == "" {
		t.keeper.Logout()
		return res, nil
	}

	access, err := t.refresh(req.Context(), pair)
	if err != nil {
		discard(res)
		return nil, err
	}
	if req.Body != nil && req.GetBody == nil {
		// the body is spent; the next request carries the new token
		return res, nil
	}
	discard(res)

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+access)
	if retry.Header.Get("X-Request-ID") == "" {
		retry.Header.Set("X-Request-ID", uuid.NewString())
	}
	return t.base.RoundTrip(retry)
}

func (t *authTransport) send(req *http.Request, access string) (*http.Response, error) {
	out := req.Clone(req.Context())
	if access != "" {
		out.Header.Set("Authorization", "Bearer "+access)
	}
	if out.Header.Get("X-Request-ID") == "" {
		out.Header.Set("X-Request-ID", uuid.NewString())
	}
	return t.base.RoundTrip(out)
}

// refresh returns an access token newer than stale.Access. If another
// request already refreshed this generation its token is reused; otherwise
// the first caller refreshes and every concurrent caller waits for it.
func (t *authTransport) refresh(ctx context.Context, stale models.TokenPair) (string, error) {
	current, ok := t.keeper.Tokens()
	if !ok {
		return "", ErrSessionExpired
	}
	if current.Access != stale.Access {
		return current.Access, nil
	}

	v, err, shared := t.group.Do(stale.Access, func() (any, error) {
		if cur, ok := t.keeper.Tokens(); ok && cur.Access != stale.Access {
			return cur.Access, nil
		}
		// one caller giving up must not cancel the refresh for the others
		res, err := t.auth.Refresh(context.WithoutCancel(ctx), stale.Refresh)
		if err == nil && (res == nil || res.Access == "") {
			err = fmt.Errorf("%w: refresh returned no access token", ErrMalformedResponse)
		}
		if err == nil {
			err = t.keeper.UpdateAccessToken(res.Access)
		}
		if err != nil {
			slog.Warn("token refresh failed, signing out", "error", err)
			t.keeper.Logout()
			return "", fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		slog.Debug("access token refreshed")
		return res.Access, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		slog.Debug("joined in-flight token refresh")
	}
	return v.(string), nil
}

func discard(res *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
	res.Body.Close()
}
