package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/luhncheck/internal/apperrors"
	"github.com/nkiryanov/luhncheck/internal/models"
)

// In memory refresh token store with the same semantics as the postgres one
type memStore struct {
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
}

func newMemStore() *memStore {
	return &memStore{tokens: make(map[string]models.RefreshToken)}
}

func (s *memStore) SaveRefreshToken(_ context.Context, token models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Digest] = token
	return nil
}

func (s *memStore) UseRefreshToken(_ context.Context, digest string, at time.Time) (models.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[digest]
	switch {
	case !ok:
		return token, apperrors.ErrRefreshTokenNotFound
	case token.UsedAt != nil:
		return token, apperrors.ErrRefreshTokenIsUsed
	}

	token.UsedAt = &at
	s.tokens[digest] = token
	return token, nil
}

func TestIssuer(t *testing.T) {
	user := models.User{ID: uuid.New(), Login: "alice"}
	start := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	newIssuer := func(t *testing.T) (*Issuer, *memStore, *time.Time) {
		store := newMemStore()
		i, err := NewIssuer(Config{SecretKey: "secret"}, store)
		require.NoError(t, err)

		clock := start
		i.now = func() time.Time { return clock }
		return i, store, &clock
	}

	t.Run("config", func(t *testing.T) {
		_, err := NewIssuer(Config{}, newMemStore())
		require.Error(t, err, "secret key is required")

		i, err := NewIssuer(Config{SecretKey: "secret"}, newMemStore())
		require.NoError(t, err)
		require.Equal(t, DefaultAccessTTL, i.accessTTL)
		require.Equal(t, DefaultRefreshTTL, i.refreshTTL)
	})

	t.Run("issue", func(t *testing.T) {
		i, store, _ := newIssuer(t)

		s, err := i.Issue(t.Context(), user)

		require.NoError(t, err)
		require.Equal(t, "alice", s.Login)
		require.Equal(t, start.Add(DefaultAccessTTL), s.Access.ExpiresAt)
		require.Equal(t, start.Add(DefaultRefreshTTL), s.Refresh.ExpiresAt)

		saved, ok := store.tokens[Digest(s.Refresh.Value)]
		require.True(t, ok, "refresh token must be stored by digest")
		require.Equal(t, user.ID, saved.UserID)
		require.NotContains(t, store.tokens, s.Refresh.Value, "refresh token itself must not be stored")
	})

	t.Run("every session differs", func(t *testing.T) {
		i, _, _ := newIssuer(t)

		first, err := i.Issue(t.Context(), user)
		require.NoError(t, err)
		second, err := i.Issue(t.Context(), user)
		require.NoError(t, err)

		require.NotEqual(t, first.Access.Value, second.Access.Value)
		require.NotEqual(t, first.Refresh.Value, second.Refresh.Value)
	})

	t.Run("verify", func(t *testing.T) {
		i, _, clock := newIssuer(t)
		s, err := i.Issue(t.Context(), user)
		require.NoError(t, err)

		got, err := i.Verify(s.Access.Value)
		require.NoError(t, err)
		require.Equal(t, models.User{ID: user.ID, Login: "alice"}, got)

		*clock = start.Add(DefaultAccessTTL + time.Second)
		_, err = i.Verify(s.Access.Value)
		require.ErrorIs(t, err, apperrors.ErrUnauthorized, "expired token")
	})

	t.Run("verify rejects foreign tokens", func(t *testing.T) {
		i, _, _ := newIssuer(t)
		sign := func(method jwt.SigningMethod, key any, c claims) string {
			v, err := jwt.NewWithClaims(method, c).SignedString(key)
			require.NoError(t, err)
			return v
		}
		valid := claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				Subject:   user.ID.String(),
				ExpiresAt: jwt.NewNumericDate(start.Add(time.Hour)),
			},
			Login: "alice",
		}
		noExpiry := valid
		noExpiry.ExpiresAt = nil
		otherIssuer := valid
		otherIssuer.Issuer = "someone"
		badSubject := valid
		badSubject.Subject = "alice"

		tokens := map[string]string{
			"garbage":       "not.a.token",
			"other key":     sign(signingMethod, []byte("other"), valid),
			"alg none":      sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid),
			"other alg":     sign(jwt.SigningMethodHS512, []byte("secret"), valid),
			"no expiration": sign(signingMethod, []byte("secret"), noExpiry),
			"other issuer":  sign(signingMethod, []byte("secret"), otherIssuer),
			"bad subject":   sign(signingMethod, []byte("secret"), badSubject),
		}

		for name, token := range tokens {
			t.Run(name, func(t *testing.T) {
				_, err := i.Verify(token)

				require.ErrorIs(t, err, apperrors.ErrUnauthorized)
			})
		}
	})

	t.Run("redeem once", func(t *testing.T) {
		i, _, _ := newIssuer(t)
		s, err := i.Issue(t.Context(), user)
		require.NoError(t, err)

		owner, err := i.Redeem(t.Context(), s.Refresh.Value)
		require.NoError(t, err)
		require.Equal(t, user.ID, owner)

		_, err = i.Redeem(t.Context(), s.Refresh.Value)
		require.ErrorIs(t, err, apperrors.ErrRefreshTokenIsUsed)
	})

	t.Run("redeem expired", func(t *testing.T) {
		i, _, clock := newIssuer(t)
		s, err := i.Issue(t.Context(), user)
		require.NoError(t, err)

		*clock = s.Refresh.ExpiresAt

		_, err = i.Redeem(t.Context(), s.Refresh.Value)
		require.ErrorIs(t, err, apperrors.ErrRefreshTokenExpired)
	})

	t.Run("redeem unknown", func(t *testing.T) {
		i, _, _ := newIssuer(t)

		_, err := i.Redeem(t.Context(), "unknown")

		require.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
	})
}
