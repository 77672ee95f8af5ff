package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesadmin/internal/models"
)

var testUser = models.User{ID: 7, Username: "ana", Email: "ana@example.com"}

func TestIssuer(t *testing.T) {
	issuer := NewIssuer("test-secret", "salesadmin", "salesadmin-ui", 15*time.Minute)

	t.Run("issue and verify", func(t *testing.T) {
		raw, err := issuer.Issue(testUser)
		require.NoError(t, err)

		claims, err := issuer.Verify(raw)
		require.NoError(t, err)
		assert.Equal(t, "ana", claims.Username)
		assert.Equal(t, "ana@example.com", claims.Email)
		assert.Equal(t, 7, claims.UserID)
	})

	t.Run("registered claims", func(t *testing.T) {
		raw, err := issuer.Issue(testUser)
		require.NoError(t, err)

		parsed := &AccessClaims{}
		_, err = jwt.ParseWithClaims(raw, parsed, func(t *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)
		assert.Equal(t, "salesadmin", parsed.Issuer)
		assert.Equal(t, jwt.ClaimStrings{"salesadmin-ui"}, parsed.Audience)
		assert.NotEmpty(t, parsed.ID, "every token carries a jti")
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), parsed.ExpiresAt.Time, 2*time.Second)
	})

	t.Run("default ttl is fifteen minutes", func(t *testing.T) {
		i := NewIssuer("k", "", "", 0)
		raw, err := i.Issue(testUser)
		require.NoError(t, err)

		parsed := &AccessClaims{}
		_, err = jwt.ParseWithClaims(raw, parsed, func(t *jwt.Token) (interface{}, error) {
			return []byte("k"), nil
		})
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), parsed.ExpiresAt.Time, 2*time.Second)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		short := NewIssuer("test-secret", "salesadmin", "salesadmin-ui", time.Nanosecond)
		raw, err := short.Issue(testUser)
		require.NoError(t, err)

		_, err = short.Verify(raw)
		assert.Error(t, err)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		raw, err := issuer.Issue(testUser)
		require.NoError(t, err)

		other := NewIssuer("other-secret", "salesadmin", "salesadmin-ui", 15*time.Minute)
		_, err = other.Verify(raw)
		assert.Error(t, err)
	})

	t.Run("non-HS256 signature rejected", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{
			"sub": "ana",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		raw, err := tok.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = issuer.Verify(raw)
		assert.Error(t, err)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := issuer.Verify("not.a.token")
		assert.Error(t, err)
	})
}
