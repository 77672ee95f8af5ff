package auth

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefreshToken(t *testing.T) {
	t.Run("opaque and long", func(t *testing.T) {
		tok, err := NewRefreshToken()
		require.NoError(t, err)
		// 64 random bytes base64-encoded
		assert.Len(t, tok, 88)
	})

	t.Run("no collisions", func(t *testing.T) {
		seen := map[string]bool{}
		for i := 0; i < 100; i++ {
			tok, err := NewRefreshToken()
			require.NoError(t, err)
			assert.False(t, seen[tok])
			seen[tok] = true
		}
	})
}

func TestRegistry(t *testing.T) {
	t.Run("validate stored token", func(t *testing.T) {
		r := NewRegistry()
		r.Save("ana", "tok-1")

		assert.True(t, r.Validate("ana", "tok-1"))
		assert.False(t, r.Validate("ana", "tok-2"))
		assert.False(t, r.Validate("bob", "tok-1"), "no record means invalid")
	})

	t.Run("save overwrites the previous token", func(t *testing.T) {
		r := NewRegistry()
		r.Save("ana", "tok-1")
		r.Save("ana", "tok-2")

		assert.False(t, r.Validate("ana", "tok-1"), "superseded token is dead immediately")
		assert.True(t, r.Validate("ana", "tok-2"))
	})

	t.Run("concurrent upsert and read", func(t *testing.T) {
		r := NewRegistry()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				r.Save("ana", "tok")
			}()
			go func() {
				defer wg.Done()
				r.Validate("ana", "tok")
			}()
		}
		wg.Wait()
		assert.True(t, r.Validate("ana", "tok"))
	})
}
