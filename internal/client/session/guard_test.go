package session

import (
	"testing"

	"github.com/certapply/certapply/internal/client/models"
	"github.com/stretchr/testify/assert"
)

func principalWith(role models.Role) *models.Principal {
	return &models.Principal{ID: 1, DisplayName: "tester", Role: role, Credential: "tok"}
}

func TestAuthorize(t *testing.T) {
	allRoles := []models.Role{models.RoleApplicant, models.RoleReviewer, models.RoleAdmin}

	t.Run("no principal always redirects to login", func(t *testing.T) {
		assert.Equal(t, RedirectLogin, Authorize(nil))
		for _, r := range allRoles {
			assert.Equal(t, RedirectLogin, Authorize(nil, r))
		}
		assert.Equal(t, RedirectLogin, Authorize(nil, allRoles...))
	})

	t.Run("role outside the required set redirects home", func(t *testing.T) {
		for _, have := range allRoles {
			for _, want := range allRoles {
				if have == want {
					continue
				}
				assert.Equal(t, RedirectHome, Authorize(principalWith(have), want),
					"have %s want %s", have, want)
			}
		}
	})

	t.Run("role inside the required set allows", func(t *testing.T) {
		for _, r := range allRoles {
			assert.Equal(t, Allow, Authorize(principalWith(r), r))
			assert.Equal(t, Allow, Authorize(principalWith(r), allRoles...))
		}
	})

	t.Run("empty required set allows any authenticated principal", func(t *testing.T) {
		for _, r := range allRoles {
			assert.Equal(t, Allow, Authorize(principalWith(r)))
		}
	})
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "redirect-login", RedirectLogin.String())
	assert.Equal(t, "redirect-home", RedirectHome.String())
}
