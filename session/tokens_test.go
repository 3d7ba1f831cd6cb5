package session_test

import (
	"os"
	"testing"
	"time"

	"venuedesk/authority"
	"venuedesk/session"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/gomega"
)

func setupSecret(t *testing.T, secret string) {
	old := os.Getenv("AUTH_SECRET")
	os.Setenv("AUTH_SECRET", secret)
	session.ResetSecret()
	t.Cleanup(func() {
		os.Setenv("AUTH_SECRET", old)
		session.ResetSecret()
	})
}

func TestSignAndParseToken(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should round-trip identity, scope and permissions", func(t *testing.T) {
		setupSecret(t, "test-secret")

		sec := session.Session{
			Identity: session.Identity{ID: 100, Name: "ann", Email: "ann@test.com"},
			Kind:     authority.KindVendorStaff,
			VendorID: 10,
			RoleID:   20,
			Perms:    authority.Permissions{authority.PermViewBookings, authority.PermViewVenues},
		}
		token, err := session.SignSession(&sec)
		Expect(err).To(BeNil())
		Expect(token).ToNot(BeEmpty())

		parsed, err := session.ParseToken(token)
		Expect(err).To(BeNil())
		Expect(parsed.Identity).To(Equal(sec.Identity))
		Expect(parsed.Kind).To(Equal(authority.KindVendorStaff))
		Expect(parsed.VendorID).To(Equal(sec.VendorID))
		Expect(parsed.RoleID).To(Equal(sec.RoleID))
		Expect(parsed.Perms).To(Equal(sec.Perms))
		Expect(parsed.Token).To(Equal(token))
		Expect(time.Since(parsed.SigningTime)).To(BeNumerically("<", time.Minute))
	})

	t.Run("should fail without signing secret", func(t *testing.T) {
		setupSecret(t, "")

		_, err := session.SignSession(&session.Session{Identity: session.Identity{ID: 1}})
		Expect(err).ToNot(BeNil())
	})

	t.Run("should reject empty, malformed and tampered tokens", func(t *testing.T) {
		setupSecret(t, "test-secret")

		_, err := session.ParseToken("")
		Expect(err).To(Equal(session.ErrInvalidToken))
		_, err = session.ParseToken("not-a-token")
		Expect(err).To(Equal(session.ErrInvalidToken))

		token, err := session.SignSession(&session.Session{Identity: session.Identity{ID: 1}, Kind: authority.KindCustomer})
		Expect(err).To(BeNil())
		_, err = session.ParseToken(token + "x")
		Expect(err).To(Equal(session.ErrInvalidToken))
	})

	t.Run("should reject tokens signed with another secret", func(t *testing.T) {
		setupSecret(t, "secret-one")
		token, err := session.SignSession(&session.Session{Identity: session.Identity{ID: 1}, Kind: authority.KindCustomer})
		Expect(err).To(BeNil())

		os.Setenv("AUTH_SECRET", "secret-two")
		session.ResetSecret()
		_, err = session.ParseToken(token)
		Expect(err).To(Equal(session.ErrInvalidToken))
	})

	t.Run("should reject expired tokens", func(t *testing.T) {
		setupSecret(t, "test-secret")

		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Issuer:    "venuedesk",
			Subject:   "1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		})
		token, err := expired.SignedString([]byte("test-secret"))
		Expect(err).To(BeNil())

		_, err = session.ParseToken(token)
		Expect(err).To(Equal(session.ErrInvalidToken))
	})
}

func TestTokenStalenessBound(t *testing.T) {
	RegisterTestingT(t)
	setupSecret(t, "test-secret")

	// a permission change is observed no later than the token lifetime
	token, err := session.SignSession(&session.Session{Identity: session.Identity{ID: 1}, Kind: authority.KindVendorStaff})
	Expect(err).To(BeNil())

	claims := session.Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, &claims)
	Expect(err).To(BeNil())
	Expect(claims.ExpiresAt.Sub(claims.IssuedAt.Time)).To(Equal(session.TokenExpiration))
}
