package sessions_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"venuedesk/account"
	"venuedesk/authority"
	"venuedesk/bizerror"
	"venuedesk/sessions"
	"venuedesk/testinfra"

	. "github.com/onsi/gomega"
)

type stubPolicy struct {
	name     string
	identity *sessions.VerifiedIdentity
	err      error
	calls    int
}

func (p *stubPolicy) Name() string { return p.name }
func (p *stubPolicy) Verify(idToken string) (*sessions.VerifiedIdentity, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.identity, nil
}

func withPolicies(t *testing.T, policies ...sessions.VerificationPolicy) {
	original := sessions.VerificationPolicies
	sessions.VerificationPolicies = policies
	t.Cleanup(func() { sessions.VerificationPolicies = original })
}

func TestVerifyIdToken(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should walk policies in order and stop at the first success", func(t *testing.T) {
		failing := &stubPolicy{name: "first", err: errors.New("endpoint down")}
		succeeding := &stubPolicy{name: "second",
			identity: &sessions.VerifiedIdentity{Email: "v@x.com", Name: "owner"}}
		unreached := &stubPolicy{name: "third",
			identity: &sessions.VerifiedIdentity{Email: "other@x.com"}}
		withPolicies(t, failing, succeeding, unreached)

		identity, err := sessions.VerifyIdToken("ordered-policies-token")
		Expect(err).To(BeNil())
		Expect(identity.Email).To(Equal("v@x.com"))
		Expect(failing.calls).To(Equal(1))
		Expect(succeeding.calls).To(Equal(1))
		Expect(unreached.calls).To(Equal(0))
	})

	t.Run("should fail when every policy fails", func(t *testing.T) {
		withPolicies(t, &stubPolicy{name: "only", err: errors.New("endpoint down")})

		_, err := sessions.VerifyIdToken("all-failing-token")
		Expect(err).To(Equal(bizerror.ErrUnauthenticated))
	})

	t.Run("should answer a repeated token from the verdict cache", func(t *testing.T) {
		policy := &stubPolicy{name: "counted",
			identity: &sessions.VerifiedIdentity{Email: "cached@x.com"}}
		withPolicies(t, policy)

		_, err := sessions.VerifyIdToken("cached-token")
		Expect(err).To(BeNil())
		identity, err := sessions.VerifyIdToken("cached-token")
		Expect(err).To(BeNil())
		Expect(identity.Email).To(Equal("cached@x.com"))
		Expect(policy.calls).To(Equal(1))
	})
}

func TestTokeninfoPolicy(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should accept a verified email from the endpoint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Query().Get("id_token")).To(Equal("good-token"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"email":"v@x.com","email_verified":"true","name":"owner","aud":"client-1"}`))
		}))
		defer server.Close()

		policy := sessions.NewTokeninfoPolicy("test", server.URL)
		identity, err := policy.Verify("good-token")
		Expect(err).To(BeNil())
		Expect(identity).To(Equal(&sessions.VerifiedIdentity{Email: "v@x.com", Name: "owner", Audience: "client-1"}))
	})

	t.Run("should reject unverified emails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"email":"v@x.com","email_verified":"false"}`))
		}))
		defer server.Close()

		_, err := sessions.NewTokeninfoPolicy("test", server.URL).Verify("unverified-token")
		Expect(err).To(Equal(bizerror.ErrUnauthenticated))
	})

	t.Run("should reject endpoint failures", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_token"}`))
		}))
		defer server.Close()

		_, err := sessions.NewTokeninfoPolicy("test", server.URL).Verify("bad-token")
		Expect(err).ToNot(BeNil())
	})
}

func TestOauthLogin(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should sign in the account matching the verified email", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		owner := buildOwner(t, "v@x.com")
		withPolicies(t, &stubPolicy{name: "stub",
			identity: &sessions.VerifiedIdentity{Email: "v@x.com", Name: "owner"}})

		sec, err := sessions.OauthLogin(sessions.OauthLoginRequest{IDToken: "oauth-owner-token"},
			context.Background())
		Expect(err).To(BeNil())
		Expect(sec.Identity.ID).To(Equal(owner.ID))
		Expect(sec.Kind).To(Equal(authority.KindVendor))
		Expect(sec.Perms).To(Equal(authority.Catalog()))
	})

	t.Run("should reject verified emails without an account", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		withPolicies(t, &stubPolicy{name: "stub",
			identity: &sessions.VerifiedIdentity{Email: "stranger@x.com"}})

		_, err := sessions.OauthLogin(sessions.OauthLoginRequest{IDToken: "oauth-stranger-token"},
			context.Background())
		Expect(err).To(Equal(bizerror.ErrUnauthenticated))
	})

	t.Run("should gate deleted and inactive accounts", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		owner := buildOwner(t, "v@x.com")
		withPolicies(t, &stubPolicy{name: "stub",
			identity: &sessions.VerifiedIdentity{Email: "v@x.com"}})

		db := testDatabase.DS.GormDB(context.Background())
		Expect(db.Model(&account.User{}).Where("id = ?", owner.ID).Update("is_active", false).Error).To(BeNil())
		_, err := sessions.OauthLogin(sessions.OauthLoginRequest{IDToken: "oauth-gated-token-1"},
			context.Background())
		Expect(err).To(Equal(bizerror.ErrAccountInactive))

		Expect(db.Model(&account.User{}).Where("id = ?", owner.ID).Update("is_deleted", true).Error).To(BeNil())
		_, err = sessions.OauthLogin(sessions.OauthLoginRequest{IDToken: "oauth-gated-token-2"},
			context.Background())
		Expect(err).To(Equal(bizerror.ErrAccountDeleted))
	})
}
