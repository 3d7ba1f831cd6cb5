package account_test

import (
	"context"
	"os"
	"testing"

	"venuedesk/account"
	"venuedesk/authority"
	"venuedesk/bizerror"
	"venuedesk/persistence"
	"venuedesk/session"
	"venuedesk/testinfra"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func setup(t *testing.T, testDatabase **testinfra.TestDatabase) {
	db := testinfra.StartMysqlTestDatabase("venuedesk")
	assert.Nil(t, db.DS.GormDB(context.Background()).AutoMigrate(&account.User{}).Error)
	persistence.ActiveDataSourceManager = db.DS
	*testDatabase = db
}
func teardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	if testDatabase != nil {
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

func adminSession() *session.Session {
	return &session.Session{Token: "t", Identity: session.Identity{ID: 1, Name: "admin"}, Kind: authority.KindAdmin}
}

func TestPasswordHashing(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should verify only the original password", func(t *testing.T) {
		hash, err := account.HashPassword("secret123")
		Expect(err).To(BeNil())
		Expect(hash).ToNot(Equal("secret123"))
		Expect(account.VerifyPassword(hash, "secret123")).To(BeNil())
		Expect(account.VerifyPassword(hash, "secret124")).ToNot(BeNil())
	})

	t.Run("should refuse empty input", func(t *testing.T) {
		_, err := account.HashPassword("")
		Expect(err).ToNot(BeNil())
		Expect(account.VerifyPassword("", "any")).ToNot(BeNil())
	})
}

func TestCreateUser(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should be admin gated", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		creation := account.UserCreation{Name: "vendor a", Email: "a@test.com", Secret: "secret123",
			Kind: authority.KindVendor}
		_, err := account.CreateUser(&creation, testinfra.BuildOwnerSession(10))
		Expect(err).To(Equal(bizerror.ErrForbidden))

		u, err := account.CreateUser(&creation, adminSession())
		Expect(err).To(BeNil())
		Expect(u.Email).To(Equal("a@test.com"))
		Expect(u.Kind).To(Equal(authority.KindVendor))
	})

	t.Run("should reject a registered email", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		creation := account.UserCreation{Name: "vendor a", Email: "A@Test.com", Secret: "secret123",
			Kind: authority.KindVendor}
		_, err := account.CreateUser(&creation, adminSession())
		Expect(err).To(BeNil())

		creation.Name = "someone else"
		_, err = account.CreateUser(&creation, adminSession())
		Expect(err).To(Equal(&bizerror.ErrConflict{Code: "account.email_existed", Message: "email already registered"}))
	})
}

func TestUpdateBasicAuthSecret(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should require the original password", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		u, err := account.CreateUser(&account.UserCreation{Name: "vendor a", Email: "a@test.com",
			Secret: "secret123", Kind: authority.KindVendor}, adminSession())
		Expect(err).To(BeNil())

		sec := &session.Session{Token: "t", Identity: session.Identity{ID: u.ID}, Kind: authority.KindVendor}
		Expect(account.UpdateBasicAuthSecret(&account.BasicAuthUpdating{
			OriginalSecret: "wrong", NewSecret: "changed456"}, sec)).To(Equal(bizerror.ErrInvalidPassword))
		Expect(account.UpdateBasicAuthSecret(&account.BasicAuthUpdating{
			OriginalSecret: "secret123", NewSecret: "changed456"}, sec)).To(BeNil())

		db := testDatabase.DS.GormDB(context.Background())
		stored, err := account.FindUserByEmail(db, "a@test.com")
		Expect(err).To(BeNil())
		Expect(account.VerifyPassword(stored.Secret, "changed456")).To(BeNil())
	})
}

func TestBootstrapPlatformAdmin(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should seed the admin once", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		os.Setenv("INITIAL_ADMIN_PASSWORD", "bootstrapped")
		defer os.Unsetenv("INITIAL_ADMIN_PASSWORD")

		Expect(account.BootstrapPlatformAdmin()).To(BeNil())
		Expect(account.BootstrapPlatformAdmin()).To(BeNil())

		users, err := account.QueryUsers(adminSession())
		Expect(err).To(BeNil())
		Expect(len(*users)).To(Equal(1))
		Expect((*users)[0].Kind).To(Equal(authority.KindAdmin))

		db := testDatabase.DS.GormDB(context.Background())
		admin, err := account.FindUserByEmail(db, "admin@venuedesk.local")
		Expect(err).To(BeNil())
		Expect(account.VerifyPassword(admin.Secret, "bootstrapped")).To(BeNil())
	})
}
