package menu_test

import (
	"net/http"
	"net/http/httptest"

	"venuedesk/authority"
	"venuedesk/bizerror"
	"venuedesk/menu"
	"venuedesk/session"
	"venuedesk/testinfra"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func entryKeys(entries []menu.Entry) []string {
	keys := []string{}
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	return keys
}

var _ = Describe("FilterMenu", func() {
	It("should show everything to the vendor owner", func() {
		filtered := menu.FilterMenu(testinfra.BuildOwnerSession(10))
		Expect(entryKeys(filtered)).To(Equal([]string{
			"dashboard", "venues", "bookings", "finance", "reviews", "team", "profile"}))
	})

	It("should always show the dashboard to any authenticated principal", func() {
		sec := testinfra.BuildSession(1, 10)
		filtered := menu.FilterMenu(sec)
		Expect(entryKeys(filtered)).To(Equal([]string{"dashboard"}))
	})

	It("should show a group only when at least one child is visible", func() {
		sec := testinfra.BuildSession(1, 10, authority.PermViewBookings)
		filtered := menu.FilterMenu(sec)
		Expect(entryKeys(filtered)).To(Equal([]string{"dashboard", "bookings"}))
		Expect(entryKeys(filtered[1].Children)).To(Equal([]string{"bookings.list"}))
	})

	It("should keep leaves the staff holds across several groups", func() {
		sec := testinfra.BuildSession(1, 10,
			authority.PermViewVenues, authority.PermViewPayouts, authority.PermViewLedger)
		filtered := menu.FilterMenu(sec)
		Expect(entryKeys(filtered)).To(Equal([]string{"dashboard", "venues", "finance"}))
		Expect(entryKeys(filtered[1].Children)).To(Equal([]string{"venues.list"}))
		Expect(entryKeys(filtered[2].Children)).To(Equal([]string{"finance.payouts", "finance.ledger"}))
	})

	It("should reserve the team group for the owner", func() {
		sec := testinfra.BuildSession(1, 10, authority.Catalog()...)
		filtered := menu.FilterMenu(sec)
		Expect(entryKeys(filtered)).ToNot(ContainElement("team"))
	})
})

var _ = Describe("MenusRestAPI", func() {
	It("should return the filtered menu of the caller", func() {
		router := gin.Default()
		router.Use(bizerror.ErrorHandling())
		router.Use(testinfra.SessionInjector(testinfra.BuildSession(1, 10, authority.PermViewBookings)))
		menu.RegisterMenusRestAPI(router)

		menu.FilterMenuFunc = func(sec *session.Session) []menu.Entry {
			Expect(sec.VendorID).To(Equal(testinfra.BuildSession(1, 10).VendorID))
			return []menu.Entry{{Key: "dashboard", Title: "Dashboard", Icon: "dashboard", Path: "/dashboard"}}
		}
		defer func() { menu.FilterMenuFunc = menu.FilterMenu }()

		req := httptest.NewRequest(http.MethodGet, menu.PathMenus, nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`[{"key":"dashboard","title":"Dashboard","icon":"dashboard","path":"/dashboard"}]`))
	})
})
