package authority

// The permission catalog ships with the software, not the database. The
// tables below are built once at init and only handed out through
// read-only accessors.

const (
	PermViewDashboard = "vendor_view_dashboard"

	PermViewVenues   = "vendor_view_venues"
	PermCreateVenues = "vendor_create_venues"
	PermEditVenues   = "vendor_edit_venues"
	PermDeleteVenues = "vendor_delete_venues"

	PermViewBookings   = "vendor_view_bookings"
	PermCreateBookings = "vendor_create_bookings"
	PermEditBookings   = "vendor_edit_bookings"
	PermCancelBookings = "vendor_cancel_bookings"

	PermViewPayouts    = "vendor_view_payouts"
	PermRequestPayouts = "vendor_request_payouts"

	PermViewLedger   = "vendor_view_ledger"
	PermExportLedger = "vendor_export_ledger"

	PermViewBlockedDates   = "vendor_view_blocked_dates"
	PermManageBlockedDates = "vendor_manage_blocked_dates"

	PermViewReviews  = "vendor_view_reviews"
	PermReplyReviews = "vendor_reply_reviews"

	PermViewProfile = "vendor_view_profile"
	PermEditProfile = "vendor_edit_profile"
)

// Category groups catalog permissions for presentation only; grouping
// carries no authorization semantics.
type Category struct {
	Key         string      `json:"key"`
	Title       string      `json:"title"`
	Permissions Permissions `json:"permissions"`
}

// Template is a predefined permission bundle offered as a role creation
// shortcut, not a persisted entity.
type Template struct {
	Key         string      `json:"key"`
	Title       string      `json:"title"`
	Permissions Permissions `json:"permissions"`
}

var categories = []Category{
	{Key: "dashboard", Title: "Dashboard", Permissions: Permissions{PermViewDashboard}},
	{Key: "venues", Title: "Venues", Permissions: Permissions{PermViewVenues, PermCreateVenues, PermEditVenues, PermDeleteVenues}},
	{Key: "bookings", Title: "Bookings", Permissions: Permissions{PermViewBookings, PermCreateBookings, PermEditBookings, PermCancelBookings}},
	{Key: "payouts", Title: "Payouts", Permissions: Permissions{PermViewPayouts, PermRequestPayouts}},
	{Key: "ledger", Title: "Ledger", Permissions: Permissions{PermViewLedger, PermExportLedger}},
	{Key: "blocked-dates", Title: "Blocked Dates", Permissions: Permissions{PermViewBlockedDates, PermManageBlockedDates}},
	{Key: "reviews", Title: "Reviews", Permissions: Permissions{PermViewReviews, PermReplyReviews}},
	{Key: "profile", Title: "Profile", Permissions: Permissions{PermViewProfile, PermEditProfile}},
}

var catalog Permissions

var templates = []Template{
	{Key: "VENDOR_OWNER", Title: "Vendor Owner"},
	{Key: "VENUE_MANAGER", Title: "Venue Manager", Permissions: Permissions{
		PermViewDashboard, PermViewVenues, PermCreateVenues, PermEditVenues, PermDeleteVenues,
		PermViewBlockedDates, PermManageBlockedDates}},
	{Key: "BOOKING_MANAGER", Title: "Booking Manager", Permissions: Permissions{
		PermViewDashboard, PermViewVenues, PermViewBookings, PermCreateBookings, PermEditBookings, PermCancelBookings,
		PermViewBlockedDates}},
	{Key: "ACCOUNTANT", Title: "Accountant", Permissions: Permissions{
		PermViewDashboard, PermViewPayouts, PermRequestPayouts, PermViewLedger, PermExportLedger}},
	{Key: "SUPPORT", Title: "Support", Permissions: Permissions{
		PermViewDashboard, PermViewBookings, PermViewReviews, PermReplyReviews}},
}

var catalogIndex map[string]bool

func init() {
	for _, c := range categories {
		catalog = append(catalog, c.Permissions...)
	}
	catalogIndex = make(map[string]bool, len(catalog))
	for _, p := range catalog {
		catalogIndex[p] = true
	}
	// VENDOR_OWNER is the full catalog
	for i := range templates {
		if templates[i].Key == "VENDOR_OWNER" {
			templates[i].Permissions = Catalog()
		}
	}
}

// Catalog returns the full ordered list of valid permission strings.
func Catalog() Permissions {
	return append(Permissions{}, catalog...)
}

// Categories returns the presentation grouping of the catalog.
func Categories() []Category {
	return append([]Category{}, categories...)
}

// Templates returns the predefined role templates.
func Templates() []Template {
	result := make([]Template, 0, len(templates))
	for _, t := range templates {
		result = append(result, Template{Key: t.Key, Title: t.Title, Permissions: append(Permissions{}, t.Permissions...)})
	}
	return result
}

func IsValid(permission string) bool {
	return catalogIndex[permission]
}
