package menu

import (
	"venuedesk/authority"
	"venuedesk/session"
)

// Entry is a node of the back-office navigation tree. A leaf carries the
// permission required to see it; a group is visible when at least one of
// its children is. Filtering here is a display affordance only, the
// server side permission checks remain the authority.
type Entry struct {
	Key        string  `json:"key"`
	Title      string  `json:"title"`
	Icon       string  `json:"icon,omitempty"`
	Path       string  `json:"path,omitempty"`
	Permission string  `json:"-"`
	OwnerOnly  bool    `json:"-"`
	Children   []Entry `json:"children,omitempty"`
}

var backOfficeMenu = []Entry{
	{Key: "dashboard", Title: "Dashboard", Icon: "dashboard", Path: "/dashboard"},
	{Key: "venues", Title: "Venues", Icon: "store", Children: []Entry{
		{Key: "venues.list", Title: "My Venues", Path: "/venues",
			Permission: authority.PermViewVenues},
		{Key: "venues.create", Title: "Add Venue", Path: "/venues/new",
			Permission: authority.PermCreateVenues},
		{Key: "venues.blocked-dates", Title: "Blocked Dates", Path: "/venues/blocked-dates",
			Permission: authority.PermViewBlockedDates},
	}},
	{Key: "bookings", Title: "Bookings", Icon: "calendar", Children: []Entry{
		{Key: "bookings.list", Title: "Bookings", Path: "/bookings",
			Permission: authority.PermViewBookings},
		{Key: "bookings.create", Title: "New Booking", Path: "/bookings/new",
			Permission: authority.PermCreateBookings},
	}},
	{Key: "finance", Title: "Finance", Icon: "wallet", Children: []Entry{
		{Key: "finance.payouts", Title: "Payouts", Path: "/payouts",
			Permission: authority.PermViewPayouts},
		{Key: "finance.payout-requests", Title: "Request Payout", Path: "/payouts/request",
			Permission: authority.PermRequestPayouts},
		{Key: "finance.ledger", Title: "Ledger", Path: "/ledger",
			Permission: authority.PermViewLedger},
	}},
	{Key: "reviews", Title: "Reviews", Icon: "star", Children: []Entry{
		{Key: "reviews.list", Title: "Reviews", Path: "/reviews",
			Permission: authority.PermViewReviews},
		{Key: "reviews.reply", Title: "Reply", Path: "/reviews/reply",
			Permission: authority.PermReplyReviews},
	}},
	{Key: "team", Title: "Team", Icon: "team", Children: []Entry{
		{Key: "team.staffs", Title: "Staff Members", Path: "/staffs", OwnerOnly: true},
		{Key: "team.roles", Title: "Roles", Path: "/roles", OwnerOnly: true},
	}},
	{Key: "profile", Title: "Profile", Icon: "user", Children: []Entry{
		{Key: "profile.view", Title: "My Profile", Path: "/profile",
			Permission: authority.PermViewProfile},
		{Key: "profile.edit", Title: "Edit Profile", Path: "/profile/edit",
			Permission: authority.PermEditProfile},
	}},
}

// FilterMenu returns the subtree of the back-office menu visible to the
// session. The dashboard entry is visible to any authenticated principal,
// a vendor owner sees everything.
func FilterMenu(sec *session.Session) []Entry {
	return filterEntries(backOfficeMenu, sec)
}

func filterEntries(entries []Entry, sec *session.Session) []Entry {
	visible := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if len(entry.Children) > 0 {
			children := filterEntries(entry.Children, sec)
			if len(children) == 0 {
				continue
			}
			group := entry
			group.Children = children
			visible = append(visible, group)
			continue
		}
		if entry.OwnerOnly && sec.Kind != authority.KindVendor {
			continue
		}
		if entry.Permission != "" && !sec.HasPermission(entry.Permission) {
			continue
		}
		visible = append(visible, entry)
	}
	return visible
}
