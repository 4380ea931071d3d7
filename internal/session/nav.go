package session

// NavItem is one sidebar entry.
type NavItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

var adminNav = []NavItem{
	{Title: "Dashboard", URL: "/dashboard"},
	{Title: "Appointments", URL: "/appointments"},
	{Title: "Clients", URL: "/clients"},
	{Title: "Messages", URL: "/messages"},
	{Title: "Reports", URL: "/reports"},
	{Title: "Payments", URL: "/payments"},
	{Title: "Settings", URL: "/settings"},
}

var clientNav = []NavItem{
	{Title: "Dashboard", URL: "/client-dashboard"},
	{Title: "Appointments", URL: "/client-appointments"},
	{Title: "Messages", URL: "/messages"},
	{Title: "Payments", URL: "/payments"},
	{Title: "Notifications", URL: "/notifications"},
	{Title: "Services", URL: "/services"},
	{Title: "Profile", URL: "/profile"},
}

// NavItems returns the sidebar for role. Unknown roles get nothing.
func NavItems(role Role) []NavItem {
	var src []NavItem
	switch role {
	case RoleAdmin:
		src = adminNav
	case RoleClient:
		src = clientNav
	default:
		return nil
	}
	out := make([]NavItem, len(src))
	copy(out, src)
	return out
}
