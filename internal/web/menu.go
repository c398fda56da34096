package web

// MenuItem is a user-menu entry. Entries carry no action.
type MenuItem struct {
	Label     string
	Icon      string
	IconColor string
	Color     string
}

type MenuSection struct {
	Label   string
	Divider bool
	Items   []MenuItem
}

// UserMenu returns the dropdown contents under the user trigger.
func UserMenu() []MenuSection {
	return []MenuSection{
		{Items: []MenuItem{
			{Label: "Liked posts", Icon: "♥", IconColor: "red"},
			{Label: "Saved posts", Icon: "★", IconColor: "yellow"},
			{Label: "Your comments", Icon: "✉", IconColor: "blue"},
		}},
		{Label: "Settings", Items: []MenuItem{
			{Label: "Account settings", Icon: "⚙"},
			{Label: "Change account", Icon: "⇄"},
			{Label: "Logout", Icon: "⏻"},
		}},
		{Label: "Danger zone", Divider: true, Items: []MenuItem{
			{Label: "Pause subscription", Icon: "⏸"},
			{Label: "Delete account", Icon: "✖", Color: "red"},
		}},
	}
}
