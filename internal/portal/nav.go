package portal

import (
	"slices"

	"github.com/okian/talentportal/internal/domain/model"
)

// NavItem is one entry of the portal navigation.
type NavItem struct {
	ID    string
	Label string
	Roles []model.Role
}

// NavSection groups navigation items under a heading.
type NavSection struct {
	Title string
	Items []NavItem
}

var everyone = []model.Role{model.RoleEmployee, model.RoleManager, model.RoleAdmin}

var navigation = []NavSection{
	{Title: "Platform", Items: []NavItem{
		{ID: "dashboard", Label: "Dashboard", Roles: everyone},
		{ID: "profile", Label: "My Profile", Roles: everyone},
		{ID: "team", Label: "My Team", Roles: []model.Role{model.RoleManager, model.RoleAdmin}},
	}},
	{Title: "Growth", Items: []NavItem{
		{ID: "career", Label: "Career Path", Roles: everyone},
		{ID: "skills", Label: "Skill Metrics", Roles: everyone},
		{ID: "learning", Label: "Learning Path", Roles: everyone},
		{ID: "reviews", Label: "Reviews", Roles: everyone},
	}},
}

// Navigation returns the sections visible to role. Sections with no visible
// items are omitted. Role only filters what is shown; nothing is enforced.
func Navigation(role model.Role) []NavSection {
	out := make([]NavSection, 0, len(navigation))
	for _, sec := range navigation {
		var items []NavItem
		for _, it := range sec.Items {
			if slices.Contains(it.Roles, role) {
				items = append(items, it)
			}
		}
		if len(items) > 0 {
			out = append(out, NavSection{Title: sec.Title, Items: items})
		}
	}
	return out
}
