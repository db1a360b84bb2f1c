package crawler

import "github.com/junhoyeo/docs-archiver/internal/model"

// maxNavigationDepth caps group nesting during the tree walk. The source
// structure is a tree by construction, but a payload that somehow nests
// deeper than this is truncated instead of exhausting the stack.
const maxNavigationDepth = 32

// FlattenNavigation walks the navigation tree depth-first in pre-order and
// returns every leaf page identifier in display order: tabs first, then
// each tab's groups, then each group's pages with subgroups expanded in
// place.
func FlattenNavigation(nav *model.Navigation) []string {
	if nav == nil {
		return nil
	}

	var ids []string
	for _, tab := range nav.Tabs {
		for i := range tab.Groups {
			ids = appendGroupPages(ids, &tab.Groups[i], 0)
		}
	}
	return ids
}

func appendGroupPages(ids []string, group *model.NavGroup, depth int) []string {
	if group == nil || depth >= maxNavigationDepth {
		return ids
	}

	for _, entry := range group.Pages {
		if entry.IsLeaf() {
			if entry.Page != "" {
				ids = append(ids, entry.Page)
			}
			continue
		}
		ids = appendGroupPages(ids, entry.Group, depth+1)
	}
	return ids
}
