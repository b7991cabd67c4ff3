package domain

// Category is a catalog category. Parent is zero for top-level categories.
type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug,omitempty"`
	Parent int64  `json:"parent"`
	Count  int    `json:"count,omitempty"`
}

// TopLevelCategories returns the categories with no parent, in input order.
func TopLevelCategories(categories []Category) []Category {
	var top []Category
	for _, c := range categories {
		if c.Parent == 0 {
			top = append(top, c)
		}
	}
	return top
}

// Subcategories returns the direct children of the given parent category.
func Subcategories(categories []Category, parentID int64) []Category {
	if parentID == 0 {
		return nil
	}
	var children []Category
	for _, c := range categories {
		if c.Parent == parentID {
			children = append(children, c)
		}
	}
	return children
}

// CategoryPath walks parent links from the given category up to the root
// and returns the chain ordered root-first. An unknown ID, or a broken
// parent link partway up, truncates the path at the last resolvable entry.
func CategoryPath(categories []Category, id int64) []Category {
	byID := make(map[int64]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	var path []Category
	seen := make(map[int64]bool)
	for id != 0 {
		c, ok := byID[id]
		if !ok || seen[id] {
			break
		}
		seen[id] = true
		path = append([]Category{c}, path...)
		id = c.Parent
	}
	return path
}
