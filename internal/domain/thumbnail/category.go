package thumbnail

// Category is the closed set of gallery categories. The filter
// sentinel "All" is deliberately not a member; it exists only as a
// view-side filter value and is never stored.
type Category string

const (
	CategoryGaming    Category = "Gaming"
	CategoryVlog      Category = "Vlog"
	CategoryTutorial  Category = "Tutorial"
	CategoryLifestyle Category = "Lifestyle"
	CategoryTech      Category = "Tech"
	CategoryCooking   Category = "Cooking"
	CategoryEducation Category = "Education"
)

// FilterAll matches every category when filtering the in-memory view.
const FilterAll = "All"

var categories = map[Category]struct{}{
	CategoryGaming:    {},
	CategoryVlog:      {},
	CategoryTutorial:  {},
	CategoryLifestyle: {},
	CategoryTech:      {},
	CategoryCooking:   {},
	CategoryEducation: {},
}

func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// ParseCategory returns the Category for s, or ErrInvalidCategory if s
// is not a member of the set ("All" included).
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// Categories returns the members in display order.
func Categories() []Category {
	return []Category{
		CategoryGaming, CategoryVlog, CategoryTutorial, CategoryLifestyle,
		CategoryTech, CategoryCooking, CategoryEducation,
	}
}
