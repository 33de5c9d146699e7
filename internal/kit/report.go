package kit

// Category groups validation problems by what they concern.
type Category string

const (
	CategoryKit       Category = "kit"
	CategoryTemplates Category = "templates"
	CategoryImages    Category = "images"
)

// Categories lists the report categories in presentation order.
var Categories = []Category{CategoryKit, CategoryTemplates, CategoryImages}

// Report maps a category to an ordered list of human-readable problems.
// A report is a value, never an error: validation failures are collected,
// not thrown.
type Report map[Category][]string

// Add appends a problem to a category.
func (r Report) Add(cat Category, msg string) {
	r[cat] = append(r[cat], msg)
}

// Append appends several problems to a category, keeping their order.
func (r Report) Append(cat Category, msgs []string) {
	if len(msgs) > 0 {
		r[cat] = append(r[cat], msgs...)
	}
}

// Empty reports whether no problems were found in any category.
func (r Report) Empty() bool {
	for _, msgs := range r {
		if len(msgs) > 0 {
			return false
		}
	}
	return true
}

// Count returns the total number of problems across categories.
func (r Report) Count() int {
	n := 0
	for _, msgs := range r {
		n += len(msgs)
	}
	return n
}
