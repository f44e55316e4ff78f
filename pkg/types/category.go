package types

// Category names a destination folder and the extensions that belong in it.
// Extensions are lowercase and include the leading dot.
type Category struct {
	Name       string   `json:"name" yaml:"name"`
	Extensions []string `json:"extensions" yaml:"extensions"`
}

// Matches reports whether ext (already lowercased) belongs to the category
func (c Category) Matches(ext string) bool {
	for _, e := range c.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// IsFallback reports whether the category catches everything unmatched
func (c Category) IsFallback() bool {
	return len(c.Extensions) == 0
}
