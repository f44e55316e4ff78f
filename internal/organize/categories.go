package organize

import (
	"path/filepath"
	"strings"

	"dirsort/pkg/types"
)

// FallbackCategory receives every file whose extension matches no other category
const FallbackCategory = "Others"

// categories is scanned in order and the first match wins. The fallback
// category is always last.
var categories = []types.Category{
	{Name: "Images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}},
	{Name: "Videos", Extensions: []string{".mp4", ".mov", ".avi", ".mkv", ".flv"}},
	{Name: "Documents", Extensions: []string{".pdf", ".doc", ".docx", ".txt", ".xls", ".xlsx", ".ppt", ".pptx"}},
	{Name: "Music", Extensions: []string{".mp3", ".wav", ".aac", ".flac"}},
	{Name: "Archives", Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz"}},
	{Name: FallbackCategory},
}

// Categories returns a copy of the category table in scan order
func Categories() []types.Category {
	out := make([]types.Category, len(categories))
	for i, c := range categories {
		out[i] = types.Category{
			Name:       c.Name,
			Extensions: append([]string(nil), c.Extensions...),
		}
	}
	return out
}

// IsCategoryName reports whether name is one of the category folder names
func IsCategoryName(name string) bool {
	for _, c := range categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Extension returns the lowercase extension of name, from the final dot
// inclusive, or "" when the name has no dot.
func Extension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// Classify returns the category folder a file named name belongs in
func Classify(name string) string {
	ext := Extension(name)
	if ext == "" {
		return FallbackCategory
	}
	for _, c := range categories {
		if c.Matches(ext) {
			return c.Name
		}
	}
	return FallbackCategory
}
