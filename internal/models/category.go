// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package models

// Category is one of the three fixed statistical domains. The stored value
// is the display name; Slug() gives the URL- and policy-safe form.
type Category string

const (
	CategoryDemografi Category = "Statistik Demografi & Sosial"
	CategoryEkonomi   Category = "Statistik Ekonomi"
	CategoryLingkung  Category = "Statistik Lingkungan Hidup & Multi-Domain"
)

// AllCategories lists every category in canonical order.
var AllCategories = []Category{
	CategoryDemografi,
	CategoryEkonomi,
	CategoryLingkung,
}

var categorySlugs = map[Category]string{
	CategoryDemografi: "demografi-sosial",
	CategoryEkonomi:   "ekonomi",
	CategoryLingkung:  "lingkungan-multidomain",
}

var slugCategories = map[string]Category{
	"demografi-sosial":       CategoryDemografi,
	"ekonomi":                CategoryEkonomi,
	"lingkungan-multidomain": CategoryLingkung,
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	_, ok := categorySlugs[c]
	return ok
}

// Slug returns the category's stable identifier, or "" for unknown values.
func (c Category) Slug() string {
	return categorySlugs[c]
}

// CategoryFromSlug resolves a slug back to its category.
func CategoryFromSlug(slug string) (Category, bool) {
	c, ok := slugCategories[slug]
	return c, ok
}
