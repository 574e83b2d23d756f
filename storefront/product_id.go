package storefront

import (
	"regexp"
	"strings"
)

// The storefront keys its per-product controls by a stable identifier derived from
// the display name. Known names are mapped through this table; the fallback transform
// below handles anything else.
var productIDs = map[string]string{
	"Sauce Labs Backpack":               "sauce-labs-backpack",
	"Sauce Labs Bike Light":             "sauce-labs-bike-light",
	"Sauce Labs Bolt T-Shirt":           "sauce-labs-bolt-t-shirt",
	"Sauce Labs Fleece Jacket":          "sauce-labs-fleece-jacket",
	"Sauce Labs Onesie":                 "sauce-labs-onesie",
	"Test.allTheThings() T-Shirt (Red)": "test.allthethings()-t-shirt-(red)",
}

var productIDWhitespace = regexp.MustCompile(`\s+`)

// ProductID resolves a product display name to the identifier used in the
// storefront's element selectors. Unknown names go through a deterministic
// lowercase/hyphenation transform. This is the single resolution function consumed by
// every page abstraction, so the add and remove paths can never diverge for the same
// product.
func ProductID(name string) string {
	if id, ok := productIDs[name]; ok {
		return id
	}
	return productIDWhitespace.ReplaceAllString(strings.ToLower(name), "-")
}
