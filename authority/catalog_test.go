package authority_test

import (
	"testing"

	"venuedesk/authority"

	"github.com/stretchr/testify/assert"
)

func TestCatalog(t *testing.T) {
	catalog := authority.Catalog()

	t.Run("catalog should be the union of all categories", func(t *testing.T) {
		total := 0
		for _, c := range authority.Categories() {
			total += len(c.Permissions)
			for _, p := range c.Permissions {
				assert.True(t, catalog.Contains(p), "category permission %s missing from catalog", p)
			}
		}
		assert.Equal(t, total, len(catalog))
	})

	t.Run("catalog should contain no duplicates", func(t *testing.T) {
		assert.Equal(t, len(catalog), len(catalog.Normalize()))
	})

	t.Run("accessors should return copies", func(t *testing.T) {
		c := authority.Catalog()
		c[0] = "mutated"
		assert.NotEqual(t, c[0], authority.Catalog()[0])
	})
}

func TestTemplates(t *testing.T) {
	catalog := authority.Catalog()

	t.Run("every template permission should come from the catalog", func(t *testing.T) {
		for _, tpl := range authority.Templates() {
			assert.NotEmpty(t, tpl.Permissions, "template %s is empty", tpl.Key)
			for _, p := range tpl.Permissions {
				assert.True(t, catalog.Contains(p), "template %s carries unknown permission %s", tpl.Key, p)
			}
		}
	})

	t.Run("owner template should equal the full catalog", func(t *testing.T) {
		for _, tpl := range authority.Templates() {
			if tpl.Key == "VENDOR_OWNER" {
				assert.Equal(t, catalog, tpl.Permissions)
				return
			}
		}
		t.Fatal("VENDOR_OWNER template not found")
	})
}

func TestIsValid(t *testing.T) {
	assert.True(t, authority.IsValid(authority.PermViewVenues))
	assert.False(t, authority.IsValid("vendor_view_venue"))
	assert.False(t, authority.IsValid(""))
}
