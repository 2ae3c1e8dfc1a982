package squad

import "testing"

func TestCatalogLookup(t *testing.T) {
	for _, s := range Catalog {
		if !Valid(s.Name) {
			t.Errorf("catalog identity %q should be valid", s.Name)
		}
	}
	for _, name := range []string{"", "Dragón", "lobo", "LOBO"} {
		if Valid(name) {
			t.Errorf("%q is not in the catalog", name)
		}
	}
}
