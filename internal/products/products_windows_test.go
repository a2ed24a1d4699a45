//go:build windows

package products

import "testing"

func TestEnumerateRealHives(t *testing.T) {
	items, err := NewStore().Enumerate()
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}

	for _, item := range items {
		if item.DisplayName == "" {
			t.Fatalf("entry %q has empty display name", item.ProductCode)
		}
		if item.ProductCode == "" {
			t.Fatal("entry has empty product code")
		}
	}
	t.Logf("enumerated %d installed-product records", len(items))
}
