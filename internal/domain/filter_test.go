package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func sampleProducts() []Product {
	return []Product{
		{ID: 1, Name: "Premium Ergonomic Chair", Description: strPtr("Lumbar support, breathable MESH back"), CategoryID: 1, Featured: true},
		{ID: 2, Name: "Executive Desk", Description: strPtr("Spacious work surface"), CategoryID: 2, Featured: true},
		{ID: 3, Name: "Mid-Back Mesh Chair", CategoryID: 1},
		{ID: 4, Name: "Storage Cabinet", Description: strPtr("Adjustable shelves"), CategoryID: 4},
		{ID: 5, Name: "Conference Table", Description: nil, CategoryID: 3, Featured: true},
	}
}

func ids(products []Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProductFilterApply(t *testing.T) {
	tests := []struct {
		name   string
		filter ProductFilter
		want   []int64
	}{
		{name: "zero value", filter: ProductFilter{}, want: []int64{1, 2, 3, 4, 5}},
		{name: "category", filter: ProductFilter{CategoryID: int64Ptr(1)}, want: []int64{1, 3}},
		{name: "featured", filter: ProductFilter{Featured: true}, want: []int64{1, 2, 5}},
		{name: "category and featured", filter: ProductFilter{CategoryID: int64Ptr(1), Featured: true}, want: []int64{1}},
		{name: "search name case insensitive", filter: ProductFilter{Search: "CHAIR"}, want: []int64{1, 3}},
		{name: "search description", filter: ProductFilter{Search: "shelves"}, want: []int64{4}},
		{name: "search either field", filter: ProductFilter{Search: "mesh"}, want: []int64{1, 3}},
		{name: "search no match", filter: ProductFilter{Search: "sofa"}, want: []int64{}},
		{name: "search keeps trailing space", filter: ProductFilter{Search: "desk "}, want: []int64{}},
		{name: "search of spaces is literal", filter: ProductFilter{Search: "  "}, want: []int64{}},
		{name: "search inner space", filter: ProductFilter{Search: "mesh chair"}, want: []int64{3}},
		{name: "search after category", filter: ProductFilter{CategoryID: int64Ptr(2), Search: "chair"}, want: []int64{}},
		{name: "limit", filter: ProductFilter{Limit: 2}, want: []int64{1, 2}},
		{name: "offset and limit", filter: ProductFilter{Offset: 2, Limit: 2}, want: []int64{3, 4}},
		{name: "offset past end", filter: ProductFilter{Offset: 10, Limit: 2}, want: []int64{}},
		{name: "offset only", filter: ProductFilter{Offset: 3}, want: []int64{4, 5}},
		{name: "pagination over filtered", filter: ProductFilter{Featured: true, Offset: 1, Limit: 1}, want: []int64{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(tt.filter.Apply(sampleProducts()))
			if !equalIDs(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProductFilterWindowProperty(t *testing.T) {
	all := sampleProducts()
	for limit := 1; limit <= 6; limit++ {
		for page := 1; page <= 6; page++ {
			f := ProductFilter{Limit: limit, Offset: (page - 1) * limit}
			got := f.Apply(all)
			if len(got) > limit {
				t.Fatalf("limit=%d page=%d: %d results", limit, page, len(got))
			}
			start := (page - 1) * limit
			end := page * limit
			if start > len(all) {
				start = len(all)
			}
			if end > len(all) {
				end = len(all)
			}
			if !equalIDs(ids(got), ids(all[start:end])) {
				t.Fatalf("limit=%d page=%d: got %v, want %v", limit, page, ids(got), ids(all[start:end]))
			}
		}
	}
}

func TestProductFilterValidate(t *testing.T) {
	bad := []ProductFilter{
		{Limit: -1},
		{Offset: -5},
		{CategoryID: int64Ptr(0)},
	}
	for _, f := range bad {
		if err := f.Validate(); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%+v: expected ErrInvalidArgument, got %v", f, err)
		}
	}
	if err := (ProductFilter{Limit: 10, Offset: 20, CategoryID: int64Ptr(3)}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProductPatchApply(t *testing.T) {
	base := Product{ID: 7, Name: "Desk", Price: 500, Gallery: []string{"a"}}

	name := "Standing Desk"
	price := int64(450)
	got, err := ProductPatch{Name: &name, Price: &price}.Apply(base)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.ID != 7 || got.Name != "Standing Desk" || got.Price != 450 {
		t.Fatalf("unexpected result %+v", got)
	}
	if base.Name != "Desk" {
		t.Fatalf("base was mutated")
	}

	discount := int64(600)
	if _, err := (ProductPatch{DiscountedPrice: &discount}).Apply(base); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected discount above price to be rejected, got %v", err)
	}
	rating := 5.5
	if _, err := (ProductPatch{Rating: &rating}).Apply(base); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected rating out of range to be rejected, got %v", err)
	}
}

func TestProductPatchClearsNullableFields(t *testing.T) {
	rating := 4.5
	base := Product{ID: 7, Name: "Desk", Price: 500, DiscountedPrice: int64Ptr(450), Description: strPtr("Oak"), Rating: &rating}

	var patch ProductPatch
	if err := json.Unmarshal([]byte(`{"price": 400, "discountedPrice": null, "description": null}`), &patch); err != nil {
		t.Fatal(err)
	}
	if !patch.ClearDiscountedPrice || !patch.ClearDescription || patch.ClearRating {
		t.Fatalf("unexpected clear flags %+v", patch)
	}
	got, err := patch.Apply(base)
	if err != nil {
		t.Fatalf("lowering price below the old discount while clearing it: %v", err)
	}
	if got.Price != 400 || got.DiscountedPrice != nil || got.Description != nil {
		t.Fatalf("unexpected result %+v", got)
	}
	if got.Rating == nil || *got.Rating != 4.5 {
		t.Fatalf("absent rating was changed: %v", got.Rating)
	}

	// without the null the old discount still blocks the lower price
	var lower ProductPatch
	if err := json.Unmarshal([]byte(`{"price": 400}`), &lower); err != nil {
		t.Fatal(err)
	}
	if _, err := lower.Apply(base); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected discount above new price to be rejected, got %v", err)
	}
}

func TestEffectivePrice(t *testing.T) {
	p := Product{Price: 24999}
	if p.EffectivePrice() != 24999 {
		t.Fatalf("got %d", p.EffectivePrice())
	}
	p.DiscountedPrice = int64Ptr(22999)
	if p.EffectivePrice() != 22999 {
		t.Fatalf("got %d", p.EffectivePrice())
	}
}
