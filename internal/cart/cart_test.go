package cart

import (
	"testing"

	"github.com/polestar/storefront/internal/domain"
)

func product(id int64, price int64) domain.Product {
	return domain.Product{ID: id, Name: "p", Price: price}
}

func TestAddItemTwiceIncrements(t *testing.T) {
	p := product(1, 100)
	s := Reduce(State{}, AddItem{Product: p})
	s = Reduce(s, AddItem{Product: p})
	if len(s.Items) != 1 || s.Items[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", s.Items)
	}
}

func TestAddItemPreservesOrder(t *testing.T) {
	s := State{}
	for _, id := range []int64{3, 1, 2} {
		s = Reduce(s, AddItem{Product: product(id, 10)})
	}
	s = Reduce(s, AddItem{Product: product(3, 10)})
	got := []int64{s.Items[0].Product.ID, s.Items[1].Product.ID, s.Items[2].Product.ID}
	if got[0] != 3 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("order not preserved: %v", got)
	}
	if s.Items[0].Quantity != 2 {
		t.Fatalf("first line should have quantity 2, got %d", s.Items[0].Quantity)
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := Reduce(State{}, AddItem{Product: product(1, 10)})
	after := Reduce(before, AddItem{Product: product(1, 10)})
	if before.Items[0].Quantity != 1 {
		t.Fatalf("input state was mutated: %+v", before.Items)
	}
	if after.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", after.Items[0].Quantity)
	}

	updated := Reduce(after, UpdateQuantity{ProductID: 1, Quantity: 7})
	if after.Items[0].Quantity != 2 || updated.Items[0].Quantity != 7 {
		t.Fatalf("update mutated input or failed: %+v %+v", after.Items, updated.Items)
	}
}

func TestRemoveItem(t *testing.T) {
	s := Reduce(State{}, AddItem{Product: product(1, 10)})
	s = Reduce(s, AddItem{Product: product(2, 10)})

	same := Reduce(s, RemoveItem{ProductID: 99})
	if &same.Items[0] != &s.Items[0] || len(same.Items) != 2 {
		t.Fatalf("removing an absent id must return the state unchanged")
	}

	s = Reduce(s, RemoveItem{ProductID: 1})
	if len(s.Items) != 1 || s.Items[0].Product.ID != 2 {
		t.Fatalf("unexpected items %+v", s.Items)
	}
}

func TestUpdateQuantity(t *testing.T) {
	s := Reduce(State{}, AddItem{Product: product(1, 10)})
	s = Reduce(s, AddItem{Product: product(2, 10)})

	tests := []struct {
		name      string
		action    UpdateQuantity
		wantLines int
		wantQty   int
	}{
		{name: "set", action: UpdateQuantity{ProductID: 1, Quantity: 5}, wantLines: 2, wantQty: 5},
		{name: "absent id", action: UpdateQuantity{ProductID: 9, Quantity: 5}, wantLines: 2, wantQty: 1},
		{name: "zero removes", action: UpdateQuantity{ProductID: 1, Quantity: 0}, wantLines: 1},
		{name: "negative removes", action: UpdateQuantity{ProductID: 1, Quantity: -3}, wantLines: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(s, tt.action)
			if len(got.Items) != tt.wantLines {
				t.Fatalf("lines = %d, want %d", len(got.Items), tt.wantLines)
			}
			if tt.wantQty > 0 && got.Items[0].Quantity != tt.wantQty {
				t.Fatalf("quantity = %d, want %d", got.Items[0].Quantity, tt.wantQty)
			}
			for _, it := range got.Items {
				if it.Quantity < 1 {
					t.Fatalf("line with quantity %d left in cart", it.Quantity)
				}
			}
		})
	}
}

func TestCountAndSubtotal(t *testing.T) {
	discounted := int64(80)
	chair := domain.Product{ID: 1, Price: 100, DiscountedPrice: &discounted}
	desk := domain.Product{ID: 2, Price: 250}

	store := NewStore(State{})
	store.Dispatch(AddItem{Product: chair})
	store.Dispatch(AddItem{Product: chair})
	s := store.Dispatch(AddItem{Product: desk})

	if s.Count() != 3 {
		t.Fatalf("count = %d", s.Count())
	}
	if s.Subtotal() != 2*80+250 {
		t.Fatalf("subtotal = %d", s.Subtotal())
	}
	if len(store.State().Items) != 2 {
		t.Fatalf("store state not retained")
	}
}
