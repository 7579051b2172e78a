package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polestar/storefront/internal/domain"
)

// fakeClock hands out strictly increasing times, one second apart.
type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func productInput(name, slug string, categoryID int64, featured bool) domain.ProductInput {
	return domain.ProductInput{
		Name:       name,
		Slug:       slug,
		Price:      1000,
		ImageURL:   "https://example.com/" + slug + ".jpg",
		CategoryID: categoryID,
		Featured:   featured,
		InStock:    true,
	}
}

func productIDs(products []domain.Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func sameIDs(a, b []int64) bool {
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

// runStoreSuite checks the behaviour every backend must share.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("category round trip", func(t *testing.T) {
		s := newStore(t)
		desc := "Ergonomic designs"
		in := domain.CategoryInput{Name: "Office Chairs", Slug: "chairs", Description: &desc}
		created, err := s.CreateCategory(ctx, in)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID <= 0 {
			t.Fatalf("expected assigned id, got %d", created.ID)
		}
		got, err := s.GetCategoryBySlug(ctx, created.Slug)
		if err != nil {
			t.Fatalf("get by slug: %v", err)
		}
		if got.ID != created.ID || got.Name != in.Name || got.Slug != in.Slug || *got.Description != desc || got.ImageURL != nil {
			t.Fatalf("round trip mismatch: %+v vs %+v", got, created)
		}
		byID, err := s.GetCategory(ctx, created.ID)
		if err != nil || byID.Slug != "chairs" {
			t.Fatalf("get by id: %+v %v", byID, err)
		}
	})

	t.Run("category ids and order", func(t *testing.T) {
		s := newStore(t)
		for _, slug := range []string{"a", "b", "c"} {
			if _, err := s.CreateCategory(ctx, domain.CategoryInput{Name: slug, Slug: slug}); err != nil {
				t.Fatalf("create %s: %v", slug, err)
			}
		}
		list, err := s.ListCategories(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 3 || list[0].Slug != "a" || list[2].Slug != "c" {
			t.Fatalf("unexpected order %+v", list)
		}
		if !(list[0].ID < list[1].ID && list[1].ID < list[2].ID) {
			t.Fatalf("ids not increasing: %+v", list)
		}
		if _, err := s.CreateCategory(ctx, domain.CategoryInput{Name: "dup", Slug: "a"}); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("lookup misses", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.GetCategoryBySlug(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("category: expected ErrNotFound, got %v", err)
		}
		if _, err := s.GetCategory(ctx, 99); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("category id: expected ErrNotFound, got %v", err)
		}
		if _, err := s.GetProductBySlug(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("product: expected ErrNotFound, got %v", err)
		}
		if _, err := s.GetProduct(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("product id: expected ErrNotFound, got %v", err)
		}
		if _, err := s.UpdateProduct(ctx, 42, domain.ProductPatch{}); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("update: expected ErrNotFound, got %v", err)
		}
		ok, err := s.DeleteProduct(ctx, 42)
		if err != nil || ok {
			t.Fatalf("delete missing: ok=%v err=%v", ok, err)
		}
	})

	t.Run("chairs and desks scenario", func(t *testing.T) {
		s := newStore(t)
		chairs, err := s.CreateCategory(ctx, domain.CategoryInput{Name: "Chairs", Slug: "chairs"})
		if err != nil {
			t.Fatal(err)
		}
		desks, err := s.CreateCategory(ctx, domain.CategoryInput{Name: "Desks", Slug: "desks"})
		if err != nil {
			t.Fatal(err)
		}
		p1, err := s.CreateProduct(ctx, productInput("Task Chair", "task-chair", chairs.ID, false))
		if err != nil {
			t.Fatal(err)
		}
		p2, err := s.CreateProduct(ctx, productInput("Standing Desk", "standing-desk", desks.ID, true))
		if err != nil {
			t.Fatal(err)
		}
		p3, err := s.CreateProduct(ctx, productInput("Lounge Chair", "lounge-chair", chairs.ID, false))
		if err != nil {
			t.Fatal(err)
		}

		got, err := s.ListProducts(ctx, domain.ProductFilter{CategoryID: &chairs.ID})
		if err != nil {
			t.Fatal(err)
		}
		if !sameIDs(productIDs(got), []int64{p1.ID, p3.ID}) {
			t.Fatalf("chairs: got %v", productIDs(got))
		}

		got, err = s.ListProducts(ctx, domain.ProductFilter{Featured: true})
		if err != nil {
			t.Fatal(err)
		}
		if !sameIDs(productIDs(got), []int64{p2.ID}) {
			t.Fatalf("featured: got %v", productIDs(got))
		}

		got, err = s.ListProducts(ctx, domain.ProductFilter{CategoryID: &chairs.ID, Featured: true})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Fatalf("intersection: got %v", productIDs(got))
		}
	})

	t.Run("search and pagination", func(t *testing.T) {
		s := newStore(t)
		cat, err := s.CreateCategory(ctx, domain.CategoryInput{Name: "All", Slug: "all"})
		if err != nil {
			t.Fatal(err)
		}
		var all []int64
		names := []string{"Oak Desk", "Walnut Shelf", "OAK Chair", "Pine Stool", "Mesh Chair"}
		for i, name := range names {
			in := productInput(name, "p"+string(rune('a'+i)), cat.ID, false)
			if name == "Pine Stool" {
				d := "stool with an oak finish, 100% solid"
				in.Description = &d
			}
			p, err := s.CreateProduct(ctx, in)
			if err != nil {
				t.Fatal(err)
			}
			all = append(all, p.ID)
		}

		got, err := s.ListProducts(ctx, domain.ProductFilter{Search: "oak"})
		if err != nil {
			t.Fatal(err)
		}
		if !sameIDs(productIDs(got), []int64{all[0], all[2], all[3]}) {
			t.Fatalf("search oak: got %v", productIDs(got))
		}

		got, err = s.ListProducts(ctx, domain.ProductFilter{Search: "100%"})
		if err != nil {
			t.Fatal(err)
		}
		if !sameIDs(productIDs(got), []int64{all[3]}) {
			t.Fatalf("search literal percent: got %v", productIDs(got))
		}

		total, err := s.CountProducts(ctx, domain.ProductFilter{Search: "oak", Limit: 1})
		if err != nil || total != 3 {
			t.Fatalf("count: %d %v", total, err)
		}

		for limit := 1; limit <= 3; limit++ {
			for page := 1; page <= 3; page++ {
				got, err := s.ListProducts(ctx, domain.ProductFilter{Limit: limit, Offset: (page - 1) * limit})
				if err != nil {
					t.Fatal(err)
				}
				start, end := (page-1)*limit, page*limit
				if start > len(all) {
					start = len(all)
				}
				if end > len(all) {
					end = len(all)
				}
				if !sameIDs(productIDs(got), all[start:end]) {
					t.Fatalf("limit=%d page=%d: got %v want %v", limit, page, productIDs(got), all[start:end])
				}
			}
		}

		got, err = s.ListProducts(ctx, domain.ProductFilter{Offset: 3})
		if err != nil {
			t.Fatal(err)
		}
		if !sameIDs(productIDs(got), all[3:]) {
			t.Fatalf("offset only: got %v", productIDs(got))
		}

		if _, err := s.ListProducts(ctx, domain.ProductFilter{Limit: -1}); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected invalid filter error, got %v", err)
		}
	})

	t.Run("product lifecycle", func(t *testing.T) {
		s := newStore(t)
		cat, err := s.CreateCategory(ctx, domain.CategoryInput{Name: "Chairs", Slug: "chairs"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := s.CreateProduct(ctx, productInput("Orphan", "orphan", cat.ID+100, false)); !errors.Is(err, domain.ErrInvalidReference) {
			t.Fatalf("expected invalid reference, got %v", err)
		}
		in := productInput("Task Chair", "task-chair", cat.ID, false)
		in.Gallery = []string{"one.jpg", "two.jpg"}
		in.Badges = []string{"Sale"}
		p, err := s.CreateProduct(ctx, in)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := s.CreateProduct(ctx, productInput("Copy", "task-chair", cat.ID, false)); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected slug conflict, got %v", err)
		}

		got, err := s.GetProductBySlug(ctx, "task-chair")
		if err != nil {
			t.Fatal(err)
		}
		if len(got.Gallery) != 2 || got.Gallery[1] != "two.jpg" || len(got.Badges) != 1 {
			t.Fatalf("gallery/badges not stored: %+v", got)
		}

		price := int64(800)
		featured := true
		updated, err := s.UpdateProduct(ctx, p.ID, domain.ProductPatch{Price: &price, Featured: &featured})
		if err != nil {
			t.Fatal(err)
		}
		if updated.Price != 800 || !updated.Featured || updated.Name != "Task Chair" {
			t.Fatalf("partial update: %+v", updated)
		}
		discount := int64(700)
		if _, err := s.UpdateProduct(ctx, p.ID, domain.ProductPatch{DiscountedPrice: &discount}); err != nil {
			t.Fatal(err)
		}
		if _, err := s.UpdateProduct(ctx, p.ID, domain.ProductPatch{ClearDiscountedPrice: true}); err != nil {
			t.Fatal(err)
		}
		if got, err := s.GetProduct(ctx, p.ID); err != nil || got.DiscountedPrice != nil {
			t.Fatalf("cleared discount still stored: %+v, %v", got, err)
		}

		missing := cat.ID + 100
		if _, err := s.UpdateProduct(ctx, p.ID, domain.ProductPatch{CategoryID: &missing}); !errors.Is(err, domain.ErrInvalidReference) {
			t.Fatalf("expected invalid reference on update, got %v", err)
		}

		ok, err := s.DeleteProduct(ctx, p.ID)
		if err != nil || !ok {
			t.Fatalf("delete: ok=%v err=%v", ok, err)
		}
		if _, err := s.GetProduct(ctx, p.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected deleted product to be gone, got %v", err)
		}
	})

	t.Run("inquiries newest first", func(t *testing.T) {
		s := newStore(t)
		for _, name := range []string{"Ada", "Grace", "Linus"} {
			_, err := s.CreateInquiry(ctx, domain.InquiryInput{
				FullName: name,
				Email:    "x@example.com",
				Message:  "Please send a quote for ten chairs.",
			})
			if err != nil {
				t.Fatal(err)
			}
		}
		list, err := s.ListInquiries(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 3 || list[0].FullName != "Linus" || list[2].FullName != "Ada" {
			t.Fatalf("unexpected order %+v", list)
		}
		if list[0].CreatedAt.IsZero() {
			t.Fatalf("createdAt not assigned")
		}
	})

	t.Run("users", func(t *testing.T) {
		s := newStore(t)
		u := &domain.User{Username: "admin", Password: "hash", Role: domain.RoleAdmin}
		if err := s.CreateUser(ctx, u); err != nil {
			t.Fatal(err)
		}
		if u.ID <= 0 {
			t.Fatalf("id not assigned")
		}
		if err := s.CreateUser(ctx, &domain.User{Username: "admin"}); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
		got, err := s.GetUserByUsername(ctx, "admin")
		if err != nil || got.Role != domain.RoleAdmin {
			t.Fatalf("get user: %+v %v", got, err)
		}
	})

	t.Run("seed", func(t *testing.T) {
		s := newStore(t)
		if err := Seed(ctx, s); err != nil {
			t.Fatal(err)
		}
		if err := Seed(ctx, s); err != nil {
			t.Fatal(err)
		}
		cats, _ := s.ListCategories(ctx)
		if len(cats) != len(defaultCategories) {
			t.Fatalf("expected %d categories, got %d", len(defaultCategories), len(cats))
		}
		total, _ := s.CountProducts(ctx, domain.ProductFilter{})
		if total != int64(len(defaultProducts)) {
			t.Fatalf("expected %d products, got %d", len(defaultProducts), total)
		}
		featured, _ := s.CountProducts(ctx, domain.ProductFilter{Featured: true})
		if featured != 5 {
			t.Fatalf("expected 5 featured products, got %d", featured)
		}
	})
}
