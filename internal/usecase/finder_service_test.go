package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/grosnap/backend/internal/domain"
	"github.com/grosnap/backend/internal/metrics"
)

func newFinderCatalog() *MockCatalog {
	c := NewMockCatalog()
	c.addShop(domain.Shop{ID: 1, Name: "Sharma Kirana"})
	c.addShop(domain.Shop{ID: 2, Name: "Gupta General Store"})
	c.addProduct(domain.Product{ID: 10, ShopID: 1, Name: "Milk"})
	c.addProduct(domain.Product{ID: 11, ShopID: 1, Name: "Bread"})
	c.addProduct(domain.Product{ID: 20, ShopID: 2, Name: "milk"})
	c.addProduct(domain.Product{ID: 21, ShopID: 2, Name: "Bay_Leaf"})
	return c
}

func TestFinderServiceFindItems(t *testing.T) {
	svc := NewFinderService(newFinderCatalog(), metrics.NewRecorder(), nil, FinderServiceConfig{})

	result, err := svc.FindItems(context.Background(), "Milk, bread\nCereal")
	if err != nil {
		t.Fatalf("FindItems() error = %v", err)
	}

	wantItems := []string{"Milk", "bread", "Cereal"}
	if !reflect.DeepEqual(result.Items, wantItems) {
		t.Errorf("Items = %q, want %q", result.Items, wantItems)
	}

	want := []domain.MatchReport{
		{ShopID: 1, Store: "Sharma Kirana", FoundItems: []string{"Milk", "bread"}, NotFoundItems: []string{"Cereal"}},
		{ShopID: 2, Store: "Gupta General Store", FoundItems: []string{"Milk"}, NotFoundItems: []string{"bread", "Cereal"}},
	}
	if !reflect.DeepEqual(result.Reports, want) {
		t.Errorf("Reports = %+v, want %+v", result.Reports, want)
	}

	if result.Summary.Message != "3 out of 3 items found." {
		t.Errorf("Message = %q, want %q", result.Summary.Message, "3 out of 3 items found.")
	}
}

func TestFinderServiceUnderscoreSeparator(t *testing.T) {
	svc := NewFinderService(newFinderCatalog(), nil, nil, FinderServiceConfig{Separator: SeparatorUnderscore})

	result, err := svc.FindItems(context.Background(), "bay leaf")
	if err != nil {
		t.Fatalf("FindItems() error = %v", err)
	}
	if got := result.Reports[1].FoundItems; !reflect.DeepEqual(got, []string{"bay leaf"}) {
		t.Errorf("FoundItems = %q, want [bay leaf]", got)
	}
}

func TestFinderServiceBlankText(t *testing.T) {
	svc := NewFinderService(newFinderCatalog(), nil, nil, FinderServiceConfig{})

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.FindItems(context.Background(), text)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("FindItems(%q) error = %v, want ErrInvalidInput", text, err)
		}
	}
}

func TestFinderServiceOnlyDelimiters(t *testing.T) {
	svc := NewFinderService(newFinderCatalog(), nil, nil, FinderServiceConfig{})

	result, err := svc.FindItems(context.Background(), ",,\n,")
	if err != nil {
		t.Fatalf("FindItems() error = %v", err)
	}
	for _, r := range result.Reports {
		if len(r.FoundItems) != 0 || len(r.NotFoundItems) != 0 {
			t.Errorf("report %q = %+v, want empty lists", r.Store, r)
		}
	}
	if result.Summary.Message != "0 out of 0 items found." {
		t.Errorf("Message = %q", result.Summary.Message)
	}
}

func TestFinderServiceCatalogError(t *testing.T) {
	catalog := newFinderCatalog()
	catalog.listError = errors.New("connection refused")
	svc := NewFinderService(catalog, metrics.NewRecorder(), nil, FinderServiceConfig{})

	_, err := svc.MatchItems(context.Background(), []string{"milk"})
	if err == nil {
		t.Fatal("MatchItems() error = nil, want error")
	}
}

func TestFinderServiceManyShops(t *testing.T) {
	catalog := NewMockCatalog()
	for i := int64(1); i <= 25; i++ {
		catalog.addShop(domain.Shop{ID: i, Name: "shop"})
		catalog.addProduct(domain.Product{ID: 1000 + i, ShopID: i, Name: "sugar"})
	}
	svc := NewFinderService(catalog, nil, nil, FinderServiceConfig{FetchConcurrency: 3})

	result, err := svc.MatchItems(context.Background(), []string{"Sugar"})
	if err != nil {
		t.Fatalf("MatchItems() error = %v", err)
	}
	if len(result.Reports) != 25 {
		t.Fatalf("len(Reports) = %d, want 25", len(result.Reports))
	}
	for i, r := range result.Reports {
		if r.ShopID != int64(i+1) {
			t.Errorf("Reports[%d].ShopID = %d, want %d", i, r.ShopID, i+1)
		}
		if len(r.FoundItems) != 1 {
			t.Errorf("Reports[%d].FoundItems = %q, want [Sugar]", i, r.FoundItems)
		}
	}
	if result.Summary.TotalFound != 25 {
		t.Errorf("TotalFound = %d, want 25", result.Summary.TotalFound)
	}
}
