package repository

import (
	"testing"
)

func TestVariantStockDecrementIncrementLifecycle(t *testing.T) {
	db := setupRepositoryTestDB(t)
	_, variant := seedCatalog(t, db, 100000, 5)
	repo := NewVariantRepository(db)

	affected, err := repo.DecrementStock(variant.ID, 3)
	if err != nil {
		t.Fatalf("decrement stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("decrement affected want 1 got %d", affected)
	}

	affected, err = repo.DecrementStock(variant.ID, 3)
	if err != nil {
		t.Fatalf("second decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("oversell decrement affected want 0 got %d", affected)
	}

	current, err := repo.GetByID(variant.ID)
	if err != nil || current == nil {
		t.Fatalf("get variant failed: %v", err)
	}
	if current.Stock != 2 {
		t.Fatalf("stock want 2 got %d", current.Stock)
	}

	if _, err := repo.IncrementStock(variant.ID, 3); err != nil {
		t.Fatalf("increment stock failed: %v", err)
	}
	current, _ = repo.GetByID(variant.ID)
	if current.Stock != 5 {
		t.Fatalf("stock want 5 got %d", current.Stock)
	}

	if _, err := repo.DecrementStock(variant.ID, 0); err == nil {
		t.Fatalf("zero quantity should be rejected")
	}
	if _, err := repo.SetStock(variant.ID, -1); err == nil {
		t.Fatalf("negative stock should be rejected")
	}
}

func TestVariantFindByAttributesAndImages(t *testing.T) {
	db := setupRepositoryTestDB(t)
	product, variant := seedCatalog(t, db, 250000, 1)
	repo := NewVariantRepository(db)

	found, err := repo.FindByAttributes(product.ID, variant.ColorID, variant.SizeID)
	if err != nil {
		t.Fatalf("find by attributes failed: %v", err)
	}
	if found == nil || found.ID != variant.ID {
		t.Fatalf("find by attributes want variant %d got %+v", variant.ID, found)
	}
	missing, err := repo.FindByAttributes(product.ID, variant.ColorID, variant.SizeID+100)
	if err != nil {
		t.Fatalf("find missing failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("unexpected variant for unknown size")
	}

	if err := repo.ReplaceImages(variant.ID, []string{"/a.png", "/b.png"}); err != nil {
		t.Fatalf("replace images failed: %v", err)
	}
	if err := repo.ReplaceImages(variant.ID, []string{"/c.png"}); err != nil {
		t.Fatalf("replace images again failed: %v", err)
	}
	current, _ := repo.GetByID(variant.ID)
	if len(current.Images) != 1 || current.Images[0].ImageURL != "/c.png" {
		t.Fatalf("images want [/c.png] got %+v", current.Images)
	}

	referenced, err := repo.IsReferenced(variant.ID)
	if err != nil {
		t.Fatalf("is referenced failed: %v", err)
	}
	if referenced {
		t.Fatalf("fresh variant should not be referenced")
	}
}
