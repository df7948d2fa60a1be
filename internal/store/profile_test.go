package store

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/elitepro/quotation/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.StorageSlot{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seqIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func TestSaveAssignsIDAndRoundTrips(t *testing.T) {
	s := NewProfileStore(testDB(t), seqIDs("p"), nil)

	in := models.CompanyProfile{
		Name:          "Acme Trading",
		Tagline:       "Everything, delivered",
		Address:       "1 Canal St\nDubai",
		VATNumber:     "VAT-42",
		CRNumber:      "CR-7",
		ContactPerson: "J. Doe",
		BankDetails:   "IBAN AE07 0331 2345",
		LogoBase64:    "data:image/png;base64,aGVsbG8=",
		PrimaryColor:  "#16a34a",
	}
	saved, err := s.Save(in)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID != "p-1" {
		t.Fatalf("assigned id = %q", saved.ID)
	}

	got, ok, err := s.Get("p-1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	in.ID = "p-1"
	if got != in {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, in)
	}
}

func TestSaveUpsertReplacesInPlace(t *testing.T) {
	s := NewProfileStore(testDB(t), seqIDs("p"), nil)
	for _, name := range []string{"First", "Second", "Third"} {
		if _, err := s.Save(models.CompanyProfile{Name: name}); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	if _, err := s.Save(models.CompanyProfile{ID: "p-2", Name: "Second v2"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	if list[1].Name != "Second v2" {
		t.Fatalf("position 1 = %q, want replaced record in place", list[1].Name)
	}
	if list[0].Name != "First" || list[2].Name != "Third" {
		t.Fatalf("neighbors disturbed: %q / %q", list[0].Name, list[2].Name)
	}
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	s := NewProfileStore(testDB(t), seqIDs("p"), nil)
	for _, name := range []string{"A", "B", "C"} {
		if _, err := s.Save(models.CompanyProfile{Name: name}); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	if err := s.Delete("p-2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "A" || list[1].Name != "C" {
		t.Fatalf("unexpected list after delete: %+v", list)
	}
}

func TestDeleteMissingIsNoOp(t *testing.T) {
	s := NewProfileStore(testDB(t), seqIDs("p"), nil)
	if _, err := s.Save(models.CompanyProfile{Name: "Only"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Delete("does-not-exist"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	list, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}
}

func TestEmptySlotReadsAsEmptyCollection(t *testing.T) {
	s := NewProfileStore(testDB(t), nil, nil)
	list, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty collection, got %+v", list)
	}
}

func TestCorruptSlotReadsAsEmptyCollection(t *testing.T) {
	db := testDB(t)
	slot := models.StorageSlot{Key: ProfilesSlot, Value: "{not json"}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("seed corrupt slot: %v", err)
	}

	s := NewProfileStore(db, seqIDs("p"), nil)
	list, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty collection, got %+v", list)
	}

	// The store recovers: the next save replaces the corrupt slot.
	if _, err := s.Save(models.CompanyProfile{Name: "Fresh"}); err != nil {
		t.Fatalf("save after corruption: %v", err)
	}
	list, err = s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Fresh" {
		t.Fatalf("unexpected recovery state: %+v", list)
	}
}

func TestGetDanglingReference(t *testing.T) {
	s := NewProfileStore(testDB(t), nil, nil)
	_, ok, err := s.Get("ghost")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("dangling id resolved")
	}
}
