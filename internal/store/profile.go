// Package store owns the persisted company-profile collection.
//
// The whole collection is serialized as a JSON array into one named slot of
// the storage table, read in full and written in full on each mutation. A
// slot that is absent or fails to deserialize reads as an empty collection,
// never as an error surfaced to the caller.
package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/elitepro/quotation/internal/models"
)

// ProfilesSlot is the storage slot holding the profile collection.
const ProfilesSlot = "company_profiles"

// IDGenerator supplies ids for newly saved profiles. Injected so id
// generation is explicit instead of an ambient timestamp.
type IDGenerator func() string

// ProfileStore persists CompanyProfile records.
type ProfileStore struct {
	db    *gorm.DB
	newID IDGenerator
	log   *zap.Logger

	mu sync.Mutex
}

// NewProfileStore builds a store over db. A nil id generator defaults to
// random UUIDs; a nil logger is replaced by a no-op one.
func NewProfileStore(db *gorm.DB, newID IDGenerator, log *zap.Logger) *ProfileStore {
	if newID == nil {
		newID = uuid.NewString
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileStore{db: db, newID: newID, log: log}
}

// List returns all profiles in stored order. Corrupt or missing state yields
// an empty slice.
func (s *ProfileStore) List() ([]models.CompanyProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save upserts by id: a matching record is replaced wholesale, otherwise the
// profile is appended. An empty id is assigned from the injected generator.
// The returned profile carries the final id.
func (s *ProfileStore) Save(p models.CompanyProfile) (models.CompanyProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return models.CompanyProfile{}, err
	}
	if p.ID == "" {
		p.ID = s.newID()
	}
	replaced := false
	for i := range profiles {
		if profiles[i].ID == p.ID {
			profiles[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		profiles = append(profiles, p)
	}
	if err := s.persist(profiles); err != nil {
		return models.CompanyProfile{}, err
	}
	return p, nil
}

// Delete removes the profile with the given id, leaving the order and
// content of the others unchanged. Deleting an unknown id is a no-op.
func (s *ProfileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return err
	}
	kept := profiles[:0]
	for _, p := range profiles {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(profiles) {
		return nil
	}
	return s.persist(kept)
}

// Get resolves one profile by id; ok is false when the reference is dangling.
func (s *ProfileStore) Get(id string) (models.CompanyProfile, bool, error) {
	profiles, err := s.List()
	if err != nil {
		return models.CompanyProfile{}, false, err
	}
	for _, p := range profiles {
		if p.ID == id {
			return p, true, nil
		}
	}
	return models.CompanyProfile{}, false, nil
}

func (s *ProfileStore) load() ([]models.CompanyProfile, error) {
	var slot models.StorageSlot
	err := s.db.First(&slot, "key = ?", ProfilesSlot).Error
	if err == gorm.ErrRecordNotFound {
		return []models.CompanyProfile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profiles slot: %w", err)
	}
	var profiles []models.CompanyProfile
	if uerr := json.Unmarshal([]byte(slot.Value), &profiles); uerr != nil {
		// Corrupt prior state falls back to an empty collection.
		s.log.Warn("profiles slot is corrupt, starting empty", zap.Error(uerr))
		return []models.CompanyProfile{}, nil
	}
	if profiles == nil {
		profiles = []models.CompanyProfile{}
	}
	return profiles, nil
}

func (s *ProfileStore) persist(profiles []models.CompanyProfile) error {
	data, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	slot := models.StorageSlot{Key: ProfilesSlot, Value: string(data)}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error; err != nil {
		return fmt.Errorf("write profiles slot: %w", err)
	}
	return nil
}
