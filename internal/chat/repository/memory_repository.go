package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"aarvi-backend/internal/chat/domain"
)

// MemoryRepository stores each user's long-term summary and identity facts.
type MemoryRepository interface {
	// Get returns the user's memory; an empty one when none is stored yet.
	Get(userID string) (*domain.UserMemory, error)

	// AppendFacts adds non-duplicate, non-empty facts to the identity list.
	// Dedup is exact-string membership; facts are never removed.
	AppendFacts(userID string, facts ...string) error

	// AppendSummaryBlock appends a timestamped block to the long-term
	// summary. The summary is only ever grown, never replaced.
	AppendSummaryBlock(userID, summary string, at time.Time) error
}

type gormMemoryRepository struct {
	db *gorm.DB
}

// NewGormMemoryRepository creates a new GORM-based MemoryRepository
func NewGormMemoryRepository(db *gorm.DB) MemoryRepository {
	return &gormMemoryRepository{db: db}
}

func (r *gormMemoryRepository) Get(userID string) (*domain.UserMemory, error) {
	var mem domain.UserMemory
	err := r.db.Where("user_id = ?", userID).First(&mem).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &domain.UserMemory{UserID: userID}, nil
		}
		return nil, err
	}
	return &mem, nil
}

func (r *gormMemoryRepository) AppendFacts(userID string, facts ...string) error {
	mem, err := r.Get(userID)
	if err != nil {
		return err
	}

	existing := make(map[string]struct{}, len(mem.IdentityFacts))
	for _, f := range mem.IdentityFacts {
		existing[f] = struct{}{}
	}

	added := false
	for _, f := range facts {
		clean := strings.TrimSpace(f)
		if clean == "" {
			continue
		}
		if _, ok := existing[clean]; ok {
			continue
		}
		mem.IdentityFacts = append(mem.IdentityFacts, clean)
		existing[clean] = struct{}{}
		added = true
	}
	if !added {
		return nil
	}

	mem.UpdatedAt = time.Now()
	return r.db.Save(mem).Error
}

func (r *gormMemoryRepository) AppendSummaryBlock(userID, summary string, at time.Time) error {
	mem, err := r.Get(userID)
	if err != nil {
		return err
	}

	block := "\n\n---\nSummary saved: " + at.Format(time.RFC3339) + "\n\n" + summary
	if mem.LongTermSummary == "" {
		mem.LongTermSummary = summary
	} else {
		mem.LongTermSummary += block
	}

	mem.UpdatedAt = time.Now()
	return r.db.Save(mem).Error
}
