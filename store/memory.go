/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nethesis/memorial-api/models"
)

// In-memory store implementations. They honor the same contracts as the
// Mongo ones (uniqueness, ordering, not-found semantics) and substitute for
// the real document store in tests.

type memoryVolunteer struct {
	seq    int
	record models.Volunteer
}

type MemoryVolunteers struct {
	mutex   sync.RWMutex
	seq     int
	records []memoryVolunteer
}

func NewMemoryVolunteers() *MemoryVolunteers {
	return &MemoryVolunteers{}
}

func (s *MemoryVolunteers) Insert(ctx context.Context, volunteer *models.Volunteer) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, existing := range s.records {
		if strings.EqualFold(existing.record.Email, volunteer.Email) || existing.record.Phone == volunteer.Phone {
			return ErrDuplicate
		}
	}

	if volunteer.ID.IsZero() {
		volunteer.ID = primitive.NewObjectID()
	}
	s.seq++
	s.records = append(s.records, memoryVolunteer{seq: s.seq, record: *volunteer})

	return nil
}

func (s *MemoryVolunteers) List(ctx context.Context, filter VolunteerFilter) ([]models.Volunteer, int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	matched := s.matchLocked(filter.Search)
	total := int64(len(matched))

	if filter.Skip >= total {
		return []models.Volunteer{}, total, nil
	}
	end := filter.Skip + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}

	return matched[filter.Skip:end], total, nil
}

func (s *MemoryVolunteers) All(ctx context.Context) ([]models.Volunteer, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.matchLocked(""), nil
}

// matchLocked returns matching records newest-first; equal timestamps fall
// back to insertion order, latest insert first.
func (s *MemoryVolunteers) matchLocked(search string) []models.Volunteer {
	search = strings.ToLower(search)

	matched := []memoryVolunteer{}
	for _, entry := range s.records {
		if search == "" ||
			strings.Contains(strings.ToLower(entry.record.Name), search) ||
			strings.Contains(strings.ToLower(entry.record.Email), search) ||
			strings.Contains(strings.ToLower(entry.record.Phone), search) {
			matched = append(matched, entry)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].record.RegisteredAt.Equal(matched[j].record.RegisteredAt) {
			return matched[i].record.RegisteredAt.After(matched[j].record.RegisteredAt)
		}
		return matched[i].seq > matched[j].seq
	})

	volunteers := make([]models.Volunteer, 0, len(matched))
	for _, entry := range matched {
		volunteers = append(volunteers, entry.record)
	}
	return volunteers
}

func (s *MemoryVolunteers) Delete(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, entry := range s.records {
		if entry.record.ID.Hex() == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}

	return ErrNotFound
}

func (s *MemoryVolunteers) Count(ctx context.Context) (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return int64(len(s.records)), nil
}

func (s *MemoryVolunteers) CountSince(ctx context.Context, since time.Time) (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	count := int64(0)
	for _, entry := range s.records {
		if !entry.record.RegisteredAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type MemoryNews struct {
	mutex sync.RWMutex
	items []models.News
}

func NewMemoryNews() *MemoryNews {
	return &MemoryNews{}
}

func (s *MemoryNews) Insert(ctx context.Context, item *models.News) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	s.items = append(s.items, *item)

	return nil
}

func (s *MemoryNews) All(ctx context.Context) ([]models.News, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	items := make([]models.News, len(s.items))
	copy(items, s.items)

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})

	return items, nil
}

func (s *MemoryNews) Delete(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, item := range s.items {
		if item.ID.Hex() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}

	return ErrNotFound
}

type MemoryAudits struct {
	mutex   sync.RWMutex
	entries []models.Audit
}

func NewMemoryAudits() *MemoryAudits {
	return &MemoryAudits{}
}

func (s *MemoryAudits) Append(ctx context.Context, entry *models.Audit) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	s.entries = append(s.entries, *entry)

	return nil
}

// Entries returns a copy of the recorded entries, oldest first.
func (s *MemoryAudits) Entries() []models.Audit {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	entries := make([]models.Audit, len(s.entries))
	copy(entries, s.entries)
	return entries
}
