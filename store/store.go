/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package store

import (
	"context"
	"errors"
	"time"

	"github.com/nethesis/memorial-api/models"
)

// Sentinel errors mapped to HTTP outcomes at the call site.
var (
	ErrDuplicate = errors.New("duplicate record")
	ErrNotFound  = errors.New("record not found")
)

// VolunteerFilter narrows and pages a volunteer listing. Search matches
// name, email or phone as a case-insensitive substring.
type VolunteerFilter struct {
	Search string
	Skip   int64
	Limit  int64
}

type VolunteerStore interface {
	// Insert adds a volunteer and assigns its id. Returns ErrDuplicate when
	// the email or phone is already registered.
	Insert(ctx context.Context, volunteer *models.Volunteer) error
	// List returns one page ordered by registration time descending, plus
	// the total count of records matching the filter.
	List(ctx context.Context, filter VolunteerFilter) ([]models.Volunteer, int64, error)
	// All returns every volunteer ordered by registration time descending.
	All(ctx context.Context) ([]models.Volunteer, error)
	// Delete removes one volunteer by id. Returns ErrNotFound when the id
	// is malformed or absent.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type NewsStore interface {
	Insert(ctx context.Context, item *models.News) error
	// All returns every news item ordered by date descending.
	All(ctx context.Context) ([]models.News, error)
	Delete(ctx context.Context, id string) error
}

type AuditStore interface {
	Append(ctx context.Context, entry *models.Audit) error
}
