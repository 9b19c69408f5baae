/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Volunteer represents a volunteer document. Records are created by the
// public registration form, read by listing/export and deleted by the admin;
// they are never updated in place.
type Volunteer struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id" structs:"id"`
	Name         string             `bson:"name" json:"name" structs:"name"`
	Email        string             `bson:"email" json:"email" structs:"email"`
	Phone        string             `bson:"phone" json:"phone" structs:"phone"`
	Message      string             `bson:"message,omitempty" json:"message" structs:"message"`
	RegisteredAt time.Time          `bson:"registered_at" json:"registered_at" structs:"registered_at"`
}

type VolunteerJson struct {
	Name    string `json:"name" structs:"name"`
	Email   string `json:"email" structs:"email"`
	Phone   string `json:"phone" structs:"phone"`
	Message string `json:"message,omitempty" structs:"message"`
}
