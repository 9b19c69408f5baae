/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit actions recorded for sensitive admin operations.
const (
	ActionLogin           = "LOGIN"
	ActionExportCSV       = "EXPORT_CSV"
	ActionDeleteVolunteer = "DELETE_VOLUNTEER"
	ActionAddNews         = "ADD_NEWS"
	ActionDeleteNews      = "DELETE_NEWS"
)

// Audit is an append-only record of an admin action. No route reads these
// back; the collection is a write-only sink.
type Audit struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id" structs:"id"`
	Admin     string             `bson:"admin" json:"admin" structs:"admin"`
	Action    string             `bson:"action" json:"action" structs:"action"`
	Details   string             `bson:"details" json:"details" structs:"details"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp" structs:"timestamp"`
}
