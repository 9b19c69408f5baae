/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// News represents a news document. Image is an optional inline encoded
// string carried verbatim, bounded only by the request body ceiling.
type News struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id" structs:"id"`
	Title   string             `bson:"title" json:"title" structs:"title"`
	Content string             `bson:"content" json:"content" structs:"content"`
	Image   string             `bson:"image,omitempty" json:"image,omitempty" structs:"image"`
	Date    time.Time          `bson:"date" json:"-" structs:"-"`
}

type NewsJson struct {
	Title   string `json:"title" structs:"title"`
	Content string `json:"content" structs:"content"`
	Image   string `json:"image,omitempty" structs:"image"`
}

// NewsEntry is the public rendering of a news document, with the date
// formatted in long human-readable form.
type NewsEntry struct {
	ID      string `json:"id" structs:"id"`
	Title   string `json:"title" structs:"title"`
	Content string `json:"content" structs:"content"`
	Image   string `json:"image,omitempty" structs:"image"`
	Date    string `json:"date" structs:"date"`
}
