/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package models

// AdminIdentity is the authenticated identity carried by a verified token.
type AdminIdentity struct {
	Username string
}

type LoginJson struct {
	Username string `form:"username" json:"username" binding:"required" structs:"username"`
	Password string `form:"password" json:"password" binding:"required" structs:"password"`
}
