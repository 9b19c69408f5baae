/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package utils

import (
	"os"
	"regexp"
)

// simple local@domain.tld shape, not a full RFC 5322 parser
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func LogError(err error) {
	os.Stderr.WriteString(err.Error() + "\n")
}

func ValidEmail(email string) bool {
	return emailShape.MatchString(email)
}

// ValidPhone accepts only all-digit strings of exactly 10 or 12 characters.
func ValidPhone(phone string) bool {
	if len(phone) != 10 && len(phone) != 12 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
