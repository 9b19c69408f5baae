/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package audit

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/nethesis/memorial-api/models"
	"github.com/nethesis/memorial-api/store"
	"github.com/nethesis/memorial-api/utils"
)

var auditStore store.AuditStore

// Init wires the audit sink once at startup. Until it is called, Store is
// a no-op.
func Init(s store.AuditStore) {
	auditStore = s
}

// Store appends an audit entry. Best-effort: a failed write is logged and
// never surfaces to the request that triggered it.
func Store(entry models.Audit) {
	if auditStore == nil {
		return
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := auditStore.Append(ctx, &entry); err != nil {
		utils.LogError(errors.Wrap(err, "[AUDIT] failed to store "+entry.Action+" entry"))
	}
}
