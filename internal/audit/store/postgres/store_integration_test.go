//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workpaper/internal/audit"
	id "workpaper/pkg/domain"
	"workpaper/pkg/platform/tx"
	"workpaper/pkg/testutil/containers"
)

const auditSchema = `
	CREATE TABLE IF NOT EXISTS audit_events (
	    id         UUID PRIMARY KEY,
	    category   TEXT NOT NULL,
	    occurred_at TIMESTAMPTZ NOT NULL,
	    actor_id   UUID NOT NULL,
	    target_id  UUID,
	    target_ids UUID[],
	    paper_id   UUID,
	    action     TEXT NOT NULL,
	    outcome    TEXT NOT NULL,
	    reason     TEXT,
	    request_id TEXT,
	    device     TEXT
	)
`

func TestPostgresAppendAndListByActor(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	pg.ExecSchema(t, auditSchema)
	store := New(pg.DB(t))
	ctx := context.Background()

	actor := id.NewIdentityID()
	target := id.NewIdentityID()
	base := time.Now().UTC().Truncate(time.Millisecond)

	first := audit.Event{
		Category:  audit.CategoryCompliance,
		Timestamp: base,
		ActorID:   actor,
		TargetID:  target,
		Action:    string(audit.EventIdentitySuspended),
		Outcome:   "success",
		Reason:    "policy violation",
		RequestID: "req-1",
		Device:    "Chrome on Windows",
	}
	second := audit.Event{
		Category:  audit.CategoryCompliance,
		Timestamp: base.Add(time.Second),
		ActorID:   actor,
		TargetID:  target,
		Action:    string(audit.EventIdentityReactivated),
		Outcome:   "success",
	}
	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, second))
	require.NoError(t, store.Append(ctx, audit.Event{
		Category:  audit.CategoryCompliance,
		Timestamp: base,
		ActorID:   id.NewIdentityID(),
		Action:    string(audit.EventPaperCreated),
		Outcome:   "success",
	}))

	events, err := store.ListByActor(ctx, actor)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, string(audit.EventIdentitySuspended), events[0].Action)
	assert.Equal(t, string(audit.EventIdentityReactivated), events[1].Action)
	assert.Equal(t, target, events[0].TargetID)
	assert.Equal(t, "policy violation", events[0].Reason)
	assert.Equal(t, "req-1", events[0].RequestID)
	assert.Equal(t, "Chrome on Windows", events[0].Device)
}

func TestPostgresAppendJoinsContextTransaction(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	pg.ExecSchema(t, auditSchema)
	db := pg.DB(t)
	store := New(db)
	ctx := context.Background()

	actor := id.NewIdentityID()
	event := audit.Event{
		Category:  audit.CategoryCompliance,
		Timestamp: time.Now().UTC(),
		ActorID:   actor,
		Action:    string(audit.EventIdentitySuspended),
		Outcome:   "success",
	}

	sqlTx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.Append(tx.WithTx(ctx, sqlTx), event))
	require.NoError(t, sqlTx.Rollback())

	events, err := store.ListByActor(ctx, actor)
	require.NoError(t, err)
	assert.Empty(t, events, "a rolled-back transaction must take the audit append with it")

	sqlTx, err = db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.Append(tx.WithTx(ctx, sqlTx), event))
	require.NoError(t, sqlTx.Commit())

	events, err = store.ListByActor(ctx, actor)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
