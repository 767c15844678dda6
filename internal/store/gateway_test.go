package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyzick/harry-potter-halloween/internal/models"
)

func newTestGateway(t *testing.T, bin *fakeBin, fallbackEnabled bool) *Gateway {
	t.Helper()

	var remote *RemoteBin
	if bin != nil {
		remote = newTestBin(t, bin)
	} else {
		remote = NewRemoteBin("https://api.jsonbin.io/v3/b", "", "")
	}

	var local *LocalStore
	if fallbackEnabled {
		var err error
		local, err = OpenLocal(filepath.Join(t.TempDir(), "rsvps.db"))
		require.NoError(t, err)
		t.Cleanup(func() { local.Close() })
	}

	gw := NewGateway(remote, local, fallbackEnabled)
	gw.Now = func() time.Time { return time.UnixMilli(1730000000000) }
	seq := 0
	gw.NewID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return gw
}

func submission(name string) models.Submission {
	return models.Submission{
		Name:       name,
		Email:      name + "@owlmail.com",
		Attending:  true,
		GuestCount: 2,
		BringingItems: models.BringingItems{
			Drinks: []string{"Pumpkin Juice"},
		},
	}
}

func TestGateway_SaveThenList(t *testing.T) {
	bin := &fakeBin{}
	gw := newTestGateway(t, bin, true)
	ctx := context.Background()

	res, err := gw.Save(ctx, submission("Harry"))
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, res.Source)
	assert.False(t, res.Fallback)
	assert.Equal(t, "id-1", res.Record.ID)
	assert.Equal(t, int64(1730000000000), res.Record.Timestamp)

	records, err := gw.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Harry", records[0].Name)
	assert.Equal(t, "id-1", records[0].ID)
	assert.GreaterOrEqual(t, records[0].GuestCount, 1)
}

func TestGateway_SavePreservesKeyedEnvelope(t *testing.T) {
	bin := &fakeBin{document: []byte(`{"rsvps":[{"id":"old","name":"Cho","email":"c@o.com","attending":true,"guestCount":1}]}`)}
	gw := newTestGateway(t, bin, true)

	_, err := gw.Save(context.Background(), submission("Harry"))
	require.NoError(t, err)

	var wrapped map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(bin.stored(t), &wrapped))
	require.Contains(t, wrapped, "rsvps", "keyed envelope must survive a save")

	var records []models.RSVPRecord
	require.NoError(t, json.Unmarshal(wrapped["rsvps"], &records))
	require.Len(t, records, 2)
	assert.Equal(t, "old", records[0].ID)
	assert.Equal(t, "Harry", records[1].Name)
}

func TestGateway_SaveFallsBackWhenRemoteFails(t *testing.T) {
	bin := &fakeBin{failReads: true, failWrites: true}
	gw := newTestGateway(t, bin, true)
	ctx := context.Background()

	res, err := gw.Save(ctx, submission("Harry"))
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, res.Source)
	assert.True(t, res.Fallback, "degraded save must be flagged")

	// The record is readable while the remote store stays down.
	records, err := gw.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Harry", records[0].Name)
}

func TestGateway_SaveFallsBackWithoutCredentials(t *testing.T) {
	gw := newTestGateway(t, nil, true)

	res, err := gw.Save(context.Background(), submission("Harry"))
	require.NoError(t, err)
	assert.True(t, res.Fallback)
}

func TestGateway_RemoteExclusiveFailsHard(t *testing.T) {
	bin := &fakeBin{failReads: true}
	gw := newTestGateway(t, bin, false)
	ctx := context.Background()

	_, err := gw.Save(ctx, submission("Harry"))
	assert.Error(t, err)

	_, err = gw.List(ctx)
	assert.Error(t, err)

	_, err = gw.Delete(ctx, "whatever")
	assert.Error(t, err)
}

func TestGateway_SaveRejectsInvalidSubmission(t *testing.T) {
	gw := newTestGateway(t, &fakeBin{}, true)

	_, err := gw.Save(context.Background(), models.Submission{Email: "x@y.com"})
	assert.ErrorIs(t, err, models.ErrInvalidSubmission)
}

func TestGateway_DeleteRemovesExactlyOne(t *testing.T) {
	bin := &fakeBin{}
	gw := newTestGateway(t, bin, true)
	ctx := context.Background()

	_, err := gw.Save(ctx, submission("Harry"))
	require.NoError(t, err)
	_, err = gw.Save(ctx, submission("Ron"))
	require.NoError(t, err)

	res, err := gw.Delete(ctx, "id-1")
	require.NoError(t, err)
	assert.True(t, res.Found)

	records, err := gw.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "id-2", records[0].ID)

	// Deleting again is a no-op, not an error.
	res, err = gw.Delete(ctx, "id-1")
	require.NoError(t, err)
	assert.False(t, res.Found)

	records, err = gw.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGateway_ZeroRecordRemoteReadIsAuthoritative(t *testing.T) {
	bin := &fakeBin{document: []byte(`[]`)}
	gw := newTestGateway(t, bin, true)
	ctx := context.Background()

	// Seed the local store; a healthy-but-empty remote must still win.
	require.NoError(t, gw.local.Store([]models.RSVPRecord{{ID: "stale", Name: "Old", Email: "o@o.com", GuestCount: 1}}))

	records, err := gw.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGateway_SummaryReflectsLatestState(t *testing.T) {
	bin := &fakeBin{}
	gw := newTestGateway(t, bin, true)
	ctx := context.Background()

	_, err := gw.Save(ctx, submission("Harry"))
	require.NoError(t, err)

	s, err := gw.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Harry: Pumpkin Juice"}, s.Drinks)

	_, err = gw.Delete(ctx, "id-1")
	require.NoError(t, err)

	s, err = gw.Summary(ctx)
	require.NoError(t, err)
	assert.Empty(t, s.Drinks)
}

func TestGateway_ExportTotalsMatchIndependentSums(t *testing.T) {
	bin := &fakeBin{}
	gw := newTestGateway(t, bin, true)
	ctx := context.Background()

	subs := []models.Submission{submission("Harry"), submission("Ron"), submission("Molly")}
	subs[1].GuestCount = 3
	subs[2].Attending = false
	for _, s := range subs {
		_, err := gw.Save(ctx, s)
		require.NoError(t, err)
	}

	records, err := gw.List(ctx)
	require.NoError(t, err)

	wantGuests := 0
	for _, r := range records {
		if r.Attending {
			wantGuests += r.GuestCount
		}
	}
	assert.Equal(t, 5, wantGuests)
}
