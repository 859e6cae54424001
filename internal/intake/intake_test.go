package intake

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/mst-sync/internal/bracket"
	"github.com/DoyleJ11/mst-sync/internal/catalog"
	"github.com/DoyleJ11/mst-sync/internal/engine"
	"github.com/DoyleJ11/mst-sync/internal/replay"
	"github.com/DoyleJ11/mst-sync/internal/scoreboard"
	"github.com/DoyleJ11/mst-sync/internal/session"
	"github.com/DoyleJ11/mst-sync/internal/sink"
)

type captureTarget struct{ updates []engine.NewFile }

func (c *captureTarget) ApplyNewFile(_ context.Context, u engine.NewFile) error {
	c.updates = append(c.updates, u)
	return nil
}

func singles() [4]replay.Player {
	return [4]replay.Player{
		{Port: 1, Type: replay.PlayerHuman, CharacterID: 9, Costume: 2, ConnectCode: "ZAIN#0"},
		{Port: 2, Type: replay.PlayerEmpty},
		{Port: 3, Type: replay.PlayerHuman, CharacterID: 15, Costume: 0, ConnectCode: "HBOX#305"},
		{Port: 4, Type: replay.PlayerEmpty},
	}
}

func TestHandleGame_ResolvesEntrants(t *testing.T) {
	dir := bracket.NewMemorySource()
	dir.PutEntrant("ZAIN#0", bracket.Entrant{ID: 10, Name: "Zain", Prefix: "C9"})

	target := &captureTarget{}
	in := New(target, nil, dir, nil, nil)
	require.NoError(t, in.HandleGame(context.Background(), singles()))

	require.Len(t, target.updates, 1)
	u := target.updates[0]
	assert.Equal(t, engine.Side{EntrantID: 10, Name: "Zain", Team: "C9", Character: catalog.Marth, Skin: catalog.SkinGreen}, u.P1)
	assert.Equal(t, engine.Side{Character: catalog.Jigglypuff, Skin: catalog.SkinDefault}, u.P2, "unknown code stays unresolved")
	assert.Nil(t, u.Set)
}

func TestHandleGame_IgnoresDoubles(t *testing.T) {
	players := singles()
	players[1].Type = replay.PlayerHuman

	target := &captureTarget{}
	require.NoError(t, New(target, nil, nil, nil, nil).HandleGame(context.Background(), players))
	assert.Empty(t, target.updates)
}

// zainVsHbox is a bracket where both singles() players share set 5.
func zainVsHbox() *bracket.MemorySource {
	src := bracket.NewMemorySource()
	src.PutEntrant("ZAIN#0", bracket.Entrant{ID: 10, Name: "Zain"})
	src.PutEntrant("HBOX#305", bracket.Entrant{ID: 20, Name: "Hbox"})
	set := bracket.PendingSet{
		ID:            5,
		Entrant1ID:    20,
		Entrant1Name:  "Hbox",
		Entrant2ID:    10,
		Entrant2Name:  "Zain",
		Entrant2Score: 1,
		FullRoundText: "Winners Round 1",
		BestOf:        5,
	}
	src.Put(10, []bracket.PendingSet{set, {ID: 6}})
	src.Put(20, []bracket.PendingSet{set})
	return src
}

func TestHandleGame_AttachesSharedSet(t *testing.T) {
	src := zainVsHbox()
	target := &captureTarget{}
	require.NoError(t, New(target, nil, src, src, nil).HandleGame(context.Background(), singles()))

	require.Len(t, target.updates, 1)
	require.NotNil(t, target.updates[0].Set)
	assert.Equal(t, engine.SetSnapshot{ID: 5, P1Score: 1, P2Score: 0, BestOf: 5, Round: "Winners Round 1"}, *target.updates[0].Set)
}

func TestHandleGame_NoSetWithoutBothEntrants(t *testing.T) {
	src := zainVsHbox()
	players := singles()
	players[2].ConnectCode = "NOPE#1"

	target := &captureTarget{}
	require.NoError(t, New(target, nil, src, src, nil).HandleGame(context.Background(), players))
	require.Len(t, target.updates, 1)
	assert.Nil(t, target.updates[0].Set)
}

func TestHandleGame_KeepsScoreAcrossGamesOfASet(t *testing.T) {
	ctx := context.Background()
	src := bracket.NewMemorySource()
	src.PutEntrant("ZAIN#0", bracket.Entrant{ID: 1, Name: "Zain"})
	src.PutEntrant("HBOX#305", bracket.Entrant{ID: 2, Name: "Hbox"})
	set := bracket.PendingSet{ID: 5, Entrant1ID: 1, Entrant1Name: "Zain", Entrant2ID: 2, Entrant2Name: "Hbox", FullRoundText: "Winners Round 1", BestOf: 3}
	src.Put(1, []bracket.PendingSet{set})
	src.Put(2, []bracket.PendingSet{set})
	pending, err := src.PendingSets(ctx, []scoreboard.EntrantID{1, 2})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "scoreboard.json")
	s := session.New(ctx, session.Config{
		Settings: session.Settings{Enabled: true, OutputPath: out, SponsorDisplay: true, SkinDisplay: true},
		Sink:     sink.NewFileSink(),
	})
	defer func() { s.Inbox() <- session.Shutdown{} }()
	in := New(s, nil, src, src, nil)

	board := func() scoreboard.Scoreboard {
		t.Helper()
		v, err := s.State(ctx)
		require.NoError(t, err)
		return v.Board
	}

	// game 1
	require.NoError(t, in.HandleGame(ctx, singles()))
	require.NoError(t, s.ApplyPendingSets(ctx, pending))
	require.NoError(t, s.ApplyGameEnd(ctx, engine.GameEnd{P1: true}))
	b := board()
	require.Equal(t, 1, b.P1.Score)
	require.Equal(t, "Winners Round 1", b.Round)

	// game 2: the bracket has not been told about game 1 yet
	require.NoError(t, in.HandleGame(ctx, singles()))
	b = board()
	assert.Equal(t, 1, b.P1.Score, "same set keeps the higher score")
	assert.Equal(t, "Winners Round 1", b.Round)

	require.NoError(t, s.ApplyPendingSets(ctx, pending))
	b = board()
	assert.Equal(t, 1, b.P1.Score)
	assert.Equal(t, 0, b.P2.Score)

	tracked, err := s.Tracked(ctx)
	require.NoError(t, err)
	assert.Equal(t, scoreboard.Tracked{P1EntrantID: 1, P2EntrantID: 2, SetID: 5}, tracked)

	written, err := sink.NewFileSink().Read(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, 1, written.P1.Score)
	assert.Equal(t, "Zain", written.P1.Name)
}
