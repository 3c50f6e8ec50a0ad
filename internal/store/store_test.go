package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palasimi/ipa-cluster/internal/ir"
)

// createTestStore opens a fresh database in a temporary directory.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var devoicing = ir.SplitRule{
	Constraint:         ir.Constraint{Left: "de", Right: "en"},
	Left:               "b",
	Right:              "p",
	LeftBeforeContext:  []string{},
	LeftAfterContext:   []string{"#"},
	RightBeforeContext: []string{},
	RightAfterContext:  []string{"#"},
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		require.NoError(t, s.Close())
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	for _, table := range []string{"rule_sources", "runs", "run_members"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		assert.NoError(t, err, "table %q not found", table)
	}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpen_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestSaveAndLoadRules(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	source := "en de.\n| p ~ b / _ #"

	id, err := s.SaveRules(ctx, source, []ir.SplitRule{devoicing})
	require.NoError(t, err)
	assert.Equal(t, ir.SourceID(source), id)

	again, err := s.SaveRules(ctx, source, []ir.SplitRule{devoicing})
	require.NoError(t, err)
	assert.Equal(t, id, again, "saving twice is a no-op")

	rs, err := s.LoadRules(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, source, rs.Source)
	assert.Equal(t, ir.MustRulesHash([]ir.SplitRule{devoicing}), rs.RulesHash)
	assert.Equal(t, []ir.SplitRule{devoicing}, rs.Rules)
}

func TestSaveRulesEmpty(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id, err := s.SaveRules(ctx, "", nil)
	require.NoError(t, err)

	rs, err := s.LoadRules(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, rs.Rules)
}

func TestLoadRulesNotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.LoadRules(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAndLoadRun(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("run-1", "run-2")))
	ctx := context.Background()

	rulesID, err := s.SaveRules(ctx, "o ~ u", nil)
	require.NoError(t, err)

	run := &Run{
		RulesID:   rulesID,
		Epsilon:   1.1,
		MinPoints: 2,
		Clusters: [][]Member{
			{{IPA: "k o t", Language: "en"}, {IPA: "k u t", Language: "de"}},
			{{IPA: "m a", Language: "_"}, {IPA: "m a h", Language: "_"}},
		},
		Noise: []Member{{IPA: "z z", Language: "fr"}},
	}
	require.NoError(t, s.SaveRun(ctx, run))
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, int64(1), run.Seq)

	loaded, err := s.LoadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run, loaded)

	second := &Run{RulesID: rulesID, Epsilon: 2, MinPoints: 3}
	require.NoError(t, s.SaveRun(ctx, second))
	assert.Equal(t, int64(2), second.Seq)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []RunSummary{
		{ID: "run-1", RulesID: rulesID, Epsilon: 1.1, MinPoints: 2, Seq: 1, Clusters: 2, Members: 5},
		{ID: "run-2", RulesID: rulesID, Epsilon: 2, MinPoints: 3, Seq: 2, Clusters: 0, Members: 0},
	}, runs)
}

func TestSaveRunRequiresRuleSource(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	err := s.SaveRun(ctx, &Run{RulesID: "missing", Epsilon: 1, MinPoints: 2})
	require.Error(t, err, "foreign key violation")

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSaveRunUsesUUIDv7ByDefault(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rulesID, err := s.SaveRules(ctx, "a ~ b", nil)
	require.NoError(t, err)

	run := &Run{RulesID: rulesID, Epsilon: 1, MinPoints: 2}
	require.NoError(t, s.SaveRun(ctx, run))

	parsed, err := uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestLoadRunNotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.LoadRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRunsEmpty(t *testing.T) {
	s := createTestStore(t)
	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}
