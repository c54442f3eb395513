package persist

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/ringpong/server/internal/config"
	"go.uber.org/zap/zaptest"
)

// openTestDB connects to RINGPONG_TEST_DSN or skips.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("RINGPONG_TEST_DSN")
	if dsn == "" {
		t.Skip("RINGPONG_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.Defaults().Database
	cfg.DSN = dsn
	db, err := NewDB(ctx, cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(db.Close)
	if err := RunMigrations(ctx, db.Pool); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	return db
}

func TestMatchRepoSaveUpdatesRecords(t *testing.T) {
	db := openTestDB(t)
	repo := NewMatchRepo(db)
	ctx := context.Background()

	suffix := fmt.Sprint(time.Now().UnixNano())
	alice, bob := "alice-"+suffix, "bob-"+suffix
	now := time.Now().UTC()

	for i, res := range []MatchResult{
		{Code: "AAAAAA", Arena: "classic", LeftName: alice, RightName: bob, LeftScore: 7, RightScore: 3, Winner: "left"},
		{Code: "BBBBBB", Arena: "classic", LeftName: bob, RightName: alice, LeftScore: 7, RightScore: 5, Winner: "left"},
		{Code: "CCCCCC", Arena: "wide", LeftName: alice, RightName: "", LeftScore: 2, RightScore: 0, Winner: "left", Forfeit: true},
	} {
		res.StartedAt = now.Add(-time.Minute)
		res.EndedAt = now
		if err := repo.Save(ctx, res); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	a, err := repo.Record(ctx, alice)
	if err != nil || a == nil {
		t.Fatalf("record alice: %v %v", a, err)
	}
	if a.Wins != 2 || a.Losses != 1 || a.GoalsFor != 14 || a.GoalsAgainst != 10 {
		t.Fatalf("alice = %+v", a)
	}

	missing, err := repo.Record(ctx, "nobody-"+suffix)
	if err != nil || missing != nil {
		t.Fatalf("missing record = %v, %v", missing, err)
	}

	top, err := repo.Leaderboard(ctx, 1000)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(top) == 0 {
		t.Fatalf("empty leaderboard")
	}
}
