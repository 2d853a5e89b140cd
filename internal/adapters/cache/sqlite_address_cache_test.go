package cache

import (
	"context"
	"delivery-tracker/internal/adapters/store"
	"delivery-tracker/internal/platform/db"
	"testing"
)

func TestSqliteAddressCacheRoundTrip(t *testing.T) {
	conn, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()

	if err := store.InitSqliteSchema(conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	ctx := context.Background()
	c := NewSqliteAddressCache(conn)

	err = c.PutMany(ctx, map[string]string{
		"-23.55120,-46.63310": "Rua A, 10",
		"-23.61010,-46.70220": "Rua B, 20",
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.PutMany(ctx, map[string]string{"-23.55120,-46.63310": "Rua A, 12"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := c.GetMany(ctx, []string{"-23.55120,-46.63310", " ", "-23.55120,-46.63310", "0.00000,0.00000"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 (%v)", len(got), got)
	}
	if got["-23.55120,-46.63310"] != "Rua A, 12" {
		t.Fatalf("address = %q, want Rua A, 12", got["-23.55120,-46.63310"])
	}
}
