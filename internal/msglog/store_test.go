package msglog

import (
	"context"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&ChatEntry{}, &AIEntry{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestAppendAndList_AscendingOrder(t *testing.T) {
	db := openTestDB(t)
	log := NewChatLog(db)
	ctx := context.Background()

	for i, content := range []string{"first", "second", "third"} {
		if _, err := log.Append(ctx, "room-order", uint64(i%2+1), RoleUser, content); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	entries, err := log.ListByPartition(ctx, "room-order")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"first", "second", "third"}
	for i, e := range entries {
		if e.Content != want[i] {
			t.Fatalf("entry %d: got %q want %q", i, e.Content, want[i])
		}
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].CreatedAt.Before(entries[i-1].CreatedAt) {
			t.Fatalf("entries not in non-decreasing timestamp order")
		}
	}

	// pure read: a second call with no writes returns the same sequence
	again, err := log.ListByPartition(ctx, "room-order")
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if len(again) != len(entries) {
		t.Fatalf("second read changed length: %d vs %d", len(again), len(entries))
	}
	for i := range again {
		if again[i].ID != entries[i].ID {
			t.Fatalf("second read changed order at %d", i)
		}
	}
}

func TestLatestAndCount(t *testing.T) {
	db := openTestDB(t)
	log := NewAILog(db)
	ctx := context.Background()

	latest, err := log.LatestByPartition(ctx, "sess-empty")
	if err != nil {
		t.Fatalf("latest on empty: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil latest on empty partition")
	}

	if _, err := log.Append(ctx, "sess-latest", 1, RoleUser, "hello"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := log.Append(ctx, "sess-latest", 1, RoleAssistant, "hi there"); err != nil {
		t.Fatalf("append: %v", err)
	}

	latest, err = log.LatestByPartition(ctx, "sess-latest")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.Content != "hi there" {
		t.Fatalf("unexpected latest: %+v", latest)
	}

	n, err := log.CountByPartition(ctx, "sess-latest")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected count 2, got %d", n)
	}
}

func TestDeleteAt_RemovesExactlyOne(t *testing.T) {
	db := openTestDB(t)
	log := NewChatLog(db)
	ctx := context.Background()

	a, err := log.Append(ctx, "room-del", 1, RoleUser, "keep me")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	b, err := log.Append(ctx, "room-del", 1, RoleUser, "delete me")
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := log.DeleteAt(ctx, "room-del", b.CreatedAt); err != nil {
		t.Fatalf("deleteAt: %v", err)
	}

	entries, err := log.ListByPartition(ctx, "room-del")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != a.ID {
		t.Fatalf("expected only %q to remain, got %+v", a.ID, entries)
	}

	// deleting a missing timestamp key is a not-found
	if err := log.DeleteAt(ctx, "room-del", b.CreatedAt); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestAppend_RejectsInvalidRole(t *testing.T) {
	db := openTestDB(t)
	log := NewChatLog(db)

	if _, err := log.Append(context.Background(), "room-x", 1, Role("moderator"), "hi"); err == nil {
		t.Fatalf("expected invalid role error")
	}
}

func TestDeletePartition(t *testing.T) {
	db := openTestDB(t)
	log := NewAILog(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := log.Append(ctx, "sess-cascade", 1, RoleUser, "m"); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if _, err := log.Append(ctx, "sess-other", 1, RoleUser, "other"); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := log.DeletePartition(ctx, "sess-cascade"); err != nil {
		t.Fatalf("delete partition: %v", err)
	}

	n, _ := log.CountByPartition(ctx, "sess-cascade")
	if n != 0 {
		t.Fatalf("expected empty partition, got %d", n)
	}
	n, _ = log.CountByPartition(ctx, "sess-other")
	if n != 1 {
		t.Fatalf("other partition must be untouched, got %d", n)
	}
}
