package service

import (
	"testing"
	"time"
)

func TestMemoryRefreshTokenStore_StoreAndExists(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	if err := store.Store("jti-1", "user-1", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := store.Exists("jti-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected stored jti to exist")
	}

	ok, err = store.Exists("jti-unknown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("unknown jti must not exist")
	}
}

func TestMemoryRefreshTokenStore_Revoke(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	if err := store.Store("jti-1", "user-1", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Revoke("jti-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := store.Exists("jti-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("revoked jti must not exist")
	}

	// Revocar algo ya revocado no es un error.
	if err := store.Revoke("jti-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMemoryRefreshTokenStore_TTLExpiry(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	if err := store.Store("jti-1", "user-1", 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	ok, err := store.Exists("jti-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expired jti must not exist")
	}
}

func TestMemoryRefreshTokenStore_EmptyJTIIsIgnored(t *testing.T) {
	store := NewMemoryRefreshTokenStore()

	if err := store.Store("  ", "user-1", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ok, err := store.Exists("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("blank jti must never be stored")
	}
}
