package store

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestValidTemplateKind(t *testing.T) {
	for _, kind := range []string{"caption", "threads", "script"} {
		if !ValidTemplateKind(kind) {
			t.Errorf("%q should be valid", kind)
		}
	}
	for _, kind := range []string{"", "CAPTION", "post", "reel"} {
		if ValidTemplateKind(kind) {
			t.Errorf("%q should be invalid", kind)
		}
	}
}

func TestNotFoundMapping(t *testing.T) {
	err := notFound(pgx.ErrNoRows, "reel abc")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("pgx.ErrNoRows should map to ErrNotFound, got %v", err)
	}

	other := errors.New("connection reset")
	err = notFound(other, "reel abc")
	if errors.Is(err, ErrNotFound) {
		t.Error("unrelated errors must not map to ErrNotFound")
	}
	if !errors.Is(err, other) {
		t.Error("original error should be wrapped")
	}
}
