package auth

import (
	"errors"
	"testing"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		identity Identity
		ownerID  string
		wantErr  error
	}{
		{
			name:     "owner accesses own resource",
			identity: Identity{Subject: "u1"},
			ownerID:  "u1",
			wantErr:  nil,
		},
		{
			name:     "cross-owner access denied",
			identity: Identity{Subject: "u1"},
			ownerID:  "u2",
			wantErr:  ErrForbidden,
		},
		{
			name:     "empty subject never matches",
			identity: Identity{},
			ownerID:  "",
			wantErr:  ErrForbidden,
		},
		{
			name:     "empty owner denied",
			identity: Identity{Subject: "u1"},
			ownerID:  "",
			wantErr:  ErrForbidden,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Authorize(tt.identity, tt.ownerID)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAuthorize_Symmetric(t *testing.T) {
	t.Parallel()

	a := Identity{Subject: "alice"}
	b := Identity{Subject: "bob"}

	if err := Authorize(a, "bob"); !errors.Is(err, ErrForbidden) {
		t.Errorf("a on b's resource: expected ErrForbidden, got %v", err)
	}
	if err := Authorize(b, "alice"); !errors.Is(err, ErrForbidden) {
		t.Errorf("b on a's resource: expected ErrForbidden, got %v", err)
	}
	if err := Authorize(a, "alice"); err != nil {
		t.Errorf("a on own resource: expected success, got %v", err)
	}
}
