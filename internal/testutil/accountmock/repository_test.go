package accountmock

import (
	"context"
	"errors"
	"testing"

	domain "collateral-lending/internal/domain/account"
)

func TestRepo(t *testing.T) {
	ctx := context.Background()
	a := &domain.BorrowerAccount{OwnerID: "o"}

	m := &Repo{}
	if err := m.Create(ctx, a); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
	if err := m.Save(ctx, a); err != nil {
		t.Fatalf("Save default: want nil, got %v", err)
	}
	if _, err := m.GetByOwnerID(ctx, "o"); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetByOwnerID default: want context.Canceled, got %v", err)
	}
	if _, err := m.GetByOwnerIDForUpdate(ctx, "o"); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetByOwnerIDForUpdate default: want context.Canceled, got %v", err)
	}

	m.GetByOwnerIDForUpdateFn = func(_ context.Context, ownerID string) (*domain.BorrowerAccount, error) {
		if ownerID != "o" {
			t.Fatalf("ownerID = %q", ownerID)
		}
		return a, nil
	}
	if got, err := m.GetByOwnerIDForUpdate(ctx, "o"); err != nil || got != a {
		t.Fatalf("GetByOwnerIDForUpdate: got %+v, %v", got, err)
	}
}
