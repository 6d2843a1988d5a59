package cache

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/harborbank/account-facade/internal/models"
)

func TestMemoryGetMiss(t *testing.T) {
	c := NewMemory[models.Account](4)
	if _, ok := c.Get(context.Background(), "A001"); ok {
		t.Fatal("expected miss on empty cache")
	}
}

func TestMemoryPutGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[models.Account](4)

	account := models.Account{AccountID: "A001", HolderName: "Alice", Balance: decimal.RequireFromString("100.00")}
	c.Put(ctx, "A001", &account)

	got, ok := c.Get(ctx, "A001")
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if got.AccountID != "A001" || !got.Balance.Equal(account.Balance) {
		t.Errorf("got %+v", got)
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[models.Account](4)
	c.Put(ctx, "A001", &models.Account{AccountID: "A001", Balance: decimal.RequireFromString("100.00")})

	got, _ := c.Get(ctx, "A001")
	got.Balance = decimal.RequireFromString("999.00")

	again, _ := c.Get(ctx, "A001")
	if !again.Balance.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("cached value mutated through returned copy: %s", again.Balance)
	}
}

func TestMemoryOverwrite(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[models.Account](4)
	c.Put(ctx, "A001", &models.Account{AccountID: "A001", Balance: decimal.RequireFromString("100.00")})
	c.Put(ctx, "A001", &models.Account{AccountID: "A001", Balance: decimal.RequireFromString("150.00")})

	got, ok := c.Get(ctx, "A001")
	if !ok || !got.Balance.Equal(decimal.RequireFromString("150.00")) {
		t.Errorf("got %+v ok=%v", got, ok)
	}
}

func TestMemoryPutNilIsNoop(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[models.Account](4)
	c.Put(ctx, "A001", nil)
	if _, ok := c.Get(ctx, "A001"); ok {
		t.Fatal("nil Put must not create an entry")
	}
}

func TestMemoryInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[models.Account](4)
	c.Put(ctx, "A001", &models.Account{AccountID: "A001"})

	c.Invalidate(ctx, "A001")
	if _, ok := c.Get(ctx, "A001"); ok {
		t.Fatal("expected miss after Invalidate")
	}

	// invalidating an absent key is a no-op
	c.Invalidate(ctx, "A002")
}

func TestMemoryInvalidateAll(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[models.Account](4)
	c.Put(ctx, "A001", &models.Account{AccountID: "A001"})
	c.Put(ctx, "A002", &models.Account{AccountID: "A002"})

	c.InvalidateAll(ctx)
	if _, ok := c.Get(ctx, "A001"); ok {
		t.Error("A001 survived InvalidateAll")
	}
	if _, ok := c.Get(ctx, "A002"); ok {
		t.Error("A002 survived InvalidateAll")
	}
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[models.Account](2)
	c.Put(ctx, "A001", &models.Account{AccountID: "A001"})
	c.Put(ctx, "A002", &models.Account{AccountID: "A002"})

	// touch A001 so A002 becomes the eviction candidate
	c.Get(ctx, "A001")
	c.Put(ctx, "A003", &models.Account{AccountID: "A003"})

	if _, ok := c.Get(ctx, "A002"); ok {
		t.Error("expected A002 to be evicted")
	}
	if _, ok := c.Get(ctx, "A001"); !ok {
		t.Error("expected A001 to survive")
	}
	if _, ok := c.Get(ctx, "A003"); !ok {
		t.Error("expected A003 to be present")
	}
}

func TestMemoryListValues(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[[]models.Account](1)

	accounts := []models.Account{{AccountID: "A001"}, {AccountID: "A002"}}
	c.Put(ctx, AllAccountsKey, &accounts)

	got, ok := c.Get(ctx, AllAccountsKey)
	if !ok || len(*got) != 2 {
		t.Fatalf("got %+v ok=%v", got, ok)
	}
}
