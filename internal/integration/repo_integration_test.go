package integration

import (
	"context"
	"testing"

	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRepository_SlugUniqueAndDeleteGuard(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	games := repository.NewGameRepository(db)
	deposits := repository.NewDepositRepository(db)

	g := &domain.Game{ID: uuid.NewString(), Name: "Orionstars", Slug: "orionstars", Active: true}
	require.NoError(t, games.Create(ctx, g))
	assert.False(t, g.CreatedAt.IsZero())

	dup := &domain.Game{ID: uuid.NewString(), Name: "Orion 2", Slug: "orionstars", Active: true}
	assert.ErrorIs(t, games.Create(ctx, dup), repository.ErrDuplicate)

	got, err := games.GetBySlug(ctx, "orionstars")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, g.ID, got.ID)

	missing, err := games.GetByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)

	d := &domain.Deposit{
		ID:            uuid.NewString(),
		GameID:        g.ID,
		Username:      "player1",
		Amount:        decimal.RequireFromString("0.01"),
		PaymentMethod: domain.MethodBitcoin,
		Address:       "bc1qsnapshot",
		Status:        domain.StatusPending,
	}
	require.NoError(t, deposits.Create(ctx, d))

	assert.ErrorIs(t, games.Delete(ctx, g.ID), repository.ErrReferenced)
	assert.ErrorIs(t, games.Delete(ctx, uuid.NewString()), repository.ErrNotFound)
}

func TestDepositRepository_ConditionalStatusUpdate(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	games := repository.NewGameRepository(db)
	deposits := repository.NewDepositRepository(db)

	g := &domain.Game{ID: uuid.NewString(), Name: "Fish Table", Slug: "fish-table", Active: true}
	require.NoError(t, games.Create(ctx, g))

	d := &domain.Deposit{
		ID:            uuid.NewString(),
		GameID:        g.ID,
		Username:      "Player1",
		Amount:        decimal.RequireFromString("0.015"),
		PaymentMethod: domain.MethodLightning,
		Address:       "lnurl1snapshot",
		Status:        domain.StatusPending,
	}
	require.NoError(t, deposits.Create(ctx, d))

	got, err := deposits.GetByID(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Game)
	assert.Equal(t, "fish-table", got.Game.Slug)
	assert.True(t, got.Amount.Equal(d.Amount))
	assert.Equal(t, "lnurl1snapshot", got.Address)

	txid := "f00d"
	upd := domain.StatusUpdate{ID: d.ID, Type: domain.TxDeposit, Status: domain.StatusCompleted, TxID: &txid}
	done, err := deposits.UpdateStatus(ctx, domain.StatusPending, upd)
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.Equal(t, domain.StatusCompleted, done.Status)
	assert.Equal(t, "f00d", done.TxID)
	assert.True(t, done.UpdatedAt.After(got.UpdatedAt) || done.UpdatedAt.Equal(got.UpdatedAt))

	// second decision against a stale status matches nothing
	again, err := deposits.UpdateStatus(ctx, domain.StatusPending, domain.StatusUpdate{ID: d.ID, Status: domain.StatusRejected})
	require.NoError(t, err)
	assert.Nil(t, again)

	list, err := deposits.List(ctx, domain.TxFilter{Username: "player1"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	sum, err := deposits.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum.Completed)
	assert.Equal(t, int64(0), sum.Pending)
	assert.True(t, sum.CompletedAmount.Equal(decimal.RequireFromString("0.015")))
}

func TestWithdrawalRepository_PersistsFeeSnapshot(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	games := repository.NewGameRepository(db)
	withdrawals := repository.NewWithdrawalRepository(db)

	g := &domain.Game{ID: uuid.NewString(), Name: "Lucky Tiger", Slug: "lucky-tiger", Active: true}
	require.NoError(t, games.Create(ctx, g))

	w := &domain.Withdrawal{
		ID:            uuid.NewString(),
		GameID:        g.ID,
		Username:      "bob",
		Amount:        decimal.RequireFromString("0.002"),
		NetworkFee:    decimal.RequireFromString("0.0001"),
		NetAmount:     decimal.RequireFromString("0.0019"),
		WalletType:    domain.MethodBitcoin,
		WalletAddress: "bc1qbob",
		Status:        domain.StatusPending,
	}
	require.NoError(t, withdrawals.Create(ctx, w))

	got, err := withdrawals.GetByID(ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.NetAmount.Equal(w.NetAmount))
	assert.True(t, got.NetworkFee.Equal(w.NetworkFee))

	pending, err := withdrawals.List(ctx, domain.TxFilter{Status: domain.StatusPending, GameID: g.ID})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	n, err := withdrawals.CountByGame(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestConfigRepository_InsertMissingKeepsExisting(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	cfg := repository.NewConfigRepository(db)

	require.NoError(t, cfg.Upsert(ctx, map[string]string{domain.ConfigBTCAddress: "bc1qadmin"}))
	require.NoError(t, cfg.InsertMissing(ctx, map[string]string{
		domain.ConfigBTCAddress: "bc1qseed",
		domain.ConfigNetworkFee: "0.0002",
	}))

	v, ok, err := cfg.Get(ctx, domain.ConfigBTCAddress)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bc1qadmin", v)

	v, ok, err = cfg.Get(ctx, domain.ConfigNetworkFee)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0.0002", v)

	_, ok, err = cfg.Get(ctx, domain.ConfigLightningAddress)
	require.NoError(t, err)
	assert.False(t, ok)
}
