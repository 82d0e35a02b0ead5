package service

import (
	"context"
	"testing"

	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/testutil"

	"github.com/btcsuite/btcd/chaincfg"
)

type fixture struct {
	clock       *testutil.Clock
	games       *testutil.MemGameStore
	config      *testutil.MemConfigStore
	deposits    *testutil.MemDepositStore
	withdrawals *testutil.MemWithdrawalStore
	users       *testutil.MemUserStore
	promos      *testutil.MemPromotionStore
	auditStore  *testutil.MemAuditStore
	events      *testutil.RecordingPublisher

	audit       *AuditService
	configSvc   *ConfigService
	depositSvc  *DepositService
	withdrawSvc *WithdrawalService
	adminSvc    *AdminService
	gameSvc     *GameService

	game domain.Game
}

func newFixture(t *testing.T, cfg map[string]string) *fixture {
	t.Helper()

	f := &fixture{clock: testutil.NewClock()}
	f.games = testutil.NewMemGameStore(f.clock)
	f.config = testutil.NewMemConfigStore(f.clock, cfg)
	f.deposits = testutil.NewMemDepositStore(f.clock, f.games)
	f.withdrawals = testutil.NewMemWithdrawalStore(f.clock, f.games)
	f.users = testutil.NewMemUserStore(f.clock)
	f.promos = testutil.NewMemPromotionStore(f.clock)
	f.auditStore = testutil.NewMemAuditStore()
	f.events = &testutil.RecordingPublisher{}

	f.audit = NewAuditService(f.auditStore)
	f.configSvc = NewConfigService(f.config, &chaincfg.MainNetParams, f.audit)
	f.depositSvc = NewDepositService(f.games, f.configSvc, f.deposits, f.audit, f.events)
	f.withdrawSvc = NewWithdrawalService(f.games, f.configSvc, f.withdrawals, f.audit, f.events)
	f.adminSvc = NewAdminService(f.deposits, f.withdrawals, f.audit, f.events, false)
	f.gameSvc = NewGameService(f.games, f.deposits, f.withdrawals, f.audit)

	f.game = f.games.Add(domain.Game{ID: "game-orion", Name: "Orionstars", Slug: "orionstars", Active: true})
	return f
}

var (
	ctx       = context.Background()
	adminMeta = RequestMeta{ActorID: "admin-1", IP: "127.0.0.1"}
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
