// Package testutil provides in-memory implementations of the service storage
// ports for unit and handler tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"crypto_cashier/internal/domain"
	"crypto_cashier/internal/repository"

	"github.com/shopspring/decimal"
)

// Clock hands out strictly increasing timestamps so ordering is deterministic.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// MemGameStore is an in-memory GameStore.
type MemGameStore struct {
	mu    sync.RWMutex
	games map[string]domain.Game
	clock *Clock
	Err   error
}

func NewMemGameStore(clock *Clock) *MemGameStore {
	return &MemGameStore{games: make(map[string]domain.Game), clock: clock}
}

// Add stores g as-is and returns it.
func (m *MemGameStore) Add(g domain.Game) domain.Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = m.clock.Now()
		g.UpdatedAt = g.CreatedAt
	}
	m.games[g.ID] = g
	return g
}

func (m *MemGameStore) List(_ context.Context, activeOnly bool) ([]domain.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []domain.Game
	for _, g := range m.games {
		if activeOnly && !g.Active {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemGameStore) GetByID(_ context.Context, id string) (*domain.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	g, ok := m.games[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (m *MemGameStore) GetBySlug(_ context.Context, slug string) (*domain.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, g := range m.games {
		if g.Slug == slug {
			g := g
			return &g, nil
		}
	}
	return nil, nil
}

func (m *MemGameStore) Create(_ context.Context, g *domain.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, existing := range m.games {
		if existing.Slug == g.Slug {
			return repository.ErrDuplicate
		}
	}
	g.CreatedAt = m.clock.Now()
	g.UpdatedAt = g.CreatedAt
	m.games[g.ID] = *g
	return nil
}

func (m *MemGameStore) Update(_ context.Context, g *domain.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.games[g.ID]; !ok {
		return repository.ErrNotFound
	}
	g.UpdatedAt = m.clock.Now()
	m.games[g.ID] = *g
	return nil
}

func (m *MemGameStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.games[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.games, id)
	return nil
}

func (m *MemGameStore) ref(id string) *domain.GameRef {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil
	}
	return &domain.GameRef{ID: g.ID, Name: g.Name, Slug: g.Slug}
}

// MemConfigStore is an in-memory ConfigStore.
type MemConfigStore struct {
	mu     sync.RWMutex
	values map[string]domain.SystemConfig
	clock  *Clock
	Err    error
}

func NewMemConfigStore(clock *Clock, values map[string]string) *MemConfigStore {
	m := &MemConfigStore{values: make(map[string]domain.SystemConfig), clock: clock}
	for k, v := range values {
		m.values[k] = domain.SystemConfig{Key: k, Value: v, UpdatedAt: clock.Now()}
	}
	return m
}

func (m *MemConfigStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return "", false, m.Err
	}
	e, ok := m.values[key]
	return e.Value, ok, nil
}

func (m *MemConfigStore) List(_ context.Context) ([]domain.SystemConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]domain.SystemConfig, 0, len(m.values))
	for _, e := range m.values {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *MemConfigStore) Upsert(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for k, v := range values {
		m.values[k] = domain.SystemConfig{Key: k, Value: v, UpdatedAt: m.clock.Now()}
	}
	return nil
}

func (m *MemConfigStore) InsertMissing(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for k, v := range values {
		if _, ok := m.values[k]; !ok {
			m.values[k] = domain.SystemConfig{Key: k, Value: v, UpdatedAt: m.clock.Now()}
		}
	}
	return nil
}

func (m *MemConfigStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

func matchesFilter(status domain.Status, gameID, username string, f domain.TxFilter) bool {
	if f.Status != "" && status != f.Status {
		return false
	}
	if f.GameID != "" && gameID != f.GameID {
		return false
	}
	if f.Username != "" && !strings.EqualFold(username, f.Username) {
		return false
	}
	return true
}

func limitOf(f domain.TxFilter) int {
	if f.Limit <= 0 {
		return 100
	}
	return f.Limit
}

// MemDepositStore is an in-memory DepositStore.
type MemDepositStore struct {
	mu       sync.RWMutex
	deposits map[string]domain.Deposit
	games    *MemGameStore
	clock    *Clock
	Err      error
}

func NewMemDepositStore(clock *Clock, games *MemGameStore) *MemDepositStore {
	return &MemDepositStore{deposits: make(map[string]domain.Deposit), games: games, clock: clock}
}

func (m *MemDepositStore) Create(_ context.Context, d *domain.Deposit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	d.CreatedAt = m.clock.Now()
	d.UpdatedAt = d.CreatedAt
	m.deposits[d.ID] = *d
	return nil
}

// Put stores d without touching timestamps.
func (m *MemDepositStore) Put(d domain.Deposit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deposits[d.ID] = d
}

func (m *MemDepositStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.deposits)
}

func (m *MemDepositStore) GetByID(_ context.Context, id string) (*domain.Deposit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	d, ok := m.deposits[id]
	if !ok {
		return nil, nil
	}
	d.Game = m.games.ref(d.GameID)
	return &d, nil
}

func (m *MemDepositStore) List(_ context.Context, f domain.TxFilter) ([]domain.Deposit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []domain.Deposit
	for _, d := range m.deposits {
		if matchesFilter(d.Status, d.GameID, d.Username, f) {
			d.Game = m.games.ref(d.GameID)
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if n := limitOf(f); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *MemDepositStore) UpdateStatus(_ context.Context, expected domain.Status, upd domain.StatusUpdate) (*domain.Deposit, error) {
	m.mu.Lock()
	if m.Err != nil {
		m.mu.Unlock()
		return nil, m.Err
	}
	d, ok := m.deposits[upd.ID]
	if !ok || d.Status != expected {
		m.mu.Unlock()
		return nil, nil
	}
	d.Status = upd.Status
	if upd.TxID != nil {
		d.TxID = *upd.TxID
	}
	if upd.Notes != nil {
		d.Notes = *upd.Notes
	}
	d.UpdatedAt = m.clock.Now()
	m.deposits[d.ID] = d
	m.mu.Unlock()

	d.Game = m.games.ref(d.GameID)
	return &d, nil
}

func (m *MemDepositStore) CountByGame(_ context.Context, gameID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, d := range m.deposits {
		if d.GameID == gameID {
			n++
		}
	}
	return n, nil
}

func (m *MemDepositStore) Summary(_ context.Context) (domain.TxSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := domain.TxSummary{CompletedAmount: decimal.Zero}
	for _, d := range m.deposits {
		switch d.Status {
		case domain.StatusPending:
			s.Pending++
		case domain.StatusCompleted:
			s.Completed++
			s.CompletedAmount = s.CompletedAmount.Add(d.Amount)
		case domain.StatusRejected:
			s.Rejected++
		}
	}
	return s, nil
}

// MemWithdrawalStore is an in-memory WithdrawalStore.
type MemWithdrawalStore struct {
	mu          sync.RWMutex
	withdrawals map[string]domain.Withdrawal
	games       *MemGameStore
	clock       *Clock
	Err         error
}

func NewMemWithdrawalStore(clock *Clock, games *MemGameStore) *MemWithdrawalStore {
	return &MemWithdrawalStore{withdrawals: make(map[string]domain.Withdrawal), games: games, clock: clock}
}

func (m *MemWithdrawalStore) Create(_ context.Context, w *domain.Withdrawal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	w.CreatedAt = m.clock.Now()
	w.UpdatedAt = w.CreatedAt
	m.withdrawals[w.ID] = *w
	return nil
}

// Put stores w without touching timestamps.
func (m *MemWithdrawalStore) Put(w domain.Withdrawal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.withdrawals[w.ID] = w
}

func (m *MemWithdrawalStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.withdrawals)
}

func (m *MemWithdrawalStore) GetByID(_ context.Context, id string) (*domain.Withdrawal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	w, ok := m.withdrawals[id]
	if !ok {
		return nil, nil
	}
	w.Game = m.games.ref(w.GameID)
	return &w, nil
}

func (m *MemWithdrawalStore) List(_ context.Context, f domain.TxFilter) ([]domain.Withdrawal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []domain.Withdrawal
	for _, w := range m.withdrawals {
		if matchesFilter(w.Status, w.GameID, w.Username, f) {
			w.Game = m.games.ref(w.GameID)
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if n := limitOf(f); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *MemWithdrawalStore) UpdateStatus(_ context.Context, expected domain.Status, upd domain.StatusUpdate) (*domain.Withdrawal, error) {
	m.mu.Lock()
	if m.Err != nil {
		m.mu.Unlock()
		return nil, m.Err
	}
	w, ok := m.withdrawals[upd.ID]
	if !ok || w.Status != expected {
		m.mu.Unlock()
		return nil, nil
	}
	w.Status = upd.Status
	if upd.TxID != nil {
		w.TxID = *upd.TxID
	}
	if upd.Notes != nil {
		w.Notes = *upd.Notes
	}
	w.UpdatedAt = m.clock.Now()
	m.withdrawals[w.ID] = w
	m.mu.Unlock()

	w.Game = m.games.ref(w.GameID)
	return &w, nil
}

func (m *MemWithdrawalStore) CountByGame(_ context.Context, gameID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, w := range m.withdrawals {
		if w.GameID == gameID {
			n++
		}
	}
	return n, nil
}

func (m *MemWithdrawalStore) Summary(_ context.Context) (domain.TxSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := domain.TxSummary{CompletedAmount: decimal.Zero}
	for _, w := range m.withdrawals {
		switch w.Status {
		case domain.StatusPending:
			s.Pending++
		case domain.StatusCompleted:
			s.Completed++
			s.CompletedAmount = s.CompletedAmount.Add(w.NetAmount)
		case domain.StatusRejected:
			s.Rejected++
		}
	}
	return s, nil
}

// MemUserStore is an in-memory UserStore.
type MemUserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
	clock *Clock
}

func NewMemUserStore(clock *Clock) *MemUserStore {
	return &MemUserStore{users: make(map[string]domain.User), clock: clock}
}

func (m *MemUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *MemUserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *MemUserStore) List(_ context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.User
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemUserStore) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicate
		}
	}
	u.CreatedAt = m.clock.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	return nil
}

func (m *MemUserStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

// MemPromotionStore is an in-memory PromotionStore.
type MemPromotionStore struct {
	mu     sync.RWMutex
	promos map[string]domain.Promotion
	clock  *Clock
}

func NewMemPromotionStore(clock *Clock) *MemPromotionStore {
	return &MemPromotionStore{promos: make(map[string]domain.Promotion), clock: clock}
}

func (m *MemPromotionStore) List(_ context.Context, activeOnly bool) ([]domain.Promotion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Promotion
	for _, p := range m.promos {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemPromotionStore) GetByID(_ context.Context, id string) (*domain.Promotion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.promos[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MemPromotionStore) Create(_ context.Context, p *domain.Promotion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CreatedAt = m.clock.Now()
	p.UpdatedAt = p.CreatedAt
	m.promos[p.ID] = *p
	return nil
}

func (m *MemPromotionStore) Update(_ context.Context, p *domain.Promotion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.promos[p.ID]; !ok {
		return repository.ErrNotFound
	}
	p.UpdatedAt = m.clock.Now()
	m.promos[p.ID] = *p
	return nil
}

func (m *MemPromotionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.promos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.promos, id)
	return nil
}

// MemAuditStore records audit entries in memory.
type MemAuditStore struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog
	seq  int64
	Err  error
}

func NewMemAuditStore() *MemAuditStore {
	return &MemAuditStore{}
}

func (m *MemAuditStore) Create(_ context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.seq++
	log.ID = m.seq
	log.CreatedAt = time.Now()
	cp := *log
	m.logs = append(m.logs, &cp)
	return nil
}

func (m *MemAuditStore) GetRecent(_ context.Context, limit int) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AuditLog
	for i := len(m.logs) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, m.logs[i])
	}
	return out, nil
}

func (m *MemAuditStore) GetByEntity(_ context.Context, entityType, entityID string, limit int) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AuditLog
	for i := len(m.logs) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if m.logs[i].EntityType == entityType && m.logs[i].EntityID == entityID {
			out = append(out, m.logs[i])
		}
	}
	return out, nil
}

// Actions returns the recorded actions in insertion order.
func (m *MemAuditStore) Actions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.logs))
	for _, l := range m.logs {
		out = append(out, l.Action)
	}
	return out
}

// Event is one call to RecordingPublisher.Publish.
type Event struct {
	Name string
	Tx   domain.Transaction
}

// RecordingPublisher keeps published events for assertions.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *RecordingPublisher) Publish(event string, tx domain.Transaction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, Event{Name: event, Tx: tx})
}

func (p *RecordingPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}
