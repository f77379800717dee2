package application_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
	"github.com/rakesh-sdlc/ng-contracts/internal/core/ports"
	"github.com/rakesh-sdlc/ng-contracts/pkg/errors"
)

type mockAssetRepository struct {
	lock    sync.RWMutex
	records map[domain.AssetId]domain.AssetRecord
	index   []domain.AssetId
}

func newMockAssetRepository() *mockAssetRepository {
	return &mockAssetRepository{records: make(map[domain.AssetId]domain.AssetRecord)}
}

func (r *mockAssetRepository) AddAsset(_ context.Context, record domain.AssetRecord) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.records[record.Id]; ok {
		return domain.ErrAssetExists
	}
	r.records[record.Id] = record
	r.index = append(r.index, record.Id)
	return nil
}

func (r *mockAssetRepository) RemoveAsset(_ context.Context, id domain.AssetId) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.records[id]; !ok {
		return domain.ErrAssetNotFound
	}
	delete(r.records, id)
	for i, indexed := range r.index {
		if indexed == id {
			r.index[i] = r.index[len(r.index)-1]
			r.index = r.index[:len(r.index)-1]
			break
		}
	}
	return nil
}

func (r *mockAssetRepository) UpdateCustodyWallet(
	_ context.Context, id domain.AssetId, wallet domain.Address,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	record, ok := r.records[id]
	if !ok {
		return domain.ErrAssetNotFound
	}
	record.CustodyWallet = wallet
	r.records[id] = record
	return nil
}

func (r *mockAssetRepository) GetAsset(
	_ context.Context, id domain.AssetId,
) (*domain.AssetRecord, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	record, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (r *mockAssetRepository) ListAssetIds(_ context.Context) ([]domain.AssetId, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	ids := make([]domain.AssetId, len(r.index))
	copy(ids, r.index)
	return ids, nil
}

func (r *mockAssetRepository) Close() {}

type mockStateRepository struct {
	lock  sync.RWMutex
	state *domain.ControllerState
}

func (r *mockStateRepository) Get(_ context.Context) (*domain.ControllerState, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.state == nil {
		return nil, nil
	}
	clone := *r.state
	return &clone, nil
}

func (r *mockStateRepository) Upsert(_ context.Context, state domain.ControllerState) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.state = &state
	return nil
}

func (r *mockStateRepository) Clear(_ context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.state = nil
	return nil
}

func (r *mockStateRepository) Close() {}

type mockFeeRepository struct {
	lock sync.RWMutex
	fees map[domain.AssetId]uint64
}

func newMockFeeRepository() *mockFeeRepository {
	return &mockFeeRepository{fees: make(map[domain.AssetId]uint64)}
}

func (r *mockFeeRepository) UpsertFee(_ context.Context, fee domain.AssetFee) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.fees[fee.AssetId] = fee.Fee
	return nil
}

func (r *mockFeeRepository) GetFee(_ context.Context, id domain.AssetId) (uint64, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.fees[id], nil
}

func (r *mockFeeRepository) Close() {}

type mockEventRepository struct {
	lock     sync.RWMutex
	saved    map[string][]domain.Event
	handlers map[string][]func(events []domain.Event)
}

func newMockEventRepository() *mockEventRepository {
	return &mockEventRepository{
		saved:    make(map[string][]domain.Event),
		handlers: make(map[string][]func(events []domain.Event)),
	}
}

func (r *mockEventRepository) Save(
	_ context.Context, topic string, events ...domain.Event,
) error {
	r.lock.Lock()
	r.saved[topic] = append(r.saved[topic], events...)
	handlers := r.handlers[topic]
	r.lock.Unlock()

	for _, handler := range handlers {
		handler(events)
	}
	return nil
}

func (r *mockEventRepository) RegisterEventsHandler(
	topic string, handler func(events []domain.Event),
) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.handlers[topic] = append(r.handlers[topic], handler)
}

func (r *mockEventRepository) ClearRegisteredHandlers(topics ...string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if len(topics) == 0 {
		r.handlers = make(map[string][]func(events []domain.Event))
		return
	}
	for _, topic := range topics {
		delete(r.handlers, topic)
	}
}

func (r *mockEventRepository) GetEvents(
	_ context.Context, topic string,
) ([]domain.Event, error) {
	return r.events(topic), nil
}

func (r *mockEventRepository) events(topic string) []domain.Event {
	r.lock.RLock()
	defer r.lock.RUnlock()
	events := make([]domain.Event, len(r.saved[topic]))
	copy(events, r.saved[topic])
	return events
}

func (r *mockEventRepository) Close() {}

type mockRepoManager struct {
	assetRepo *mockAssetRepository
	stateRepo *mockStateRepository
	feeRepo   *mockFeeRepository
	eventRepo *mockEventRepository
}

func newMockRepoManager() *mockRepoManager {
	return &mockRepoManager{
		assetRepo: newMockAssetRepository(),
		stateRepo: &mockStateRepository{},
		feeRepo:   newMockFeeRepository(),
		eventRepo: newMockEventRepository(),
	}
}

func (m *mockRepoManager) Assets() domain.AssetRepository { return m.assetRepo }
func (m *mockRepoManager) State() domain.StateRepository  { return m.stateRepo }
func (m *mockRepoManager) Fees() domain.FeeRepository     { return m.feeRepo }
func (m *mockRepoManager) Events() domain.EventRepository { return m.eventRepo }
func (m *mockRepoManager) Close()                         {}

type mintCall struct {
	to     domain.Address
	amount uint64
}

type burnCall struct {
	from   domain.Address
	amount uint64
}

// mockTokenAdapter keeps a real balance sheet so tests can assert that failed
// operations leave balances untouched.
type mockTokenAdapter struct {
	lock     sync.Mutex
	balances map[domain.Address]uint64
	supply   uint64

	mintCalls  []mintCall
	burnCalls  []burnCall
	batchCalls int

	failWith error
	// onMint runs inside Mint, before applying the balance change; used to
	// simulate a reentrant callback into the controller.
	onMint func()
}

func newMockTokenAdapter() *mockTokenAdapter {
	return &mockTokenAdapter{balances: make(map[domain.Address]uint64)}
}

func (a *mockTokenAdapter) Mint(_ context.Context, to domain.Address, amount uint64) error {
	if a.onMint != nil {
		a.onMint()
	}
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.failWith != nil {
		return a.failWith
	}
	a.balances[to] += amount
	a.supply += amount
	a.mintCalls = append(a.mintCalls, mintCall{to, amount})
	return nil
}

func (a *mockTokenAdapter) BurnFrom(_ context.Context, from domain.Address, amount uint64) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.failWith != nil {
		return a.failWith
	}
	if a.balances[from] < amount {
		return errors.INSUFFICIENT_BALANCE.New("balance of %s is %d, tried to burn %d",
			from, a.balances[from], amount).
			WithMetadata(errors.BalanceMetadata{Holder: from.String(), Amount: amount})
	}
	a.balances[from] -= amount
	a.supply -= amount
	a.burnCalls = append(a.burnCalls, burnCall{from, amount})
	return nil
}

func (a *mockTokenAdapter) BatchMint(
	_ context.Context, recipients []domain.Address, amounts []uint64,
) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.failWith != nil {
		return a.failWith
	}
	for i, to := range recipients {
		a.balances[to] += amounts[i]
		a.supply += amounts[i]
	}
	a.batchCalls++
	return nil
}

func (a *mockTokenAdapter) BatchBurn(
	_ context.Context, holders []domain.Address, amounts []uint64,
) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.failWith != nil {
		return a.failWith
	}
	for i, from := range holders {
		if a.balances[from] < amounts[i] {
			return errors.INSUFFICIENT_BALANCE.New("balance of %s is %d, tried to burn %d",
				from, a.balances[from], amounts[i])
		}
	}
	for i, from := range holders {
		a.balances[from] -= amounts[i]
		a.supply -= amounts[i]
	}
	a.batchCalls++
	return nil
}

func (a *mockTokenAdapter) TotalSupply(_ context.Context) (uint64, error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.supply, nil
}

func (a *mockTokenAdapter) balanceOf(addr domain.Address) uint64 {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.balances[addr]
}

type mockAdapterFactory struct {
	adapters map[domain.Address]*mockTokenAdapter
}

func newMockAdapterFactory() *mockAdapterFactory {
	return &mockAdapterFactory{adapters: make(map[domain.Address]*mockTokenAdapter)}
}

func (f *mockAdapterFactory) AdapterFor(tokenAddress domain.Address) ports.TokenAdapter {
	if adapter, ok := f.adapters[tokenAddress]; ok {
		return adapter
	}
	adapter := newMockTokenAdapter()
	f.adapters[tokenAddress] = adapter
	return adapter
}

type testGuard struct {
	held atomic.Bool
}

func (g *testGuard) TryAcquire() bool { return g.held.CompareAndSwap(false, true) }
func (g *testGuard) Release()         { g.held.Store(false) }
