package service

import "sync"

// ItemLockTable serializes circulation operations per item. Checkout,
// return, renew, reserve and inventory updates for the same item run one at
// a time; operations on different items proceed in parallel. Entries are
// refcounted and dropped when the last holder releases, so the table stays
// bounded by the number of items with in-flight operations.
type ItemLockTable struct {
	mu    sync.Mutex
	locks map[string]*itemLock
}

type itemLock struct {
	mu   sync.Mutex
	refs int
}

func NewItemLockTable() *ItemLockTable {
	return &ItemLockTable{locks: make(map[string]*itemLock)}
}

// Lock acquires the exclusive lock for an item and returns the release
// function. Acquisition blocks with no timeout.
func (t *ItemLockTable) Lock(itemID string) func() {
	t.mu.Lock()
	l, ok := t.locks[itemID]
	if !ok {
		l = &itemLock{}
		t.locks[itemID] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, itemID)
		}
		t.mu.Unlock()
	}
}
