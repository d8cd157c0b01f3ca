// Package lock выдаёт именованные блокировки чтения/записи с ожиданием, ограниченным контекстом.
package lock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"
)

// exclusiveWeight — вес писателя: он вытесняет всех читателей.
const exclusiveWeight = 1 << 30

// Release освобождает захваченную блокировку. Повторный вызов безопасен.
type Release func()

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// Manager хранит семафор на каждый активный ключ и удаляет его, когда ключ никому не нужен.
// Очередь семафора FIFO, так что писатель не голодает за потоком читателей.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewManager создаёт пустой менеджер блокировок.
func NewManager() *Manager {
	return &Manager{entries: map[string]*entry{}}
}

// Lock захватывает ключ эксклюзивно.
func (m *Manager) Lock(ctx context.Context, key string) (Release, error) {
	return m.acquire(ctx, key, exclusiveWeight)
}

// RLock захватывает ключ на чтение.
func (m *Manager) RLock(ctx context.Context, key string) (Release, error) {
	return m.acquire(ctx, key, 1)
}

// LockAll захватывает несколько ключей эксклюзивно в лексикографическом порядке.
// При ошибке уже захваченные ключи отпускаются.
func (m *Manager) LockAll(ctx context.Context, keys ...string) (Release, error) {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			uniq = append(uniq, k)
		}
	}
	sort.Strings(uniq)

	held := make([]Release, 0, len(uniq))
	releaseAll := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i]()
		}
	}
	for _, k := range uniq {
		rel, err := m.Lock(ctx, k)
		if err != nil {
			releaseAll()
			return nil, err
		}
		held = append(held, rel)
	}
	return once(releaseAll), nil
}

func (m *Manager) acquire(ctx context.Context, key string, weight int64) (Release, error) {
	e := m.ref(key)
	if err := e.sem.Acquire(ctx, weight); err != nil {
		m.unref(key)
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	return once(func() {
		e.sem.Release(weight)
		m.unref(key)
	}), nil
}

func (m *Manager) ref(key string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(exclusiveWeight)}
		m.entries[key] = e
	}
	e.refs++
	return e
}

func (m *Manager) unref(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entries[key]
	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
}

// active возвращает число ключей, которые сейчас кто-то держит или ждёт.
func (m *Manager) active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func once(f func()) Release {
	var o sync.Once
	return func() { o.Do(f) }
}

// UserKey — область пользователя.
func UserKey(login string) string {
	return "user:" + login
}

// RepositoryKey — область репозитория.
func RepositoryKey(owner, repository string) string {
	return "repo:" + owner + "/" + repository
}

// BranchKey — область ветки.
func BranchKey(owner, repository, branch string) string {
	return "branch:" + owner + "/" + repository + "/" + branch
}
