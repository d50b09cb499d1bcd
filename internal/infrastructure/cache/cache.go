package cache

import (
	"sync"
	"time"
)

// Item representa um item em cache com expiração
type Item[V any] struct {
	Value      V
	Expiration int64
}

// Cache é um cache em memória simples com expiração por item
type Cache[V any] struct {
	items map[string]Item[V]
	mu    sync.RWMutex
	now   func() time.Time

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New cria um novo cache e inicia a limpeza periódica de itens expirados.
// Close deve ser chamado para encerrar a goroutine de limpeza.
func New[V any](cleanupInterval time.Duration) *Cache[V] {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	c := &Cache[V]{
		items: make(map[string]Item[V]),
		now:   time.Now,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	go c.janitor(cleanupInterval)

	return c
}

func (c *Cache[V]) janitor(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.DeleteExpired()
		case <-c.stop:
			return
		}
	}
}

// Set adiciona um item ao cache com a duração informada
func (c *Cache[V]) Set(key string, value V, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = Item[V]{
		Value:      value,
		Expiration: c.now().Add(duration).UnixNano(),
	}
}

// Get busca um item do cache
// Retorna o item e um booleano indicando se foi encontrado e não expirou
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	item, found := c.items[key]
	if !found {
		return zero, false
	}

	if c.now().UnixNano() > item.Expiration {
		return zero, false
	}

	return item.Value, true
}

// Delete remove um item do cache
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// DeleteExpired remove todos os itens expirados
func (c *Cache[V]) DeleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixNano()
	for k, v := range c.items {
		if now > v.Expiration {
			delete(c.items, k)
		}
	}
}

// Len retorna o número de itens armazenados, incluindo expirados ainda não limpos
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear remove todos os itens do cache
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]Item[V])
}

// Close encerra a limpeza periódica. Pode ser chamado mais de uma vez.
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
}
