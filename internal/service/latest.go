package service

import "sync"

// requestSequencer реализует политику "побеждает последний запрос".
// Каждый начатый запрос получает токен; результат применяется только если
// токен все еще актуален для своего ключа. Ключ — назначение запроса плюс
// идентификатор пользователя.
type requestSequencer struct {
	mu  sync.Mutex
	seq map[string]uint64
}

func newRequestSequencer() *requestSequencer {
	return &requestSequencer{seq: make(map[string]uint64)}
}

// begin регистрирует новый запрос и возвращает его токен.
// Все ранее выданные токены этого ключа становятся устаревшими.
func (r *requestSequencer) begin(key string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq[key]++
	return r.seq[key]
}

// isCurrent проверяет, что токен не был вытеснен более новым запросом
func (r *requestSequencer) isCurrent(key string, token uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq[key] == token
}
