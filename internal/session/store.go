package session

import (
	"errors"
	"sync"
	"time"

	"interview-conductor/internal/blueprint"
	"interview-conductor/internal/conductor"
)

// ErrSessionNotFound возвращается для неизвестного идентификатора сессии
var ErrSessionNotFound = errors.New("сессия не найдена")

// Session — живая сессия интервью: неизменяемый план плюс изменяемое
// состояние разговора. Поле turnMu сериализует обработку ходов одной
// сессии: конкурентные вызовы по одному id не должны портить
// visited_topics.
type Session struct {
	Blueprint     *blueprint.InterviewBlueprint
	Transcript    []string
	State         *conductor.SessionState
	LastUtterance string
	LastActivity  time.Time
	Completed     bool

	turnMu sync.Mutex
}

// LockTurn захватывает ход сессии; возвращает функцию освобождения
func (s *Session) LockTurn() func() {
	s.turnMu.Lock()
	return s.turnMu.Unlock
}

// Store — хранилище сессий
type Store interface {
	Get(sessionID string) (*Session, error)
	Put(sessionID string, sess *Session) error
	Delete(sessionID string) error
}

// MemoryStore — хранилище сессий в памяти с периодической чисткой
// неактивных сессий
type MemoryStore struct {
	sessions map[string]*Session
	mutex    sync.RWMutex

	ttl  time.Duration
	done chan struct{}
	once sync.Once
}

// NewMemoryStore создает хранилище и запускает фоновую чистку.
// Остановка — через Stop.
func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 1 * time.Hour
	}
	s := &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go s.cleanupLoop(cleanupInterval)
	return s
}

func (s *MemoryStore) Get(sessionID string) (*Session, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	sess, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *MemoryStore) Put(sessionID string, sess *Session) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sess.LastActivity = time.Now()
	s.sessions[sessionID] = sess
	return nil
}

func (s *MemoryStore) Delete(sessionID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// Len возвращает число живых сессий
func (s *MemoryStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.sessions)
}

// Stop останавливает фоновую чистку. Повторные вызовы безопасны.
func (s *MemoryStore) Stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupInactive()
		case <-s.done:
			return
		}
	}
}

func (s *MemoryStore) cleanupInactive() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := time.Now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.LastActivity.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
