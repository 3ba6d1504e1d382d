package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quiz-admin-service/internal/app"
	"quiz-admin-service/internal/domain"
)

// QuizCache caches quiz lookups with TTL in front of another QuizRepository.
// Quizzes are immutable after creation, so entries are never invalidated early.
type QuizCache struct {
	app.QuizRepository

	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand
	rndMu sync.Mutex

	mu     sync.RWMutex
	byCode map[string]cachedQuiz
	byID   map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewQuizCache(next app.QuizRepository, ttl time.Duration) *QuizCache {
	return &QuizCache{
		QuizRepository: next,
		ttl:            ttl,
		clock:          time.Now,
		rnd:            rand.New(rand.NewSource(time.Now().UnixNano())),
		byCode:         make(map[string]cachedQuiz),
		byID:           make(map[string]cachedQuiz),
	}
}

func (c *QuizCache) FindByCode(ctx context.Context, code string) (domain.Quiz, error) {
	return c.lookup(ctx, "code:"+code, c.byCode, code, c.QuizRepository.FindByCode)
}

func (c *QuizCache) FindByID(ctx context.Context, id string) (domain.Quiz, error) {
	return c.lookup(ctx, "id:"+id, c.byID, id, c.QuizRepository.FindByID)
}

func (c *QuizCache) lookup(ctx context.Context, flightKey string, index map[string]cachedQuiz, key string, load func(context.Context, string) (domain.Quiz, error)) (domain.Quiz, error) {
	if quiz, ok := c.get(index, key); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(flightKey, func() (interface{}, error) {
		// Re-check in case another goroutine filled it.
		if quiz, ok := c.get(index, key); ok {
			return quiz, nil
		}
		quiz, err := load(ctx, key)
		if err != nil {
			return domain.Quiz{}, err
		}

		expiresAt := c.clock().Add(c.ttlWithJitter())
		c.mu.Lock()
		c.byCode[quiz.Code] = cachedQuiz{quiz: quiz, expiresAt: expiresAt}
		c.byID[quiz.ID] = cachedQuiz{quiz: quiz, expiresAt: expiresAt}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *QuizCache) get(index map[string]cachedQuiz, key string) (domain.Quiz, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := index[key]
	if !ok || !entry.expiresAt.After(now) {
		return domain.Quiz{}, false
	}
	return entry.quiz, true
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
