package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quiz-admin-service/internal/app"
	"quiz-admin-service/internal/domain"
)

// QuizCache caches quiz documents in Redis and falls back to the wrapped repository on a miss.
// Documents are stored as:  SET quiz:code:{code} {json}
// The id index is stored as: SET quiz:id:{id}     {code}
// Quizzes never change after creation, so entries only leave by TTL.
type QuizCache struct {
	app.QuizRepository

	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewQuizCache(client *redis.Client, next app.QuizRepository, ttl time.Duration) *QuizCache {
	return &QuizCache{
		QuizRepository: next,
		client:         client,
		ttl:            ttl,
		rnd:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuizCache) FindByCode(ctx context.Context, code string) (domain.Quiz, error) {
	if quiz, ok := c.cached(ctx, code); ok {
		return quiz, nil
	}
	return c.fill(ctx, "code:"+code, func() (domain.Quiz, error) {
		return c.QuizRepository.FindByCode(ctx, code)
	}, func() (domain.Quiz, bool) {
		return c.cached(ctx, code)
	})
}

func (c *QuizCache) FindByID(ctx context.Context, id string) (domain.Quiz, error) {
	lookup := func() (domain.Quiz, bool) {
		code, err := c.client.Get(ctx, idKey(id)).Result()
		if err != nil {
			return domain.Quiz{}, false
		}
		return c.cached(ctx, code)
	}
	if quiz, ok := lookup(); ok {
		return quiz, nil
	}
	return c.fill(ctx, "id:"+id, func() (domain.Quiz, error) {
		return c.QuizRepository.FindByID(ctx, id)
	}, lookup)
}

func (c *QuizCache) fill(ctx context.Context, flightKey string, load func() (domain.Quiz, error), recheck func() (domain.Quiz, bool)) (domain.Quiz, error) {
	result, err, _ := c.sf.Do(flightKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := recheck(); ok {
			return quiz, nil
		}

		quiz, err := load()
		if err != nil {
			return domain.Quiz{}, err
		}

		data, err := json.Marshal(quiz)
		if err != nil {
			return quiz, nil
		}
		ttl := c.ttlWithJitter()
		pipe := c.client.Pipeline()
		pipe.Set(ctx, codeKey(quiz.Code), data, ttl)
		pipe.Set(ctx, idKey(quiz.ID), quiz.Code, ttl)
		_, _ = pipe.Exec(ctx)

		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *QuizCache) cached(ctx context.Context, code string) (domain.Quiz, bool) {
	data, err := c.client.Get(ctx, codeKey(code)).Bytes()
	if err != nil {
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func codeKey(code string) string {
	return "quiz:code:" + code
}

func idKey(id string) string {
	return "quiz:id:" + id
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
