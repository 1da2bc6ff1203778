package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"gameness/game"
)

// A turn spans two independent HTTP requests, so the first click of a pair
// has to live somewhere between them. ClickBuffer is that somewhere; the
// engine only ever sees the pending click as an explicit value.
type ClickBuffer interface {
	// Pending returns the buffered click for a round, or nil.
	Pending(ctx context.Context, gameID uint) (*game.Click, error)
	SetPending(ctx context.Context, gameID uint, click game.Click) error
	ClearPending(ctx context.Context, gameID uint) error
}

// pendingClickTTL bounds how long an abandoned half-turn lingers.
const pendingClickTTL = 2 * time.Hour

// RedisClickBuffer keeps pending clicks in Redis, keyed by round id.
type RedisClickBuffer struct {
	redis *redis.Client
}

func NewRedisClickBuffer(client *redis.Client) *RedisClickBuffer {
	return &RedisClickBuffer{redis: client}
}

func pendingKey(gameID uint) string {
	return fmt.Sprintf("pending_click:%d", gameID)
}

func (b *RedisClickBuffer) Pending(ctx context.Context, gameID uint) (*game.Click, error) {
	data, err := b.redis.Get(ctx, pendingKey(gameID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pending click: %w", err)
	}

	var click game.Click
	if err := json.Unmarshal([]byte(data), &click); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending click: %w", err)
	}
	return &click, nil
}

func (b *RedisClickBuffer) SetPending(ctx context.Context, gameID uint, click game.Click) error {
	data, err := json.Marshal(click)
	if err != nil {
		return fmt.Errorf("failed to marshal pending click: %w", err)
	}
	if err := b.redis.Set(ctx, pendingKey(gameID), data, pendingClickTTL).Err(); err != nil {
		return fmt.Errorf("failed to store pending click: %w", err)
	}
	return nil
}

func (b *RedisClickBuffer) ClearPending(ctx context.Context, gameID uint) error {
	return b.redis.Del(ctx, pendingKey(gameID)).Err()
}

// MemoryClickBuffer is the in-process ClickBuffer for tests and local runs.
type MemoryClickBuffer struct {
	mu     sync.Mutex
	clicks map[uint]game.Click
}

func NewMemoryClickBuffer() *MemoryClickBuffer {
	return &MemoryClickBuffer{clicks: make(map[uint]game.Click)}
}

func (b *MemoryClickBuffer) Pending(ctx context.Context, gameID uint) (*game.Click, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if click, ok := b.clicks[gameID]; ok {
		return &click, nil
	}
	return nil, nil
}

func (b *MemoryClickBuffer) SetPending(ctx context.Context, gameID uint, click game.Click) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clicks[gameID] = click
	return nil
}

func (b *MemoryClickBuffer) ClearPending(ctx context.Context, gameID uint) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.clicks, gameID)
	return nil
}

// GameClaims binds a player to one round for the lifetime of that round.
type GameClaims struct {
	Player string `json:"player"`
	GameID uint   `json:"game_id"`
	jwt.RegisteredClaims
}

// IssueGameToken signs a session token tying the player to a round. Clicks
// are only accepted under this token, which keeps one browser bound to one
// active round without server-side session storage.
func IssueGameToken(secret, player string, gameID uint, ttl time.Duration) (string, error) {
	claims := GameClaims{
		Player: player,
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseGameToken validates a session token and returns its claims.
func ParseGameToken(secret, tokenString string) (*GameClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &GameClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*GameClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid game token")
	}
	return claims, nil
}
