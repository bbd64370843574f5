package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"tokenguard/internal/identity/models"
	"tokenguard/pkg/domain"
	"tokenguard/pkg/platform/sentinel"
)

const (
	walletKeyPrefix = "identity:wallet:"
	lostKeyPrefix   = "identity:lost:"
)

func walletKey(wallet domain.Address) string { return walletKeyPrefix + wallet.String() }
func lostKey(wallet domain.Address) string   { return lostKeyPrefix + wallet.String() }

// RedisStore keeps each identity record in a hash and each lost-wallet link
// as JSON in a string key. Transactions queue writes in a MULTI/EXEC pipeline.
type RedisStore struct {
	client *redis.Client
	// txMu serializes transactions from this process so precondition reads
	// and the queued writes are not interleaved with another transaction.
	txMu sync.Mutex
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) view() *redisView {
	return &redisView{client: s.client}
}

func (s *RedisStore) FindByWallet(ctx context.Context, wallet domain.Address) (models.IdentityRecord, error) {
	return s.view().FindByWallet(ctx, wallet)
}

func (s *RedisStore) Save(ctx context.Context, record models.IdentityRecord) error {
	return s.view().Save(ctx, record)
}

func (s *RedisStore) Delete(ctx context.Context, wallet domain.Address) error {
	return s.view().Delete(ctx, wallet)
}

func (s *RedisStore) MarkLost(ctx context.Context, link models.LostWalletLink) error {
	return s.view().MarkLost(ctx, link)
}

func (s *RedisStore) ClearLost(ctx context.Context, lost domain.Address) error {
	return s.view().ClearLost(ctx, lost)
}

func (s *RedisStore) IsLost(ctx context.Context, wallet domain.Address) (bool, error) {
	return s.view().IsLost(ctx, wallet)
}

func (s *RedisStore) LostWalletLink(ctx context.Context, lost domain.Address) (models.LostWalletLink, error) {
	return s.view().LostWalletLink(ctx, lost)
}

// RunInTx reads committed state directly and queues every write; the queue
// is executed as one MULTI/EXEC only if fn succeeds.
func (s *RedisStore) RunInTx(ctx context.Context, fn func(Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	pipe := s.client.TxPipeline()
	if err := fn(&redisView{client: s.client, pipe: pipe}); err != nil {
		pipe.Discard()
		return err
	}
	if pipe.Len() == 0 {
		return nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec identity tx: %w", err)
	}
	return nil
}

type redisView struct {
	client *redis.Client
	pipe   redis.Pipeliner
}

func (v *redisView) writer() redis.Cmdable {
	if v.pipe != nil {
		return v.pipe
	}
	return v.client
}

func (v *redisView) FindByWallet(ctx context.Context, wallet domain.Address) (models.IdentityRecord, error) {
	fields, err := v.client.HGetAll(ctx, walletKey(wallet)).Result()
	if err != nil {
		return models.IdentityRecord{}, fmt.Errorf("find identity: %w", err)
	}
	if len(fields) == 0 {
		return models.IdentityRecord{}, fmt.Errorf("identity for %s: %w", wallet, sentinel.ErrNotFound)
	}
	identity, err := domain.ParseAddress(fields["identity"])
	if err != nil {
		return models.IdentityRecord{}, fmt.Errorf("decode identity for %s: %w", wallet, err)
	}
	country, err := strconv.ParseUint(fields["country"], 10, 16)
	if err != nil {
		return models.IdentityRecord{}, fmt.Errorf("decode country for %s: %w", wallet, err)
	}
	return models.IdentityRecord{
		Wallet:   wallet,
		Identity: identity,
		Country:  domain.CountryCode(country),
	}, nil
}

func (v *redisView) Save(ctx context.Context, record models.IdentityRecord) error {
	err := v.writer().HSet(ctx, walletKey(record.Wallet),
		"identity", record.Identity.String(),
		"country", strconv.FormatUint(uint64(record.Country), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

func (v *redisView) Delete(ctx context.Context, wallet domain.Address) error {
	n, err := v.client.Exists(ctx, walletKey(wallet)).Result()
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("identity for %s: %w", wallet, sentinel.ErrNotFound)
	}
	if err := v.writer().Del(ctx, walletKey(wallet)).Err(); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	return nil
}

func (v *redisView) MarkLost(ctx context.Context, link models.LostWalletLink) error {
	raw, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("encode lost wallet link: %w", err)
	}
	if v.pipe != nil {
		lostAlready, err := v.IsLost(ctx, link.Lost)
		if err != nil {
			return err
		}
		if lostAlready {
			return fmt.Errorf("wallet %s already lost: %w", link.Lost, sentinel.ErrConflict)
		}
		v.pipe.Set(ctx, lostKey(link.Lost), raw, 0)
		return nil
	}
	set, err := v.client.SetNX(ctx, lostKey(link.Lost), raw, 0).Result()
	if err != nil {
		return fmt.Errorf("mark wallet lost: %w", err)
	}
	if !set {
		return fmt.Errorf("wallet %s already lost: %w", link.Lost, sentinel.ErrConflict)
	}
	return nil
}

func (v *redisView) ClearLost(ctx context.Context, lost domain.Address) error {
	n, err := v.client.Exists(ctx, lostKey(lost)).Result()
	if err != nil {
		return fmt.Errorf("clear lost wallet: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("lost wallet %s: %w", lost, sentinel.ErrNotFound)
	}
	if err := v.writer().Del(ctx, lostKey(lost)).Err(); err != nil {
		return fmt.Errorf("clear lost wallet: %w", err)
	}
	return nil
}

func (v *redisView) IsLost(ctx context.Context, wallet domain.Address) (bool, error) {
	n, err := v.client.Exists(ctx, lostKey(wallet)).Result()
	if err != nil {
		return false, fmt.Errorf("check lost wallet: %w", err)
	}
	return n > 0, nil
}

func (v *redisView) LostWalletLink(ctx context.Context, lost domain.Address) (models.LostWalletLink, error) {
	raw, err := v.client.Get(ctx, lostKey(lost)).Result()
	if errors.Is(err, redis.Nil) {
		return models.LostWalletLink{}, fmt.Errorf("lost wallet %s: %w", lost, sentinel.ErrNotFound)
	}
	if err != nil {
		return models.LostWalletLink{}, fmt.Errorf("find lost wallet link: %w", err)
	}
	var link models.LostWalletLink
	if err := json.Unmarshal([]byte(raw), &link); err != nil {
		return models.LostWalletLink{}, fmt.Errorf("decode lost wallet link: %w", err)
	}
	link.Lost = lost
	return link, nil
}
