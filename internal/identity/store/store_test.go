package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"tokenguard/internal/identity/models"
	"tokenguard/pkg/domain"
	"tokenguard/pkg/platform/sentinel"
)

// StoreContractSuite exercises behaviour every backend shares. Backends plug
// in through newStore; reset runs before each test.
type StoreContractSuite struct {
	suite.Suite
	ctx      context.Context
	newStore func() TxStore
	reset    func()
	store    TxStore
}

var (
	walletA   = domain.BytesToAddress([]byte{0xa0})
	walletB   = domain.BytesToAddress([]byte{0xb0})
	identityX = domain.BytesToAddress([]byte{0x1d, 0x01})
	identityY = domain.BytesToAddress([]byte{0x1d, 0x02})
)

func (s *StoreContractSuite) SetupTest() {
	s.ctx = context.Background()
	if s.reset != nil {
		s.reset()
	}
	s.store = s.newStore()
}

func (s *StoreContractSuite) TestRecordLifecycle() {
	s.Run("missing wallet returns ErrNotFound", func() {
		_, err := s.store.FindByWallet(s.ctx, walletA)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("save then find", func() {
		rec := models.IdentityRecord{Wallet: walletA, Identity: identityX, Country: 250}
		s.Require().NoError(s.store.Save(s.ctx, rec))
		found, err := s.store.FindByWallet(s.ctx, walletA)
		s.Require().NoError(err)
		s.Equal(rec, found)
	})

	s.Run("save overwrites", func() {
		rec := models.IdentityRecord{Wallet: walletA, Identity: identityY, Country: 840}
		s.Require().NoError(s.store.Save(s.ctx, rec))
		found, err := s.store.FindByWallet(s.ctx, walletA)
		s.Require().NoError(err)
		s.Equal(rec, found)
	})

	s.Run("delete removes and second delete is not found", func() {
		s.Require().NoError(s.store.Delete(s.ctx, walletA))
		_, err := s.store.FindByWallet(s.ctx, walletA)
		s.ErrorIs(err, sentinel.ErrNotFound)
		s.ErrorIs(s.store.Delete(s.ctx, walletA), sentinel.ErrNotFound)
	})
}

func (s *StoreContractSuite) TestLostWallets() {
	lost, err := s.store.IsLost(s.ctx, walletA)
	s.Require().NoError(err)
	s.False(lost)

	_, err = s.store.LostWalletLink(s.ctx, walletA)
	s.ErrorIs(err, sentinel.ErrNotFound)

	want := models.LostWalletLink{Lost: walletA, New: walletB, Identity: identityX, Country: 250, CreatedRecord: true}
	s.Require().NoError(s.store.MarkLost(s.ctx, want))
	lost, err = s.store.IsLost(s.ctx, walletA)
	s.Require().NoError(err)
	s.True(lost)

	link, err := s.store.LostWalletLink(s.ctx, walletA)
	s.Require().NoError(err)
	s.Equal(want, link)

	s.ErrorIs(s.store.MarkLost(s.ctx, want), sentinel.ErrConflict)

	s.Require().NoError(s.store.ClearLost(s.ctx, walletA))
	lost, err = s.store.IsLost(s.ctx, walletA)
	s.Require().NoError(err)
	s.False(lost)
	s.ErrorIs(s.store.ClearLost(s.ctx, walletA), sentinel.ErrNotFound)
}

func (s *StoreContractSuite) TestRunInTx() {
	s.Run("failed transaction leaves no trace", func() {
		boom := errors.New("boom")
		err := s.store.RunInTx(s.ctx, func(tx Store) error {
			s.Require().NoError(tx.Save(s.ctx, models.IdentityRecord{Wallet: walletA, Identity: identityX}))
			s.Require().NoError(tx.MarkLost(s.ctx, models.LostWalletLink{Lost: walletB, New: walletA, Identity: identityX}))
			return boom
		})
		s.Require().ErrorIs(err, boom)

		_, err = s.store.FindByWallet(s.ctx, walletA)
		s.ErrorIs(err, sentinel.ErrNotFound)
		lost, err := s.store.IsLost(s.ctx, walletB)
		s.Require().NoError(err)
		s.False(lost)
	})

	s.Run("successful transaction commits every write", func() {
		s.Require().NoError(s.store.Save(s.ctx, models.IdentityRecord{Wallet: walletA, Identity: identityX, Country: 1}))
		err := s.store.RunInTx(s.ctx, func(tx Store) error {
			if err := tx.MarkLost(s.ctx, models.LostWalletLink{Lost: walletA, New: walletB, Identity: identityX, Country: 1, CreatedRecord: true}); err != nil {
				return err
			}
			if err := tx.Delete(s.ctx, walletA); err != nil {
				return err
			}
			return tx.Save(s.ctx, models.IdentityRecord{Wallet: walletB, Identity: identityX, Country: 1})
		})
		s.Require().NoError(err)

		_, err = s.store.FindByWallet(s.ctx, walletA)
		s.ErrorIs(err, sentinel.ErrNotFound)
		rec, err := s.store.FindByWallet(s.ctx, walletB)
		s.Require().NoError(err)
		s.Equal(identityX, rec.Identity)
		lost, err := s.store.IsLost(s.ctx, walletA)
		s.Require().NoError(err)
		s.True(lost)
	})
}

func TestInMemoryStore(t *testing.T) {
	suite.Run(t, &StoreContractSuite{
		newStore: func() TxStore { return NewInMemory() },
	})
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	suite.Run(t, &StoreContractSuite{
		newStore: func() TxStore { return NewRedis(client) },
		reset:    mr.FlushAll,
	})
}
