package service

import (
	"tokenguard/internal/identity/models"
	"tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
	audit "tokenguard/pkg/platform/audit"
)

func (s *IdentityServiceSuite) TestRecoverIdentityPreconditions() {
	s.register(walletA, identityX, 250)

	s.Run("zero arguments are rejected", func() {
		err := s.service.RecoverIdentity(s.ctx, walletA, walletB, domain.ZeroAddress)
		s.True(dErrors.HasCode(err, dErrors.CodeZeroAddress))
		err = s.service.RecoverIdentity(s.ctx, domain.ZeroAddress, walletB, identityX)
		s.True(dErrors.HasCode(err, dErrors.CodeZeroAddress))
	})

	s.Run("unregistered lost wallet", func() {
		err := s.service.RecoverIdentity(s.ctx, walletC, walletB, identityX)
		s.True(dErrors.HasCode(err, dErrors.CodeIdentityNotRegistered))
	})

	s.Run("replacement bound to another identity", func() {
		s.register(walletB, identityY, 1)
		defer func() { s.Require().NoError(s.service.DeleteIdentity(s.ctx, walletB)) }()

		err := s.service.RecoverIdentity(s.ctx, walletA, walletB, identityX)
		s.True(dErrors.HasCode(err, dErrors.CodeIdentityAlreadyRegistered))

		lost, err := s.service.IsLost(s.ctx, walletA)
		s.Require().NoError(err)
		s.False(lost, "failed recovery must not mark the wallet")
		ok, err := s.service.Contains(s.ctx, walletA)
		s.Require().NoError(err)
		s.True(ok, "failed recovery must not remove the record")
	})
}

func (s *IdentityServiceSuite) TestRecoverIdentity() {
	s.register(walletA, identityX, 250)

	s.Require().NoError(s.service.RecoverIdentity(s.ctx, walletA, walletB, identityX))

	s.Run("lost wallet is flagged and its record removed", func() {
		lost, err := s.service.IsLost(s.ctx, walletA)
		s.Require().NoError(err)
		s.True(lost)
		ok, err := s.service.Contains(s.ctx, walletA)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("new wallet inherits the country", func() {
		rec, err := s.service.Record(s.ctx, walletB)
		s.Require().NoError(err)
		s.Equal(models.IdentityRecord{Wallet: walletB, Identity: identityX, Country: 250}, rec)
	})

	s.Run("link points at the new wallet", func() {
		got, err := s.service.RecoveredWallet(s.ctx, walletA)
		s.Require().NoError(err)
		s.Equal(walletB, got)
		_, err = s.service.RecoveredWallet(s.ctx, walletB)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("lost wallet is never verified, even for no topics", func() {
		ok, err := s.service.IsVerified(s.ctx, walletA, nil)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("re-registering the lost wallet does not clear the flag", func() {
		s.register(walletA, identityX, 250)
		ok, err := s.service.IsVerified(s.ctx, walletA, nil)
		s.Require().NoError(err)
		s.False(ok)

		err = s.service.RecoverIdentity(s.ctx, walletA, walletC, identityX)
		s.True(dErrors.HasCode(err, dErrors.CodeWalletAlreadyMarkedAsLost))
	})

	s.Run("lost wallet cannot be a replacement", func() {
		s.register(walletC, identityY, 1)
		err := s.service.RecoverIdentity(s.ctx, walletC, walletA, identityX)
		s.True(dErrors.HasCode(err, dErrors.CodeWalletAlreadyMarkedAsLost))
	})

	s.Run("recovery is audited", func() {
		events, err := s.auditStore.ListBySubject(s.ctx, walletA.String())
		s.Require().NoError(err)
		var found bool
		for _, e := range events {
			if e.Action == string(audit.EventIdentityRecovered) {
				found = true
				s.Equal(walletB.String(), e.Counterparty)
			}
		}
		s.True(found)
	})
}

func (s *IdentityServiceSuite) TestRecoverIdentityIsIdempotentForLinkedReplacement() {
	s.register(walletA, identityX, 250)
	s.register(walletB, identityX, 840)

	s.Require().NoError(s.service.RecoverIdentity(s.ctx, walletA, walletB, identityX))

	rec, err := s.service.Record(s.ctx, walletB)
	s.Require().NoError(err)
	s.Equal(domain.CountryCode(840), rec.Country, "existing record is confirmed, not rewritten")

	ok, err := s.service.IsVerified(s.ctx, walletB, nil)
	s.Require().NoError(err)
	s.True(ok)
}

func (s *IdentityServiceSuite) TestRevertRecovery() {
	s.Run("created replacement record is removed", func() {
		s.register(walletA, identityX, 250)
		s.Require().NoError(s.service.RecoverIdentity(s.ctx, walletA, walletB, identityX))

		s.Require().NoError(s.service.RevertRecovery(s.ctx, walletA, walletB))

		rec, err := s.service.Record(s.ctx, walletA)
		s.Require().NoError(err)
		s.Equal(models.IdentityRecord{Wallet: walletA, Identity: identityX, Country: 250}, rec)
		lost, err := s.service.IsLost(s.ctx, walletA)
		s.Require().NoError(err)
		s.False(lost)
		ok, err := s.service.Contains(s.ctx, walletB)
		s.Require().NoError(err)
		s.False(ok)

		events, err := s.auditStore.ListBySubject(s.ctx, walletA.String())
		s.Require().NoError(err)
		s.Equal(string(audit.EventRecoveryReverted), events[len(events)-1].Action)

		s.Require().NoError(s.service.DeleteIdentity(s.ctx, walletA))
	})

	s.Run("pre-existing replacement record is kept", func() {
		s.register(walletA, identityX, 250)
		s.register(walletC, identityX, 840)
		s.Require().NoError(s.service.RecoverIdentity(s.ctx, walletA, walletC, identityX))

		s.Require().NoError(s.service.RevertRecovery(s.ctx, walletA, walletC))

		rec, err := s.service.Record(s.ctx, walletC)
		s.Require().NoError(err)
		s.Equal(domain.CountryCode(840), rec.Country)
		ok, err := s.service.IsVerified(s.ctx, walletA, nil)
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("unknown or mismatched link is refused", func() {
		err := s.service.RevertRecovery(s.ctx, walletB, walletC)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		s.Require().NoError(s.service.RecoverIdentity(s.ctx, walletA, walletB, identityX))
		err = s.service.RevertRecovery(s.ctx, walletA, walletC)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		lost, err := s.service.IsLost(s.ctx, walletA)
		s.Require().NoError(err)
		s.True(lost)
	})
}
