// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/vechain/parastaking/builtin/staker/era"
	"github.com/vechain/parastaking/builtin/staker/rewards"
	"github.com/vechain/parastaking/thor"
)

// OnInitialize runs at the start of block n. It advances the era when due,
// then pays at most one collator of the era whose payout is released.
// It returns the weight consumed.
func (s *Staker) OnInitialize(n uint32) (uint64, error) {
	var extra uint64
	err := s.call("on_initialize", func() error {
		info, err := s.eraService.Era()
		if err != nil {
			return err
		}
		if info.ShouldUpdate(n) {
			w, err := s.transition(info, n)
			if err != nil {
				return err
			}
			extra += thor.EraTransitionWeight + w
		}
		paid, w, err := s.handleDelayedPayouts(info.Current)
		if err != nil {
			return err
		}
		if paid {
			extra += thor.PayoutCollatorWeight + w
		}
		return nil
	})
	if err != nil {
		logger.Error("block hook failed", "block", n, "error", err)
		return 0, err
	}
	w := s.charger.Total() + thor.BlockHookBaseWeight + extra
	metricHookWeight().Observe(int64(w))
	return w, nil
}

// transition starts the next era. It returns the weight reported by the OnNewEra hook.
func (s *Staker) transition(info *era.Info, n uint32) (uint64, error) {
	info.Update(n)
	var hookWeight uint64
	if s.hooks.OnNewEra != nil {
		hookWeight = s.hooks.OnNewEra(info.Current)
	}
	unpaid, err := s.prepareStakingPayouts(info.Current)
	if err != nil {
		return 0, err
	}
	count, nominationCount, exposed, err := s.selectTopCandidates(info.Current)
	if err != nil {
		return 0, err
	}
	// an era without points has no payout, its snapshots go once selection no longer needs them
	if unpaid != 0 && unpaid < info.Current {
		if err := s.rewardService.ClearAtStake(unpaid); err != nil {
			return 0, err
		}
	}
	if err := s.eraService.SetEra(info); err != nil {
		return 0, err
	}
	total, err := s.globalStatsService.Total()
	if err != nil {
		return 0, err
	}
	if err := s.eraService.SetStaked(info.Current, total); err != nil {
		return 0, err
	}
	s.emit(NewEra{
		StartingBlock:           info.First,
		Era:                     info.Current,
		SelectedCollatorsNumber: count,
		TotalBalance:            new(big.Int).Set(exposed),
	})

	metricEraTransitions().Add(1)
	metricSelectedCollators().Set(int64(count))
	if total.IsInt64() {
		metricTotalStaked().Set(total.Int64())
	}
	logger.Info("new era", "era", info.Current, "first", info.First, "collators", count,
		"nominations", nominationCount, "exposed", exposed, "total", total)
	return hookWeight, nil
}

// NoteBlockAuthored credits the block author with PointsPerBlock in the current era.
func (s *Staker) NoteBlockAuthored(author thor.Address) error {
	if err := s.call("note_block_authored", func() error {
		now, err := s.currentEra()
		if err != nil {
			return err
		}
		return s.rewardService.AwardPoints(now, author, thor.PointsPerBlock())
	}); err != nil {
		logger.Error("award points failed", "author", author, "error", err)
		return err
	}
	return nil
}

// prepareStakingPayouts releases the reward of the era RewardPaymentDelay eras before now.
// When that era has no points nothing is released and the era is returned.
func (s *Staker) prepareStakingPayouts(now uint32) (uint32, error) {
	delay := thor.RewardPaymentDelay()
	if now <= delay {
		return 0, nil
	}
	eraToPay := now - delay
	points, err := s.rewardService.Points(eraToPay)
	if err != nil {
		return 0, err
	}
	s.eraService.DeleteStaked(eraToPay)
	if points == 0 {
		return eraToPay, nil
	}

	free, err := s.currency.FreeBalance(s.rewardPot)
	if err != nil {
		return 0, err
	}
	s.charger.Charge(thor.BalanceWeight)
	pot := saturatingSub(free, s.currency.MinimumBalance())
	locked, err := s.rewardService.LockedEraPayout()
	if err != nil {
		return 0, err
	}

	payout := new(big.Int)
	if pot.Cmp(locked) < 0 {
		logger.Error("reward pot below locked era payout", "era", eraToPay, "pot", pot, "locked", locked)
		s.emit(NotEnoughFundsForEraPayment{RewardPotBalance: pot})
	} else {
		payout.Sub(pot, locked)
	}
	s.rewardService.SetLockedEraPayout(new(big.Int).Add(locked, payout))

	return 0, s.rewardService.SetDelayedPayout(eraToPay, &rewards.DelayedPayout{
		EraIssuance:        new(big.Int).Set(payout),
		TotalStakingReward: new(big.Int).Set(payout),
	})
}

// handleDelayedPayouts pays one collator of the era RewardPaymentDelay eras before now,
// and cleans the era up once its last author has been paid. It reports whether a collator
// was paid and the weight reported by the OnCollatorPayout hook.
func (s *Staker) handleDelayedPayouts(now uint32) (bool, uint64, error) {
	delay := thor.RewardPaymentDelay()
	if now < delay {
		return false, 0, nil
	}
	eraToPay := now - delay
	payout, err := s.rewardService.DelayedPayout(eraToPay)
	if err != nil || payout == nil {
		return false, 0, err
	}
	totalPoints, err := s.rewardService.Points(eraToPay)
	if err != nil {
		return false, 0, err
	}
	if totalPoints == 0 {
		logger.Warn("delayed payout without points", "era", eraToPay)
		return false, 0, s.cleanupEra(eraToPay)
	}

	collator, pts, more, err := s.rewardService.PopAuthor(eraToPay)
	if err != nil {
		return false, 0, err
	}
	var hookWeight uint64
	if pts > 0 {
		if hookWeight, err = s.payCollator(eraToPay, collator, pts, totalPoints, payout.TotalStakingReward); err != nil {
			return false, 0, err
		}
	}
	if !more {
		if err := s.cleanupEra(eraToPay); err != nil {
			return false, 0, err
		}
	}
	return pts > 0, hookWeight, nil
}

// cleanupEra drops what is left of a paid era, including snapshots of collators without points.
func (s *Staker) cleanupEra(eraIndex uint32) error {
	s.rewardService.DeleteDelayedPayout(eraIndex)
	s.rewardService.DeletePoints(eraIndex)
	return s.rewardService.ClearAtStake(eraIndex)
}

func (s *Staker) payCollator(eraIndex uint32, collator thor.Address, pts, totalPoints uint32, reward *big.Int) (uint64, error) {
	share := rewards.FromRational(big.NewInt(int64(pts)), big.NewInt(int64(totalPoints))).Mul(reward)

	snap, err := s.rewardService.AtStake(eraIndex, collator)
	if err != nil {
		return 0, err
	}
	s.rewardService.DeleteAtStake(eraIndex, collator)
	if snap == nil {
		logger.Warn("authored without snapshot", "era", eraIndex, "collator", collator)
		return 0, nil
	}

	var hookWeight uint64
	if amt := rewards.FromRational(snap.Bond, snap.Total).Mul(share); amt.Sign() > 0 {
		paid, err := s.pay(collator, amt, "collator")
		if err != nil {
			return 0, err
		}
		if paid && s.hooks.OnCollatorPayout != nil {
			hookWeight = s.hooks.OnCollatorPayout(eraIndex, collator, new(big.Int).Set(amt))
		}
	}
	for _, nom := range snap.Nominations {
		if amt := rewards.FromRational(nom.Amount, snap.Total).Mul(share); amt.Sign() > 0 {
			if _, err := s.pay(nom.Owner, amt, "nominator"); err != nil {
				return 0, err
			}
		}
	}
	return hookWeight, nil
}

// pay transfers a reward out of the pot and reports whether it went through.
// A failed transfer is reported as an event, not an error.
func (s *Staker) pay(to thor.Address, amount *big.Int, role string) (bool, error) {
	s.charger.Charge(thor.BalanceWeight)
	if err := s.currency.Transfer(s.rewardPot, to, amount); err != nil {
		logger.Error("failed to pay staking reward", "payee", to, "amount", amount, "error", err)
		s.emit(ErrorPayingStakingReward{Payee: to, Rewards: new(big.Int).Set(amount)})
		metricRewardsFailed().Add(1)
		return false, nil
	}
	locked, err := s.rewardService.LockedEraPayout()
	if err != nil {
		return false, err
	}
	s.rewardService.SetLockedEraPayout(saturatingSub(locked, amount))
	s.emit(Rewarded{Account: to, Rewards: new(big.Int).Set(amount)})
	if amount.IsInt64() {
		metricRewardsPaid().AddWithLabel(amount.Int64(), map[string]string{"role": role})
	}
	return true, nil
}
