// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math"
	"math/big"
	"sort"

	"github.com/pkg/errors"

	"github.com/vechain/parastaking/builtin/staker/era"
	"github.com/vechain/parastaking/builtin/storage"
	"github.com/vechain/parastaking/thor"
)

var (
	slotAtStake         = thor.BytesToBytes32([]byte("at-stake"))
	slotAtStakeIndex    = thor.BytesToBytes32([]byte("at-stake-index"))
	slotAwardedPts      = thor.BytesToBytes32([]byte("awarded-pts"))
	slotAwardedAuthors  = thor.BytesToBytes32([]byte("awarded-authors"))
	slotPoints          = thor.BytesToBytes32([]byte("points"))
	slotDelayedPayouts  = thor.BytesToBytes32([]byte("delayed-payouts"))
	slotLockedEraPayout = thor.BytesToBytes32([]byte("locked-era-payout"))
)

// Service stores everything the payout engine needs per era.
// AwardedAuthors indexes the accounts holding AwardedPts for an era, sorted ascending,
// so the per-era entries can be drained in a deterministic order. The at-stake index
// does the same for snapshots.
type Service struct {
	atStake         *storage.Mapping[era.AccountKey, *CollatorSnapshot]
	atStakeIndex    *storage.Mapping[era.Key, []thor.Address]
	awardedPts      *storage.Mapping[era.AccountKey, uint32]
	awardedAuthors  *storage.Mapping[era.Key, []thor.Address]
	points          *storage.Mapping[era.Key, uint32]
	delayedPayouts  *storage.Mapping[era.Key, *DelayedPayout]
	lockedEraPayout *storage.Uint
}

func New(sctx *storage.Context) *Service {
	return &Service{
		atStake:         storage.NewMapping[era.AccountKey, *CollatorSnapshot](sctx, slotAtStake),
		atStakeIndex:    storage.NewMapping[era.Key, []thor.Address](sctx, slotAtStakeIndex),
		awardedPts:      storage.NewMapping[era.AccountKey, uint32](sctx, slotAwardedPts),
		awardedAuthors:  storage.NewMapping[era.Key, []thor.Address](sctx, slotAwardedAuthors),
		points:          storage.NewMapping[era.Key, uint32](sctx, slotPoints),
		delayedPayouts:  storage.NewMapping[era.Key, *DelayedPayout](sctx, slotDelayedPayouts),
		lockedEraPayout: storage.NewUint(sctx, slotLockedEraPayout),
	}
}

// AtStake returns the snapshot of candidate for era, nil if absent.
func (s *Service) AtStake(eraIndex uint32, candidate thor.Address) (*CollatorSnapshot, error) {
	snap, err := s.atStake.Get(era.AccountKey{Era: eraIndex, Account: candidate})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get at stake")
	}
	return snap, nil
}

func (s *Service) SetAtStake(eraIndex uint32, candidate thor.Address, snap *CollatorSnapshot) error {
	index, err := s.atStakeIndex.Get(era.Key(eraIndex))
	if err != nil {
		return errors.Wrap(err, "failed to get at stake index")
	}
	if index, added := insertSorted(index, candidate); added {
		if err := s.atStakeIndex.Set(era.Key(eraIndex), index); err != nil {
			return errors.Wrap(err, "failed to set at stake index")
		}
	}
	if err := s.atStake.Set(era.AccountKey{Era: eraIndex, Account: candidate}, snap); err != nil {
		return errors.Wrap(err, "failed to set at stake")
	}
	return nil
}

// DeleteAtStake removes one snapshot. The era index keeps the entry until ClearAtStake.
func (s *Service) DeleteAtStake(eraIndex uint32, candidate thor.Address) {
	s.atStake.Delete(era.AccountKey{Era: eraIndex, Account: candidate})
}

// ClearAtStake removes every snapshot taken for era.
func (s *Service) ClearAtStake(eraIndex uint32) error {
	index, err := s.atStakeIndex.Get(era.Key(eraIndex))
	if err != nil {
		return errors.Wrap(err, "failed to get at stake index")
	}
	for _, candidate := range index {
		s.atStake.Delete(era.AccountKey{Era: eraIndex, Account: candidate})
	}
	s.atStakeIndex.Delete(era.Key(eraIndex))
	return nil
}

// AwardedPoints returns the points candidate earned in era.
func (s *Service) AwardedPoints(eraIndex uint32, candidate thor.Address) (uint32, error) {
	pts, err := s.awardedPts.Get(era.AccountKey{Era: eraIndex, Account: candidate})
	if err != nil {
		return 0, errors.Wrap(err, "failed to get awarded points")
	}
	return pts, nil
}

// Points returns the total points awarded in era.
func (s *Service) Points(eraIndex uint32) (uint32, error) {
	pts, err := s.points.Get(era.Key(eraIndex))
	if err != nil {
		return 0, errors.Wrap(err, "failed to get points")
	}
	return pts, nil
}

func (s *Service) DeletePoints(eraIndex uint32) {
	s.points.Delete(era.Key(eraIndex))
}

// Authors returns the accounts with awarded points in era, sorted ascending.
func (s *Service) Authors(eraIndex uint32) ([]thor.Address, error) {
	authors, err := s.awardedAuthors.Get(era.Key(eraIndex))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get awarded authors")
	}
	return authors, nil
}

// AwardPoints credits pts to author in era and to the era total.
func (s *Service) AwardPoints(eraIndex uint32, author thor.Address, pts uint32) error {
	key := era.AccountKey{Era: eraIndex, Account: author}
	current, err := s.awardedPts.Get(key)
	if err != nil {
		return errors.Wrap(err, "failed to get awarded points")
	}
	if current == 0 {
		authors, err := s.Authors(eraIndex)
		if err != nil {
			return err
		}
		if authors, added := insertSorted(authors, author); added {
			if err := s.awardedAuthors.Set(era.Key(eraIndex), authors); err != nil {
				return errors.Wrap(err, "failed to set awarded authors")
			}
		}
	}
	if err := s.awardedPts.Set(key, saturatingAdd(current, pts)); err != nil {
		return errors.Wrap(err, "failed to set awarded points")
	}

	total, err := s.Points(eraIndex)
	if err != nil {
		return err
	}
	if err := s.points.Set(era.Key(eraIndex), saturatingAdd(total, pts)); err != nil {
		return errors.Wrap(err, "failed to set points")
	}
	return nil
}

// PopAuthor removes the smallest awarded author of era and returns it with its points.
// The last return value reports whether the era still has authors left.
func (s *Service) PopAuthor(eraIndex uint32) (thor.Address, uint32, bool, error) {
	authors, err := s.Authors(eraIndex)
	if err != nil {
		return thor.Address{}, 0, false, err
	}
	if len(authors) == 0 {
		return thor.Address{}, 0, false, nil
	}
	author := authors[0]
	key := era.AccountKey{Era: eraIndex, Account: author}
	pts, err := s.awardedPts.Get(key)
	if err != nil {
		return thor.Address{}, 0, false, errors.Wrap(err, "failed to get awarded points")
	}
	s.awardedPts.Delete(key)

	authors = authors[1:]
	if len(authors) == 0 {
		s.awardedAuthors.Delete(era.Key(eraIndex))
	} else if err := s.awardedAuthors.Set(era.Key(eraIndex), authors); err != nil {
		return thor.Address{}, 0, false, errors.Wrap(err, "failed to set awarded authors")
	}
	return author, pts, len(authors) > 0, nil
}

// DelayedPayout returns the payout prepared for era, nil if absent.
func (s *Service) DelayedPayout(eraIndex uint32) (*DelayedPayout, error) {
	p, err := s.delayedPayouts.Get(era.Key(eraIndex))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get delayed payout")
	}
	return p, nil
}

func (s *Service) SetDelayedPayout(eraIndex uint32, p *DelayedPayout) error {
	if err := s.delayedPayouts.Set(era.Key(eraIndex), p); err != nil {
		return errors.Wrap(err, "failed to set delayed payout")
	}
	return nil
}

func (s *Service) DeleteDelayedPayout(eraIndex uint32) {
	s.delayedPayouts.Delete(era.Key(eraIndex))
}

// LockedEraPayout returns the reward liability reserved for eras not yet fully paid.
func (s *Service) LockedEraPayout() (*big.Int, error) {
	v, err := s.lockedEraPayout.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get locked era payout")
	}
	return v, nil
}

func (s *Service) SetLockedEraPayout(v *big.Int) {
	s.lockedEraPayout.Set(v)
}

// insertSorted inserts acc into the ascending list unless already present.
func insertSorted(list []thor.Address, acc thor.Address) ([]thor.Address, bool) {
	i := sort.Search(len(list), func(i int) bool {
		return list[i].Compare(acc) >= 0
	})
	if i < len(list) && list[i] == acc {
		return list, false
	}
	list = append(list, thor.Address{})
	copy(list[i+1:], list[i:])
	list[i] = acc
	return list, true
}

func saturatingAdd(a, b uint32) uint32 {
	if a > math.MaxUint32-b {
		return math.MaxUint32
	}
	return a + b
}
