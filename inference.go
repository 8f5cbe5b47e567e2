// inference.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the inference engine: given a board, the
// observer's rack and one observed opponent move (with its score),
// infer the probability distribution over the tiles the opponent's
// rack held back. Grounded on §4.K (the multiset enumeration, the
// per-candidate consistency test run through the move generator in
// Record-Best mode, the draws() multiplicity weighting) and on §5's
// "shared_rack_index... incremented when a worker claims a rack to
// evaluate" together with riddle.go's worker-pool idiom, generalized
// from a channel-collected candidate stream into a shared monotonic
// counter each worker advances under a mutex.

/*

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.

*/

package xwcore

import (
	"sort"
	"sync"

	"github.com/xskrafl/engine/internal/logging"
)

var inferLog = logging.Get("infer")

// InferenceObservation is the opponent's observed move: either a
// placement (PlayTiles/score) or an exchange (cardinality, score must
// be zero).
type InferenceObservation struct {
	IsExchange     bool
	PlayTiles      []MachineLetter // placement: full word tiles incl. played-through
	Row, Col       int
	Vertical       bool
	Score          int
	ExchangeCount  int
	EquityMargin   float64
}

// LeaveRackEntry is one candidate leave surviving the consistency
// test, together with its draw-weighted multiplicity. Exchanged is
// nil unless the observation was an exchange, in which case Leave is
// the rack left behind and Exchanged is the tiles put back.
type LeaveRackEntry struct {
	Leave     *Rack
	Exchanged *Rack
	Draws     float64
}

// InferenceCategory distinguishes the three equity populations §3
// tracks separately: the leave left behind, the tiles exchanged (only
// populated for an exchange observation), and the full candidate rack
// drawn before any tiles were set aside. Grounded on
// original_source's inference_defs.h inference_stat_t.
type InferenceCategory int

const (
	CategoryLeave InferenceCategory = iota
	CategoryExchanged
	CategoryRack
	numInferenceCategories
)

// inferenceSubtotal distinguishes the two per-letter-count
// accumulators §3 keeps, both over consistent candidates only: how
// many draws held exactly n of a letter, and how many distinct
// candidate leaves held exactly n of it (one per leave, not weighted
// by draws). Grounded on inference_defs.h inference_subtotal_t.
type inferenceSubtotal int

const (
	subtotalDraw inferenceSubtotal = iota
	subtotalLeave
	numInferenceSubtotals
)

// InferenceResults is the output of Infer: the top-K candidate leaves
// by draw count, a per-category equity Stat ({Leave, Exchanged, Rack}),
// and the 3-D subtotals[category][letter][count-1][draw|leave] array
// those Stats are built from, letting a caller ask, over the
// consistent candidates, "how many draws held exactly n of letter X,
// and how many distinct leaves did."
type InferenceResults struct {
	LeaveRackList []*LeaveRackEntry
	EquityStats   [numInferenceCategories]*Stat
	subtotals     [numInferenceCategories][]uint64
	alphabetSize  int
	Halt          HaltReason
}

func newInferenceResults(alphabetSize int) *InferenceResults {
	r := &InferenceResults{alphabetSize: alphabetSize}
	for i := range r.EquityStats {
		r.EquityStats[i] = NewStat()
		r.subtotals[i] = make([]uint64, alphabetSize*RackSize*int(numInferenceSubtotals))
	}
	return r
}

func subtotalIndex(letter MachineLetter, numberOfLetters int, sub inferenceSubtotal) int {
	return int(letter)*int(numInferenceSubtotals)*RackSize + (numberOfLetters-1)*int(numInferenceSubtotals) + int(sub)
}

// addSubtotal adds delta to the (letter, numberOfLetters, sub) cell of
// cat's subtotal array.
func (r *InferenceResults) addSubtotal(cat InferenceCategory, letter MachineLetter, numberOfLetters int, sub inferenceSubtotal, delta uint64) {
	r.subtotals[cat][subtotalIndex(letter, numberOfLetters, sub)] += delta
}

func (r *InferenceResults) getSubtotal(cat InferenceCategory, letter MachineLetter, numberOfLetters int, sub inferenceSubtotal) uint64 {
	return r.subtotals[cat][subtotalIndex(letter, numberOfLetters, sub)]
}

// recordValidLeave pushes rack's leave value (weighted by draws) into
// cat's equity Stat and increments its per-letter subtotals, per
// original_source's record_valid_leave/increment_subtotals_for_results.
func (r *InferenceResults) recordValidLeave(rack *Rack, cat InferenceCategory, leaveValue float64, draws uint64) {
	r.EquityStats[cat].PushWeighted(leaveValue, draws)
	for ml, c := range rack.Counts {
		if c > 0 {
			r.addSubtotal(cat, MachineLetter(ml), c, subtotalDraw, draws)
			r.addSubtotal(cat, MachineLetter(ml), c, subtotalLeave, 1)
		}
	}
}

// merge folds other's subtotals and equity samples into r, for
// combining per-worker results after the inference worker pool joins.
func (r *InferenceResults) merge(other *InferenceResults) {
	for i := range r.subtotals {
		for j := range r.subtotals[i] {
			r.subtotals[i][j] += other.subtotals[i][j]
		}
		r.EquityStats[i].Merge(other.EquityStats[i])
	}
	r.LeaveRackList = append(r.LeaveRackList, other.LeaveRackList...)
}

// LeaveStat builds a fresh Stat of "how many of that letter appeared
// in the target's leave" weighted by draws, for the given category,
// per original_source's set_stat_for_letter. Testable property #5 (∑
// draws(leave) over the LeaveRackList equals this Stat's sample count
// when summed over every letter at count 0) is checked against the
// CategoryLeave instance.
func (r *InferenceResults) LeaveStat(cat InferenceCategory, letter MachineLetter) *Stat {
	stat := NewStat()
	for n := 1; n <= RackSize; n++ {
		draws := r.getSubtotal(cat, letter, n, subtotalDraw)
		if draws > 0 {
			stat.PushWeighted(float64(n), draws)
		}
	}
	withoutLetter := r.EquityStats[cat].N() - int64(stat.N())
	if withoutLetter > 0 {
		stat.PushWeighted(0, uint64(withoutLetter))
	}
	return stat
}

// TotalDraws returns the draw-weighted sample count of the
// CategoryLeave population, i.e. every consistent candidate's leave.
func (r *InferenceResults) TotalDraws() float64 {
	return float64(r.EquityStats[CategoryLeave].N())
}

// Marginals returns, for each letter index, the draw-weighted expected
// count of that letter across every consistent CategoryLeave
// candidate - the flattened view callers wanting a quick per-letter
// probability (rather than the full subtotal breakdown) want.
func (r *InferenceResults) Marginals() []float64 {
	out := make([]float64, r.alphabetSize)
	for ml := 0; ml < r.alphabetSize; ml++ {
		for n := 1; n <= RackSize; n++ {
			draws := r.getSubtotal(CategoryLeave, MachineLetter(ml), n, subtotalDraw)
			out[ml] += float64(n) * float64(draws)
		}
	}
	if total := r.TotalDraws(); total > 0 {
		for ml := range out {
			out[ml] /= total
		}
	}
	return out
}

const inferenceEpsilon = 1e-9

// validateObservation implements §4.K's "failure modes (before
// start)" precondition checks.
func validateObservation(game *Game, target *Rack, obs InferenceObservation) *EngineError {
	if !obs.IsExchange && len(obs.PlayTiles) == 0 {
		return &EngineError{Kind: ErrNoTilesPlayed, Msg: "no tiles played"}
	}
	if obs.IsExchange && len(obs.PlayTiles) > 0 {
		return &EngineError{Kind: ErrBothPlayAndExchange, Msg: "both a play and an exchange were given"}
	}
	if obs.IsExchange {
		if !game.Bag.ExchangeAllowed() {
			return &EngineError{Kind: ErrExchangeNotAllowed, Msg: "bag has fewer than RackSize tiles"}
		}
		if obs.Score != 0 {
			return &EngineError{Kind: ErrExchangeScoreNotZero, Msg: "exchange move must score zero"}
		}
	}
	if target.Size > RackSize {
		return &EngineError{Kind: ErrRackOverflow, Msg: "target rack exceeds RackSize"}
	}
	return nil
}

// Infer runs the inference procedure of §4.K. game holds the known
// board and bag; target is the observer's own rack (known tiles);
// obs describes the opponent's single observed move. numThreads
// workers share a monotonic rack-index counter so each candidate leave
// is evaluated by exactly one worker.
func Infer(game *Game, target *Rack, obs InferenceObservation, numThreads int, topK int, errStatus *ErrorStatus) (*InferenceResults, *EngineError) {
	if err := validateObservation(game, target, obs); err != nil {
		return nil, err
	}

	// Step 1: remove played tiles from the bag-as-rack universe, add
	// them to the target's known tiles (only meaningful for placements;
	// an exchange's tiles went back into the bag already, and the
	// opponent's exchanged tiles are not observable, so only the
	// observer's own known tiles seed the "known" side here).
	universe := game.Bag.AsCounts(game.LetterDist)
	known := target.Clone()
	for _, t := range obs.PlayTiles {
		if t != PlayedThroughMarker {
			universe[Unblank(t)]--
			known.Add(Unblank(t))
		}
	}
	for ml, c := range target.Counts {
		universe[ml] += c
	}

	knownCount := known.Size
	k := RackSize - knownCount
	if k < 0 {
		k = 0
	}

	tc := NewThreadControl(0)
	var sharedIndex int64
	var idxMu sync.Mutex

	allCandidates := enumerateLeaves(universe, k, game.LetterDist.Size)
	inferLog.Infof("inference starting: known=%d candidates=%d threads=%d", knownCount, len(allCandidates), numThreads)

	threads := numThreads
	if threads < 1 {
		threads = 1
	}

	// Each worker accumulates into its own InferenceResults (no shared
	// mutex on the hot path); they are combined with Stat.Merge once
	// every worker has joined, per original_source's per-thread
	// leave_stats/exchanged_stats/rack_stats + combine_stats.
	perWorker := make([]*InferenceResults, threads)
	for i := range perWorker {
		perWorker[i] = newInferenceResults(game.LetterDist.Size)
	}

	tc.RunWorkerPool(threads, func(workerID int) {
		worker := cloneGameForInference(game)
		results := perWorker[workerID]
		for {
			idxMu.Lock()
			idx := sharedIndex
			sharedIndex++
			idxMu.Unlock()
			if idx >= int64(len(allCandidates)) {
				return
			}
			select {
			case <-tc.Done():
				return
			default:
			}

			candidate := allCandidates[idx]
			if inferLog.IsEnabledFor(logging.DEBUG) {
				inferLog.Debugf("worker=%d evaluating candidate=%d/%d", workerID, idx, len(allCandidates))
			}
			draws := drawWeight(universe, candidate)
			if draws <= 0 {
				continue
			}

			trialRack := known.Clone()
			for ml, c := range candidate {
				for i := 0; i < c; i++ {
					trialRack.Add(MachineLetter(ml))
				}
			}

			consistent, best := isConsistent(worker, trialRack, obs)
			if !consistent {
				continue
			}
			recordConsistentCandidate(results, worker, trialRack, obs, best, uint64(draws))
		}
	})

	combined := newInferenceResults(game.LetterDist.Size)
	for _, r := range perWorker {
		combined.merge(r)
	}

	sort.SliceStable(combined.LeaveRackList, func(i, j int) bool { return combined.LeaveRackList[i].Draws > combined.LeaveRackList[j].Draws })
	if topK > 0 && len(combined.LeaveRackList) > topK {
		combined.LeaveRackList = combined.LeaveRackList[:topK]
	}

	combined.Halt = tc.HaltReason()
	inferLog.Infof("inference stopped: reason=%v consistent=%d totalDraws=%.1f", combined.Halt, len(combined.LeaveRackList), combined.TotalDraws())

	return combined, nil
}

// recordConsistentCandidate categorizes one consistent candidate rack
// into InferenceResults per original_source's evaluate_possible_leave:
// a placement records only its CategoryLeave; an exchange additionally
// records the full candidate as CategoryRack and splits it by the top
// move's actual exchanged tiles into CategoryLeave/CategoryExchanged.
func recordConsistentCandidate(results *InferenceResults, worker *Game, trialRack *Rack, obs InferenceObservation, best *Move, draws uint64) {
	if !obs.IsExchange {
		leave := trialRack.Clone()
		for _, t := range obs.PlayTiles {
			if t != PlayedThroughMarker {
				leave.Remove(Unblank(t))
			}
		}
		lv := worker.KLV.LeaveValue(leave)
		results.recordValidLeave(leave, CategoryLeave, lv, draws)
		results.LeaveRackList = append(results.LeaveRackList, &LeaveRackEntry{Leave: leave, Draws: float64(draws)})
		return
	}

	results.recordValidLeave(trialRack, CategoryRack, 0, draws)
	leave := trialRack.Clone()
	exchanged := NewRack(worker.LetterDist)
	for _, t := range best.Exchanged {
		leave.Remove(t)
		exchanged.Add(t)
	}
	results.recordValidLeave(leave, CategoryLeave, worker.KLV.LeaveValue(leave), draws)
	results.recordValidLeave(exchanged, CategoryExchanged, worker.KLV.LeaveValue(exchanged), draws)
	results.LeaveRackList = append(results.LeaveRackList, &LeaveRackEntry{Leave: leave, Exchanged: exchanged, Draws: float64(draws)})
}

// leaveValueMemoSize bounds the per-worker memoized-KLV cache wired in
// by cloneGameForInference.
const leaveValueMemoSize = 4096

// cloneGameForInference makes a private copy of game for one worker to
// mutate (trial rack contents, Record-Best move generation) without
// racing other workers. Inference workers never call PlayMove, so no
// independent bag PRNG stream is needed. The worker's KLV is swapped
// for a memoized view (klv.go's KLV.WithMemo): isConsistent drives the
// move generator over one trial rack after another, and the leftover
// leaves the generator scores within a single trial repeat heavily, so
// memoizing pays for itself well before the memo's bound is reached.
func cloneGameForInference(game *Game) *Game {
	clone := &Game{
		Board:      &Board{},
		Bag:        game.Bag,
		KWG:        game.KWG,
		KLV:        game.KLV.WithMemo(leaveValueMemoSize),
		LetterDist: game.LetterDist,
	}
	*clone.Board = *game.Board
	clone.PlayerOnTurn = game.PlayerOnTurn
	return clone
}

// isConsistent implements §4.K step 3's consistency test: the observed
// move is at least as good as what the opponent could have found, to
// within equity_margin, or matches the special-cased exchange/empty-
// bag escapes.
func isConsistent(worker *Game, trialRack *Rack, obs InferenceObservation) (bool, *Move) {
	if worker.Bag.TileCount() == 0 {
		return true, nil
	}
	ml := NewMoveList(RecordBest, 1)
	// oppRack is nil: the bag-empty early return above is the only
	// path taken whenever the bag has run dry, so the shadow pass's
	// endgame adjustment (which needs it) can never fire here.
	GenerateMoves(worker.KWG, worker.KLV, worker.Board, worker.LetterDist, trialRack, worker.Bag, nil, ml)
	best := ml.Best()
	if best == nil {
		return false, nil
	}
	if obs.IsExchange {
		return best.Type == MoveTypeExchange && len(best.Exchanged) == obs.ExchangeCount, best
	}
	observedEquity := float64(obs.Score) + leaveValueAfterObserved(worker, trialRack, obs)
	return observedEquity >= best.Equity-obs.EquityMargin-inferenceEpsilon, best
}

// leaveValueAfterObserved computes the leave value of trialRack after
// removing the tiles the observed move actually played, for comparison
// against the generator's own equity figure.
func leaveValueAfterObserved(worker *Game, trialRack *Rack, obs InferenceObservation) float64 {
	remaining := trialRack.Clone()
	for _, t := range obs.PlayTiles {
		if t != PlayedThroughMarker {
			remaining.Remove(Unblank(t))
		}
	}
	return worker.KLV.LeaveValue(remaining)
}

// enumerateLeaves produces every multiset of size k drawable from
// universe (a per-letter count array), as per-letter count arrays
// themselves, via lexicographic recursion with pruning when a
// counter's remaining budget hits zero.
func enumerateLeaves(universe []int, k, alphabetSize int) [][]int {
	var out [][]int
	current := make([]int, alphabetSize)
	var recurse func(ml, remaining int)
	recurse = func(ml, remaining int) {
		if remaining == 0 {
			out = append(out, append([]int(nil), current...))
			return
		}
		if ml >= alphabetSize {
			return
		}
		maxTake := universe[ml]
		if maxTake > remaining {
			maxTake = remaining
		}
		for take := 0; take <= maxTake; take++ {
			current[ml] = take
			recurse(ml+1, remaining-take)
		}
		current[ml] = 0
	}
	recurse(0, k)
	return out
}

// drawWeight computes draws(leave) = product over letters of
// C(bag_count[i], leave_count[i]), the multiplicity of this multiset
// under random draws from universe.
func drawWeight(universe []int, leave []int) float64 {
	weight := 1.0
	for ml, c := range leave {
		if c == 0 {
			continue
		}
		weight *= binomial(universe[ml], c)
		if weight == 0 {
			return 0
		}
	}
	return weight
}

func binomial(n, r int) float64 {
	if r < 0 || r > n {
		return 0
	}
	result := 1.0
	for i := 0; i < r; i++ {
		result *= float64(n-i) / float64(i+1)
	}
	return result
}
