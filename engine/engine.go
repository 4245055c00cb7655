// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"log/slog"
	"sync"

	"github.com/ARRNAV26/Voting-System/models"
)

// Store is the client-side reconciliation engine. It holds the local replica
// of the suggestion list and folds authoritative inputs into it: full
// snapshots from the REST API, incremental frames from the push channel, and
// confirmed results of the actor's own mutations.
//
// All inputs carry a per-suggestion version. The store only applies an input
// whose version is strictly newer than the one it already holds, so late or
// replayed frames cannot roll the replica backwards. Inputs without a version
// (zero) are always applied.
type Store struct {
	mu      sync.RWMutex
	actorID int64

	order []int64
	items map[int64]*entry

	// generation guards snapshot loads: a snapshot begun before the latest
	// BeginLoad call is stale and must not be installed.
	generation uint64

	subs []func()
}

type entry struct {
	suggestion models.Suggestion
	actorVote  models.VoteState
}

// NewStore creates an empty store for the given actor. The actor id decides
// which vote_update frames may touch the tri-state vote indicator.
func NewStore(actorID int64) *Store {
	return &Store{
		actorID: actorID,
		items:   make(map[int64]*entry),
	}
}

// Subscribe registers a callback invoked after every state change. Callbacks
// run outside the store lock and may call back into the store.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

// BeginLoad marks the start of a snapshot fetch and returns a generation
// token. Pass the token to LoadSnapshot; if another BeginLoad happened in
// between, the older snapshot is rejected.
func (s *Store) BeginLoad() uint64 {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()
	return gen
}

// LoadSnapshot replaces the replica with a full authoritative snapshot.
// It returns false without touching state when gen is not the latest
// generation issued by BeginLoad.
//
// Snapshot rows never carry per-actor vote data, so actor vote states held
// on the previous replica survive the reload regardless of version. Only
// the actor's own mutations and its own vote_update frames move the
// tri-state.
func (s *Store) LoadSnapshot(gen uint64, suggestions []models.Suggestion) bool {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		slog.Debug("Discarding stale snapshot", "generation", gen, "current", s.generation)
		return false
	}

	old := s.items
	s.items = make(map[int64]*entry, len(suggestions))
	s.order = s.order[:0]
	for _, sg := range suggestions {
		sg.VoteCount = clampCount(sg.VoteCount)
		e := &entry{suggestion: sg}
		if prev, ok := old[sg.ID]; ok {
			e.actorVote = prev.actorVote
		}
		s.items[sg.ID] = e
		s.order = append(s.order, sg.ID)
	}
	s.mu.Unlock()

	s.notify()
	return true
}

// ApplyVoteUpdate folds a vote_update frame into the replica. Frames for
// unknown suggestions or with a non-newer version are ignored. The tri-state
// actor vote only changes when the frame was caused by this store's actor.
func (s *Store) ApplyVoteUpdate(u models.VoteUpdate) {
	s.mu.Lock()
	e, ok := s.items[u.SuggestionID]
	if !ok || !newer(u.Version, e.suggestion.Version) {
		s.mu.Unlock()
		return
	}
	e.suggestion.VoteCount = clampCount(u.NewVoteCount)
	if u.Version > 0 {
		e.suggestion.Version = u.Version
	}
	if u.ActorID == s.actorID {
		e.actorVote = models.VoteStateOf(u.UserVote)
	}
	s.mu.Unlock()

	s.notify()
}

// ApplySuggestionUpdate folds an authoritative full-row update (for example a
// status transition) into the replica. Unknown ids are inserted at the end;
// non-newer versions are ignored.
func (s *Store) ApplySuggestionUpdate(sg models.Suggestion) {
	s.mu.Lock()
	sg.VoteCount = clampCount(sg.VoteCount)
	e, ok := s.items[sg.ID]
	if !ok {
		s.items[sg.ID] = &entry{suggestion: sg}
		s.order = append(s.order, sg.ID)
		s.mu.Unlock()
		s.notify()
		return
	}
	if !newer(sg.Version, e.suggestion.Version) {
		s.mu.Unlock()
		return
	}
	e.suggestion = sg
	s.mu.Unlock()

	s.notify()
}

// ApplyNewSuggestion prepends a newly created suggestion. A second frame for
// an id already present is treated as an update, so replays cannot create
// duplicates.
func (s *Store) ApplyNewSuggestion(sg models.Suggestion) {
	s.mu.Lock()
	if _, ok := s.items[sg.ID]; ok {
		s.mu.Unlock()
		s.ApplySuggestionUpdate(sg)
		return
	}
	sg.VoteCount = clampCount(sg.VoteCount)
	s.items[sg.ID] = &entry{suggestion: sg}
	s.order = append([]int64{sg.ID}, s.order...)
	s.mu.Unlock()

	s.notify()
}

// ApplyLocalVoteResult installs the confirmed outcome of the actor's own
// vote mutation: the authoritative count and version from the REST response
// plus the actor's resulting tri-state vote. Stale versions are ignored, the
// push channel frame that follows will carry the same values anyway.
func (s *Store) ApplyLocalVoteResult(suggestionID int64, voteCount int, version int64, vote models.VoteState) {
	s.mu.Lock()
	e, ok := s.items[suggestionID]
	if !ok || !newer(version, e.suggestion.Version) {
		s.mu.Unlock()
		return
	}
	e.suggestion.VoteCount = clampCount(voteCount)
	if version > 0 {
		e.suggestion.Version = version
	}
	e.actorVote = vote
	s.mu.Unlock()

	s.notify()
}

// Suggestions returns a copy of the replica in its current order.
func (s *Store) Suggestions() []models.Suggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Suggestion, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].suggestion)
	}
	return out
}

// Suggestion returns a single replica row by id.
func (s *Store) Suggestion(id int64) (models.Suggestion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[id]
	if !ok {
		return models.Suggestion{}, false
	}
	return e.suggestion, true
}

// ActorVote reports the actor's current vote on a suggestion.
func (s *Store) ActorVote(suggestionID int64) models.VoteState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[suggestionID]
	if !ok {
		return models.VoteNone
	}
	return e.actorVote
}

// Len reports the number of suggestions in the replica.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// newer reports whether an incoming version supersedes the held one.
// Unversioned inputs (zero) are always accepted.
func newer(incoming, held int64) bool {
	return incoming == 0 || incoming > held
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
