// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package engine holds the client-side reconciliation store for the suggestion
replica.

# Inputs

The store folds three kinds of authoritative input:

  - full snapshots from GET /suggestions (LoadSnapshot)
  - incremental push frames: vote_update, suggestion_update, new_suggestion
  - confirmed results of the actor's own vote mutations (ApplyLocalVoteResult)

# Version Discipline

Every suggestion row carries a server-assigned version that is bumped on each
authoritative write. The store applies an input only when its version is
strictly newer than the held one, which makes every apply idempotent and
immune to frame reordering or replay. Unversioned inputs are applied
unconditionally.

# Snapshot Generations

BeginLoad issues a generation token per snapshot fetch; LoadSnapshot rejects
any snapshot whose token is not the latest. A slow response from an earlier
fetch can therefore never overwrite the result of a later one.
*/
package engine
