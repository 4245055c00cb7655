// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package view projects the suggestion replica into display order.

Projection is a pure function over a replica slice: filtering by search text,
category and status, optional leaderboard ordering by vote count, and an
optional limit. Projections never mutate the input, and ties under vote
ordering keep their incoming relative order so rows do not jump around as
counts change.
*/
package view
