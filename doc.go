// Package velo is a small fine-grained reactive state runtime.
//
// States hold values. Reactions are functions that run once when created
// and run again whenever a state they read while the engine was recording
// changes:
//
//	e := velo.New()
//
//	count := velo.Record(e, func() *velo.State[int] {
//		count := velo.CreateState(e, 0)
//		e.CreateReaction(func() {
//			fmt.Println("count is", count.Get())
//		})
//		return count
//	})
//
//	count.Set(1)
//	e.ToBeClean().Wait(ctx)
//
// Writes made outside BatchReactions are coalesced into an auto-batch that
// runs on the engine's Loop. Flush runs it right away.
//
// Values stored in states are compared by revision (see package revision),
// and containers wrapped by package mutable notify the states holding them
// when they are mutated in place.
package velo
