// Package shocks recovers the anticipated-shock sequence that makes one
// control variable follow a given path, and embeds that sequence into an
// initial state for impulse simulation.
//
// With N periods and M endogenous states outside the shock family, the
// unknowns are the N shock magnitudes followed by M blocks of N-1 implied
// future values, one block per other state:
//
//	[ TL  TR ] [ e ]   [ path ]
//	[ BL  BR ] [ z ] = [  0   ]
//
// TL is upper triangular in gx (target row, shock horizon j-i), TR feeds
// each other state's next-period value back into the target, BL and BR
// encode the transition law of the other states. When M is zero only TL
// remains and the system is solved by back substitution.
package shocks
