// Package playback auto-advances a stepper on a timer.
//
// A Player is either Idle or Running. Start moves it to Running and arms a
// timer; every tick advances the stepper by one and re-arms until the last
// step, where the Player returns to Idle on its own. Cancel stops the pending
// timer and bumps a generation counter, so a tick that already fired but has
// not yet taken the lock does nothing.
//
// The timer source is a Scheduler so tests can drive time by hand.
package playback
