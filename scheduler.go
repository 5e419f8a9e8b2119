package traek

// Scheduler schedules a callback onto the host environment's next
// animation frame. Scheduled callbacks are fire-and-forget; the engine
// coalesces by flag, never by cancelling.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(fn func())

// Schedule calls f(fn).
func (f SchedulerFunc) Schedule(fn func()) { f(fn) }
