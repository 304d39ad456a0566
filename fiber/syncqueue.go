package fiber

// scheduleSyncCallback appends one queue entry per call, no deduplication.
// Redundant entries are cheap because stale ones degrade to a lane
// re-check inside performWorkOnRoot instead of a second render.
func (rs *RenderSystem) scheduleSyncCallback(cb func()) {
	rs.syncQueue = append(rs.syncQueue, cb)
}

// Runs the queued sync callbacks in FIFO order exactly once.
//
// The index chases the live length, so entries appended while the flush is
// running are picked up by the same flush. Reentrant calls and calls with
// nothing queued return immediately, which makes it safe to schedule a
// flush for every queued callback without overdraining.
func (rs *RenderSystem) flushSyncCallbacks() {
	if rs.isFlushingSyncQueue || len(rs.syncQueue) == 0 {
		return
	}
	rs.isFlushingSyncQueue = true
	defer func() {
		rs.isFlushingSyncQueue = false
	}()
	for i := 0; i < len(rs.syncQueue); i++ {
		rs.syncQueue[i]()
	}
	rs.syncQueue = rs.syncQueue[:0]
}
