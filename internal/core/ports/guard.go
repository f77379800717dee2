package ports

// OpGuard is the mutual-exclusion guard around external capability calls.
// TryAcquire never blocks: a nested acquisition attempt returns false and the
// caller fails with a reentrancy error instead of deadlocking.
type OpGuard interface {
	TryAcquire() bool
	Release()
}
