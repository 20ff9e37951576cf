package progress

// Package progress holds the per-job transfer state written by the fetcher's
// progress callback, the throttled reporter that renders it into a chat
// status message, and the shared throttle table used by upload progress.
// Writes and reads may race across goroutines; the contract is eventual
// visibility, and the throttle deliberately coalesces updates.
