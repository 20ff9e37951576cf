package orchestrator

// Package orchestrator coordinates the full lifecycle of one download job:
// registration, quality-to-format resolution (including the interactive ask
// flow), the blocking fetch with its progress callback, the throttled
// reporter, outcome interpretation, artifact delivery, and the unconditional
// cleanup that leaves no registry entry, file, or throttle bookkeeping
// behind. One job's failure never prevents acceptance of the next.
