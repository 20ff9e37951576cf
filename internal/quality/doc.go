package quality

// Package quality maps stored user quality preferences to yt-dlp format
// selector expressions with explicit fallback chains. Resolution is a pure
// function; malformed stored values fail closed to the unconstrained "best"
// selector instead of raising.
