package fetch

// Package fetch is the boundary to the retrieval engine. It defines the
// Fetcher contract with its tagged outcomes (success, cancelled-with-action,
// unavailable, failure) and implements it on top of yt-dlp via
// github.com/lrstanley/go-ytdlp. Cancellation is cooperative: it is signalled
// by the progress callback returning an error, checked once per yt-dlp
// progress hook invocation. An engine that withholds hooks for the whole
// transfer cannot be cancelled mid-step; that latency bound is inherited
// from the engine's callback granularity.
