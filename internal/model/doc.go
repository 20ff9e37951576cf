package model

// Package model defines domain data structures shared across the bot: jobs,
// job status enums, cancel actions, and the media metadata snapshot used to
// build delivery captions. Structures carry no behavior beyond formatting
// and state predicates.
