package platform

// Package platform handles filesystem concerns around downloaded artifacts:
// locating a job's output file by its id prefix, salvaging an in-progress
// file into the stable partial path, and the unconditional removal of every
// file a job produced. Filenames are namespaced by job id so concurrent jobs
// sharing one output directory never collide.
