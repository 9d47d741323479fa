// Package recur expands recurrence rules into discrete alert instances.
// The alert engine only ever sees one instance at a time; when an instance
// finishes, the daemon asks this package for the next occurrence and
// schedules it under the same token.
package recur
