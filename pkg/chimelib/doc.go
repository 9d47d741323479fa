// Package chimelib implements the chime alert engine: a persistent,
// single-active-alert scheduler for user-defined time-based alerts
// (alarms, timers, reminders), its SQLite-backed storage, and the
// entities and plumbing the scheduler coordinates.
package chimelib
