// Package service holds the task management use cases.
//
// TaskService is the single entry point for the API layer. It owns the
// assignment reconciler, which brings the tasks of one business reference
// in line with the task type catalog for a new assignee, and the date
// window filter used by the fetch-by-date query. Persistence goes through
// store.TaskStore and every persisted transition is published as an
// events.TaskEvent once the write has succeeded.
package service
