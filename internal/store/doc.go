// Package store defines interfaces for task persistence.
// These interfaces abstract the underlying storage mechanism from the
// application's core logic, allowing business rules to remain independent
// of specific database technologies or persistence details.
package store
