// Package events publishes task lifecycle events to in-process handlers.
//
// The task service emits one TaskEvent for every task it persists. Handlers
// (metrics, logging) register with an EventEmitter and never see the store,
// so observers stay decoupled from the write path.
package events
