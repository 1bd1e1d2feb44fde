// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting for the task management endpoints. It translates
// HTTP concerns into calls on service.TaskService.
package api
