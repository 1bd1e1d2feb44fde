package domain

import "strings"

// ReferenceType identifies the kind of external business object a task serves.
type ReferenceType string

// Known reference types.
const (
	ReferenceTypeOrder    ReferenceType = "ORDER"
	ReferenceTypeEntity   ReferenceType = "ENTITY"
	ReferenceTypeShipment ReferenceType = "SHIPMENT"
)

// TaskType is the kind of work a task represents.
type TaskType string

// Known task types.
const (
	TaskTypeCreateInvoice               TaskType = "CREATE_INVOICE"
	TaskTypeArrangePickup               TaskType = "ARRANGE_PICKUP"
	TaskTypeCollectPayment              TaskType = "COLLECT_PAYMENT"
	TaskTypeAssignCustomerToSalesPerson TaskType = "ASSIGN_CUSTOMER_TO_SALES_PERSON"
	TaskTypePickup                      TaskType = "PICKUP"
	TaskTypeDelivery                    TaskType = "DELIVERY"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

// Task statuses. COMPLETED and CANCELLED are terminal.
const (
	TaskStatusAssigned  TaskStatus = "ASSIGNED"
	TaskStatusStarted   TaskStatus = "STARTED"
	TaskStatusCompleted TaskStatus = "COMPLETED"
	TaskStatusCancelled TaskStatus = "CANCELLED"
)

// Priority ranks how urgent a task is.
type Priority string

// Task priorities.
const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

var (
	referenceTypes = []ReferenceType{ReferenceTypeOrder, ReferenceTypeEntity, ReferenceTypeShipment}
	taskTypes      = []TaskType{
		TaskTypeCreateInvoice,
		TaskTypeArrangePickup,
		TaskTypeCollectPayment,
		TaskTypeAssignCustomerToSalesPerson,
		TaskTypePickup,
		TaskTypeDelivery,
	}
	taskStatuses = []TaskStatus{TaskStatusAssigned, TaskStatusStarted, TaskStatusCompleted, TaskStatusCancelled}
	priorities   = []Priority{PriorityLow, PriorityMedium, PriorityHigh}
)

// IsValid reports whether r is a known reference type.
func (r ReferenceType) IsValid() bool {
	return contains(referenceTypes, r)
}

// IsValid reports whether t is a known task type.
func (t TaskType) IsValid() bool {
	return contains(taskTypes, t)
}

// IsValid reports whether s is a known task status.
func (s TaskStatus) IsValid() bool {
	return contains(taskStatuses, s)
}

// IsTerminal reports whether no further work happens on a task in status s.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	return contains(priorities, p)
}

// ParseReferenceType converts a case-insensitive name into a ReferenceType.
func ParseReferenceType(s string) (ReferenceType, error) {
	r := ReferenceType(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", ErrInvalidReferenceType
	}
	return r, nil
}

// ParseTaskType converts a case-insensitive name into a TaskType.
func ParseTaskType(s string) (TaskType, error) {
	t := TaskType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrInvalidTaskType
	}
	return t, nil
}

// ParseTaskStatus converts a case-insensitive name into a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	st := TaskStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", ErrInvalidTaskStatus
	}
	return st, nil
}

// ParsePriority converts a case-insensitive name into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
