package domain

// Catalog maps a reference type to the ordered task types that a reference
// of that type requires. A Catalog is immutable once built.
type Catalog struct {
	tasks map[ReferenceType][]TaskType
}

// NewCatalog builds a Catalog from the given table. The table is copied, so
// later changes by the caller do not leak into the catalog.
func NewCatalog(table map[ReferenceType][]TaskType) *Catalog {
	tasks := make(map[ReferenceType][]TaskType, len(table))
	for refType, types := range table {
		tasks[refType] = append([]TaskType(nil), types...)
	}
	return &Catalog{tasks: tasks}
}

// DefaultCatalog returns the production catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog(map[ReferenceType][]TaskType{
		ReferenceTypeOrder: {
			TaskTypeCreateInvoice,
			TaskTypeArrangePickup,
			TaskTypeCollectPayment,
		},
		ReferenceTypeEntity: {
			TaskTypeAssignCustomerToSalesPerson,
		},
		ReferenceTypeShipment: {
			TaskTypePickup,
			TaskTypeDelivery,
		},
	})
}

// TasksFor returns the task types applicable to refType, in catalog order.
// An unknown reference type yields an empty result rather than an error.
func (c *Catalog) TasksFor(refType ReferenceType) []TaskType {
	if c == nil {
		return nil
	}
	return append([]TaskType(nil), c.tasks[refType]...)
}
