// Package domain contains the core business entities, value objects, and
// domain logic of the application: tasks tied to external business
// references, their lifecycle transitions, and the catalog describing which
// task types a reference type requires. It is independent of any specific
// infrastructure or delivery mechanism.
package domain
