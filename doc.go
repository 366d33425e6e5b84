// Package helix is the base pkg required for the Helix controller.
// In this package, we provide several abstraction:
//
// HelixManager
// HelixDataAccessor
//
// Besides, The following structs are defined in helix pkg:
//
// Context
// ChangeNotification
package helix
