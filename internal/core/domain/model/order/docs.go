// Package order holds the Order aggregate and its lifecycle rules.
//
// An order is created pending and available. A delivery partner claims it (Accept),
// after which it moves through picked_up and in_transit to delivered, or is cancelled.
// Delivered and cancelled are terminal.
//
// Status values are persisted in canonical snake_case. ParseStatus also reads the
// title-cased and spaced spellings found in older rows so they can be normalized.
package order
