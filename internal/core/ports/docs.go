// Package ports declares the contracts between the application core and its adapters:
// repositories and the unit of work, the geocoding provider, change broadcasting and
// integration events, and session security.
package ports
