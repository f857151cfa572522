// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The extraction service owns the extraction cache and the summariser owns
// the chunk lifecycle.
package services
