// Package provisioning contains the bulk-provisioning orchestrator: it turns
// a validated configuration into a sequence of phases that issue auth keys,
// create repositories one at a time, upload template content, inject
// encrypted secrets, and optionally trigger CI workflows.
//
// A single goroutine executes the whole run; callers observe it only through
// the Observer event stream and cancel it cooperatively via Cancel or
// context cancellation, checked once per repository.
package provisioning
