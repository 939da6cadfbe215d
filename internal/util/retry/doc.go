// Package retry provides jittered exponential backoff retry logic for
// transient remote failures.
//
// The [Do] function retries an operation with configurable max attempts and
// base delay. Errors wrapped with [Fatal], or rejected by the configured
// classifier, are surfaced immediately without further attempts. It is used
// for hosting-API and key-issuer calls that may fail transiently.
package retry
