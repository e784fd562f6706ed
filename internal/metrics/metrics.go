// Package metrics provides lightweight hooks for instrumentation.
package metrics

// FailureKind labels why an invoice call failed.
type FailureKind string

const (
	FailureValidation      FailureKind = "validation"
	FailureAuthentication  FailureKind = "authentication"
	FailureQuota           FailureKind = "quota"
	FailureDuplicateNumber FailureKind = "duplicate_number"
	FailureStore           FailureKind = "store"
)

// Recorder receives counters from the invoice pipeline and the public
// viewer. Implementations must be safe for concurrent use.
type Recorder interface {
	IncInvoiceCreated()
	IncInvoiceFailed(kind FailureKind)
	IncPublicViewCacheHit()
	IncPublicViewCacheMiss()
}
