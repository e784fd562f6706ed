package metrics

// NoopRecorder discards all metrics.
type NoopRecorder struct{}

// NewNoop returns a Recorder that does nothing.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncInvoiceCreated()               {}
func (n *NoopRecorder) IncInvoiceFailed(_ FailureKind)   {}
func (n *NoopRecorder) IncPublicViewCacheHit()           {}
func (n *NoopRecorder) IncPublicViewCacheMiss()          {}
