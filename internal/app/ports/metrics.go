package ports

// BridgeMetrics counts what moved through the session.
type BridgeMetrics interface {
	RecordSnapshot()
	RecordDecodeFailure()
	RecordAdmitted(actionType string)
	RecordRejected(reason string)
	RecordDispatched()
	RecordCleared(count int)
}
