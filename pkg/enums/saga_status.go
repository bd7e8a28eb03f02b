package enums

// SagaRunStatus is the terminal disposition of a checkout or cancellation run.
type SagaRunStatus string

const (
	SagaRunStatusRunning   SagaRunStatus = "running"
	SagaRunStatusSucceeded SagaRunStatus = "succeeded"
	SagaRunStatusDegraded  SagaRunStatus = "degraded"
	SagaRunStatusAborted   SagaRunStatus = "aborted"
)

// String implements fmt.Stringer.
func (s SagaRunStatus) String() string {
	return string(s)
}

// SagaStepStatus is the outcome of a single step inside a run.
type SagaStepStatus string

const (
	SagaStepStatusOK      SagaStepStatus = "ok"
	SagaStepStatusFailed  SagaStepStatus = "failed"
	SagaStepStatusSkipped SagaStepStatus = "skipped"
)

// String implements fmt.Stringer.
func (s SagaStepStatus) String() string {
	return string(s)
}

// SagaKind distinguishes the two multi-step flows that get step-logged.
type SagaKind string

const (
	SagaKindCheckout     SagaKind = "checkout"
	SagaKindCancellation SagaKind = "cancellation"
)

// String implements fmt.Stringer.
func (s SagaKind) String() string {
	return string(s)
}
