package workitems

// Outcome classifies a remote call.
type Outcome int

const (
	// OutcomeOK means the call succeeded and Value is set
	OutcomeOK Outcome = iota
	// OutcomeNotFound means the remote answered 404
	OutcomeNotFound
	// OutcomeFailed means any other failure; Err holds the cause
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// Result keeps the cause of a failure that the tool surface later collapses
// into an empty list or a false.
type Result[T any] struct {
	Value   T
	Outcome Outcome
	Err     error
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Outcome == OutcomeOK
}

// ValueOr returns Value on success and def otherwise.
func (r Result[T]) ValueOr(def T) T {
	if r.OK() {
		return r.Value
	}
	return def
}

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Outcome: OutcomeOK}
}

func notFound[T any](err error) Result[T] {
	return Result[T]{Outcome: OutcomeNotFound, Err: err}
}

func failed[T any](err error) Result[T] {
	return Result[T]{Outcome: OutcomeFailed, Err: err}
}
