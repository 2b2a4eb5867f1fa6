package domain

// ProcedureOutcome is the normalised result of a stored-procedure call:
// the errcode/errmsg pair every procedure reports plus any remaining named
// out-parameters. The gateway guarantees Code is always meaningful — when
// the underlying call cannot complete it synthesizes CodeInfrastructure
// instead of surfacing a driver error.
type ProcedureOutcome struct {
	Code    int
	Message string
	Out     map[string]any
}

// OK reports whether the procedure committed successfully.
func (o ProcedureOutcome) OK() bool {
	return o.Code == CodeOK
}

// Err converts a non-success outcome into a kind-carrying error, classifying
// the procedure's code. Returns nil for a success outcome.
func (o ProcedureOutcome) Err() error {
	if o.OK() {
		return nil
	}
	return NewError(Classify(o.Code), o.Message)
}

// String returns the string out-parameter named key, or "" when absent or of
// another type.
func (o ProcedureOutcome) String(key string) string {
	s, _ := o.Out[key].(string)
	return s
}

// Int64 returns the integer out-parameter named key. Procedures surface ids
// as int32 or int64 depending on the column type, so both are accepted.
func (o ProcedureOutcome) Int64(key string) (int64, bool) {
	switch v := o.Out[key].(type) {
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	}
	return 0, false
}
