package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/medicalunion/medical-union-api/internal/api/metrics"
	"github.com/medicalunion/medical-union-api/internal/core/domain"
	"github.com/medicalunion/medical-union-api/internal/core/ports"
)

const defaultCallTimeout = 10 * time.Second

// Procedure names are interpolated into the CALL statement (identifiers
// cannot be bound), so only plain identifiers are accepted.
var procedureName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Gateway invokes stored procedures over a bounded pgx pool.
//
// Every procedure follows the same convention: its input parameters come
// first, then its out-parameters, then the two trailing INOUT parameters
// errcode and errmsg. One call is one transaction: the procedure's effects
// and its result code commit together or not at all. Call never fails with a
// Go error: any fault (pool exhaustion, connection loss, cancellation,
// driver error, a NULL errcode) becomes an outcome carrying
// domain.CodeInfrastructure.
type Gateway struct {
	pool        *pgxpool.Pool
	log         zerolog.Logger
	callTimeout time.Duration
}

var _ ports.ProcedureGateway = (*Gateway)(nil)

// NewGateway wraps the pool. callTimeout bounds a single procedure call,
// including the wait for a pooled connection; non-positive means the default.
func NewGateway(pool *pgxpool.Pool, callTimeout time.Duration, log zerolog.Logger) *Gateway {
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	return &Gateway{pool: pool, log: log, callTimeout: callTimeout}
}

// Call runs CALL <procedure>(...) inside a single transaction and normalises
// the result. No retry is attempted: the procedures are not idempotent.
func (g *Gateway) Call(ctx context.Context, procedure string, in []any, outNames []string) domain.ProcedureOutcome {
	start := time.Now()
	outcome := g.call(ctx, procedure, in, outNames)
	metrics.ProcedureCallDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())

	if outcome.Code == domain.CodeInfrastructure {
		metrics.ProcedureCallErrors.WithLabelValues(procedure).Inc()
	}
	return outcome
}

func (g *Gateway) call(ctx context.Context, procedure string, in []any, outNames []string) domain.ProcedureOutcome {
	if !procedureName.MatchString(procedure) {
		return g.infraOutcome(procedure, fmt.Errorf("invalid procedure name %q", procedure))
	}

	ctx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return g.infraOutcome(procedure, fmt.Errorf("begin: %w", err))
	}
	// Rollback is a no-op after a successful commit.
	defer tx.Rollback(context.WithoutCancel(ctx))

	// The out-parameters (including errcode/errmsg) are INOUT and are bound
	// as NULL inputs; the CALL returns their final values as one row.
	args := make([]any, 0, len(in)+len(outNames)+2)
	args = append(args, in...)
	for i := 0; i < len(outNames)+2; i++ {
		args = append(args, nil)
	}

	dest := make([]any, len(outNames)+2)
	vals := make([]any, len(outNames)+2)
	for i := range dest {
		dest[i] = &vals[i]
	}

	row := tx.QueryRow(ctx, callStatement(procedure, len(args)), args...)
	if err := row.Scan(dest...); err != nil {
		return g.infraOutcome(procedure, fmt.Errorf("call %s: %w", procedure, err))
	}

	if err := tx.Commit(ctx); err != nil {
		return g.infraOutcome(procedure, fmt.Errorf("commit %s: %w", procedure, err))
	}

	out := make(map[string]any, len(outNames))
	for i, name := range outNames {
		out[name] = vals[i]
	}

	code, ok := asInt(vals[len(outNames)])
	if !ok {
		// Committed but no result code: protocol violation, fail closed.
		g.log.Error().Str("procedure", procedure).Msg("procedure returned no result code")
		return domain.ProcedureOutcome{
			Code:    domain.CodeInfrastructure,
			Message: "procedure returned no result code",
			Out:     out,
		}
	}
	message, _ := vals[len(outNames)+1].(string)

	return domain.ProcedureOutcome{Code: code, Message: message, Out: out}
}

func (g *Gateway) infraOutcome(procedure string, err error) domain.ProcedureOutcome {
	g.log.Error().Err(err).Str("procedure", procedure).Msg("procedure call failed")
	return domain.ProcedureOutcome{
		Code:    domain.CodeInfrastructure,
		Message: "database error",
		Out:     map[string]any{},
	}
}

func callStatement(procedure string, argc int) string {
	ph := make([]string, argc)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("CALL %s(%s)", procedure, strings.Join(ph, ", "))
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}
