package ports

import (
	"context"

	"github.com/medicalunion/medical-union-api/internal/core/domain"
)

// ProcedureGateway invokes a named transactional database procedure.
//
// Call never returns an error: every invocation yields exactly one
// ProcedureOutcome. Input parameters are bound positionally; outNames lists
// the procedure's out-parameters in declaration order, and the returned
// outcome exposes them by name. The errcode/errmsg pair every procedure
// declares is consumed into Outcome.Code/Outcome.Message and is not repeated
// in Out. When the underlying call cannot complete (connection loss, pool
// acquire timeout, driver fault), the gateway synthesizes an outcome with
// domain.CodeInfrastructure rather than propagating the raw failure.
type ProcedureGateway interface {
	Call(ctx context.Context, procedure string, in []any, outNames []string) domain.ProcedureOutcome
}
