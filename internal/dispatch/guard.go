package dispatch

import (
	"github.com/bobmcallan/fivetran-mcp/internal/catalog"
	"github.com/bobmcallan/fivetran-mcp/internal/config"
)

const writeHint = "enable write operations to use this tool (set FIVETRAN_ALLOW_WRITES=true or allow_writes in the [fivetran] config section)"

// CheckWrite rejects write operations unless the policy allows writes.
// It performs no I/O.
func CheckWrite(op *catalog.Operation, policy *config.Policy) error {
	if !op.IsWrite() || policy.AllowWrites() {
		return nil
	}
	return newError(KindWriteNotPermitted, op.Name,
		"%s is a write operation (%s) and writes are disabled", op.Name, op.Method).
		withHint(writeHint)
}
