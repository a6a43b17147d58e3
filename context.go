package peg

import "github.com/npillmayer/peg/pctx"

// Context is an alias for pctx.Context, re-exported here so that grammar
// construction code (Procedure/Condition callbacks) never has to import
// peg/pctx directly, the same way gorgo re-exports tracing.Trace via its
// own tracer() helpers in each package.
type Context = pctx.Context
