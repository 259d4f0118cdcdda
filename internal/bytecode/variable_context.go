package bytecode

// VariableContext is the narrow collaborator interface
// AddVariableReferenceInstruction consults to decide which storage class a
// variable reference compiles to. A front end (out of scope for this
// module) supplies the concrete implementation; here it is only ever
// consumed through this interface.
type VariableContext interface {
	// HasLocalContext reports whether this context declares a local scope
	// at all (e.g. inside a subroutine body, as opposed to top level).
	HasLocalContext() bool
	// LookupLocal reports the local-name-pool address of name if it is a
	// known local or parameter in this context.
	LookupLocal(name string) (addr uint16, ok bool)
	// AllowsGlobals reports whether this context may fall back to the
	// externally-managed shared-variable pool.
	AllowsGlobals() bool
	// LookupShared reports the shared-pool address of name if known.
	LookupShared(name string) (addr uint16, ok bool)
}
