// Package elevate lets a database session temporarily assume the
// identity and privileges of another role, with forced audit logging
// and the ability to block specific dangerous statements while the
// elevated identity is active.
//
// # Overview
//
// A Service owns the single elevation slot of one session. Elevate
// switches the session to the target role, snapshots the session's
// log_statement value and forces it to "all" so that everything done
// under the elevated identity is logged; Revert restores the exact
// prior value and the original identity. Every transition emits one
// audit line:
//
//	Superuser Role postgres transitioning to Role alice
//
// A Gate installs into the session's utility-statement dispatch chain
// and, while an elevation is active, rejects ALTER SYSTEM and
// COPY ... PROGRAM statements according to two policy switches that
// only a privileged configuration reload can change:
//
//	elevate.block_alter_system
//	elevate.block_copy_program
//
// # Usage
//
//	registry := identity.NewInMemoryRegistry()
//	app := registry.AddIdentity("app", false)
//	registry.AddIdentity("alice", true)
//
//	store := params.NewInMemoryStore()
//	store.DefineString(elevate.LogStatementParameter, "Sets the type of statements logged", "none", params.PrivilegeSuperuser)
//	elevate.DefinePolicyParameters(store)
//
//	sess := session.New(app)
//	service := elevate.NewService(registry, store, sess)
//
//	chain := dispatch.NewChain(baseDispatcher)
//	chain.Install(elevate.NewGate(service, store))
//
//	service.Elevate(ctx, "alice")
//	chain.Dispatch(ctx, dispatch.Classify("CREATE TABLE t (id int)"))
//	service.Revert(ctx)
//
// # Error Handling
//
// Misuse of the slot (ErrAlreadyElevated, ErrNotElevated), unknown
// target roles (ErrUnknownIdentity) and malformed legacy calls
// (ErrInvalidInvocation) are hard errors that leave the session
// untouched. PolicyBlockedError carries insufficient-privilege
// semantics and never reaches the base dispatcher.
//
// A Service serves exactly one session and is not safe for concurrent
// use; sessions execute one statement at a time.
package elevate
