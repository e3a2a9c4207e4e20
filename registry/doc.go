/*
Package registry provides the state machine of the certification authority
registry in plain Go.

Registry is an explicit value holding the owner and the set of authority
records. Every mutating operation receives a Call which carries the caller
identity and the logical clock (block height) supplied by the hosting
environment. Operations check the owner first, then the authority presence,
and then apply exactly one state change. A failed operation leaves the
registry untouched and returns *Error with one of the Code values.

The same rules are implemented on chain by the Authority contract; Registry
is used to rebuild the registry state from contract storage dumps and as the
reference model in contract tests.

Registry is not safe for concurrent use: the hosting environment serializes
operations.
*/
package registry
