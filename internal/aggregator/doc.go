// Package aggregator fans tool listings out across every registered
// backend and routes calls back by the service prefix in a tool's
// exposed name. With exactly one backend registered, tool names pass
// through unprefixed; with more than one, names are exposed as
// "service_toolName" and parsed back via longest-matching-prefix so that
// a backend named "a_b" takes precedence over a backend named "a" when
// both are registered.
package aggregator
