// Package authz resolves request identities into Principal values and
// carries them on the context under a single-principal model.
//
// Core concepts:
//
//   - Principal: the one authorization identity per request, resolved at the
//     request boundary from the authenticated user (or the anonymous
//     default). Role membership and granted scopes are flattened onto it so
//     downstream policy decisions never touch storage.
//
//   - Set-once semantics: WithPrincipal refuses to replace an existing,
//     different principal, preventing principal mixing across middleware.
//
// The decision rules themselves live in the policy package; authz only
// answers "who is acting".
package authz
