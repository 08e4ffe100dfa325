// Package client is the session/authentication core of the AfricaHR
// leave-management client. It wraps the backend's /api/auth endpoints,
// keeps the one process-wide session consistent with durable token
// storage, and drives the login → (optional 2FA) → authenticated flow.
//
// Session lifecycle:
//   - SessionStore holds the current identity and token. Hydrate restores
//     it from storage on startup (verifying the stored token against the
//     backend), Commit and Clear are the only storage writers.
//   - AuthFlow centralizes the transition graph and the intents a UI binds
//     to: SubmitLogin, SubmitTwoFactorCode, SubmitRegistration, Logout,
//     ToggleTwoFactor. Only one intent runs at a time.
//
// Route guarding:
//   - EvaluateRoute is a pure function of the session snapshot and a
//     route's required roles. It returns allow, a redirect (carrying the
//     intended path), or a loading signal while hydration is pending.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by AuthFlow to
//     describe login, 2FA, registration, and logout events. Sinks run
//     best-effort (errors are logged) so embedders can forward events
//     without blocking authentication.
package client
