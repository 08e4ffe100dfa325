package client

// GuardDecision is the outcome of evaluating a navigation target.
type GuardDecision string

const (
	// GuardAllow lets the route render
	GuardAllow GuardDecision = "allow"
	// GuardShowLoading means hydration has not resolved yet
	GuardShowLoading GuardDecision = "loading"
	// GuardRedirectToLogin sends the user to the login screen
	GuardRedirectToLogin GuardDecision = "redirect_login"
	// GuardRedirectToUnauthorized sends the user to the unauthorized screen
	GuardRedirectToUnauthorized GuardDecision = "redirect_unauthorized"
)

// RouteRequirement describes a navigation target. An empty Roles list means
// any authenticated user may enter.
type RouteRequirement struct {
	Path  string
	Roles []UserRole
}

// GuardResult carries the decision plus the originally intended path so the
// caller can return to it after a successful login.
type GuardResult struct {
	Decision GuardDecision
	ReturnTo string
}

// EvaluateRoute decides whether a navigation target may render given the
// current session. Pure function, no side effects: re-evaluate on every
// navigation and on every session change.
func EvaluateRoute(s SessionSnapshot, route RouteRequirement) GuardResult {
	if !s.Hydrated {
		return GuardResult{Decision: GuardShowLoading}
	}

	if !s.Authenticated() {
		return GuardResult{
			Decision: GuardRedirectToLogin,
			ReturnTo: route.Path,
		}
	}

	if len(route.Roles) > 0 && !RoleIn(s.User.Role, route.Roles) {
		return GuardResult{Decision: GuardRedirectToUnauthorized}
	}

	return GuardResult{Decision: GuardAllow}
}
