package model

// Scope carries the identity of the caller through usecase boundaries.
// For engine invocations this is the event producer (or the rule author
// for test runs), not the actor inside the trigger context.
type Scope struct {
	UserID string
}

// Environment names the deployment environment.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentStaging     Environment = "staging"
	EnvironmentProduction  Environment = "production"
)
