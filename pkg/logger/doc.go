// Package logger builds the *slog.Logger used across pharmakit.
//
// New applies functional options on top of production-safe defaults (JSON,
// INFO, stdout) and wraps the chosen handler so that attributes stored in a
// context.Context, such as the outgoing request id or the current role, are
// added to every record logged with a *Context method.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "pharmakit"),
//	    logger.WithLevelName(cfg.LogLevel),
//	    logger.WithContextExtractors(logger.RequestIDExtractor(), logger.RoleExtractor()),
//	)
//	log.InfoContext(ctx, "order placed", logger.Component("orders"))
//
// Attribute helpers in attr.go keep key names consistent between packages.
//
// # Configuration
//
// WithEnvironment picks defaults per deployment: production and staging log
// JSON at INFO, anything else is treated as development and logs text at
// DEBUG. It also tags every record with the service and env names. Options
// apply in order, so a WithLevelName after it overrides the level. An
// unknown level name is ignored; an unknown format panics, since a
// misconfigured logger should stop startup.
//
// The interactive shell writes logs to stderr at WARN by default (APP_ENV,
// LOG_LEVEL), keeping stdout free for command output.
//
// # Testing Helpers
//
// Discard returns a logger that drops everything. Services default to
// slog.Default when no logger is passed.
package logger
