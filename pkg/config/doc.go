// Package config parses environment variables into tagged structs.
//
// It wraps `github.com/caarlos0/env/v11` for parsing and
// `github.com/joho/godotenv` for `.env` files, and reports failures through
// package sentinels so callers can tell a bad value from a missing file.
//
// # Architecture
//
// There is no central configuration type. Each pharmakit package owns its
// Config struct with `env` and `envDefault` tags next to the code that reads
// it (apiclient.Config, tokenstore.Config, session.Config, catalog.Config,
// telemetry.Config), and the command loads them one by one.
//
// A `.env` file in the working directory is applied once per process before
// the first parse. Its absence is not an error. Variables already present in
// the process environment always win over file values.
//
// # Usage
//
//	var cfg apiclient.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// Extra files can be given with WithEnvFiles; unlike the default file they
// must exist. WithPrefix namespaces every key of a struct, which lets one
// struct type describe several environments:
//
//	var staging apiclient.Config
//	err := config.Load(&staging, config.WithPrefix("STAGING_"))
//	// reads STAGING_PHARMACY_API_URL and so on
//
// MustLoad panics instead of returning an error, for configuration the
// process cannot start without.
//
// # Error Handling
//
//	ErrNilPointer      Load was given a nil pointer
//	ErrLoadingEnvFile  a file passed to WithEnvFiles could not be read
//	ErrParsingConfig   a value did not parse or a required key is missing
//
// Each is joined with the underlying library error, so the offending key
// stays visible in the message.
//
// # Testing Helpers
//
// Load does not cache results. Tests set variables with t.Setenv and call
// Load again; nothing has to be reset between cases.
package config
