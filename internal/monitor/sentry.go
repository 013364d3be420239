package monitor

import (
	"github.com/getsentry/sentry-go"
)

// ConfigureSentry initializes error reporting. With an empty DSN it is a no-op,
// which is the normal mode for development and tests.
func ConfigureSentry(dsn, release, env string) {
	if dsn == "" {
		logger.Log().Info("sentry disabled (no DSN configured)")
		return
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Release:          release,
		Environment:      env,
		AttachStacktrace: true,
	}); err != nil {
		logger.Log().Warnf("sentry initialization failed: %v", err)
		return
	}
	logger.Log().Info("sentry initialized")
}

// ErrorToSentry sends to Sentry general exception info with some optional extra detail
// (like account email, profile id etc)
func ErrorToSentry(err error, params ...map[string]string) {
	var extra map[string]string
	if len(params) > 0 {
		extra = params[0]
	} else {
		extra = map[string]string{}
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range extra {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}
