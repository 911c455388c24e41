package audithook

import "log/slog"

// Option configures an Extension.
type Option func(*Extension)

// WithLogger sets the logger used to report recorder failures.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extension) {
		e.logger = logger
	}
}

// WithActions restricts auditing to the listed actions.
func WithActions(actions ...string) Option {
	return func(e *Extension) {
		e.only = toSet(actions)
	}
}

// WithoutActions skips the listed actions. It combines with WithActions.
func WithoutActions(actions ...string) Option {
	return func(e *Extension) {
		if e.skip == nil {
			e.skip = make(map[string]struct{}, len(actions))
		}
		for _, a := range actions {
			e.skip[a] = struct{}{}
		}
	}
}

// WithMinSeverity drops events below severity. Unknown severities rank
// as info.
func WithMinSeverity(severity string) Option {
	return func(e *Extension) {
		e.minRank = severityRank(severity)
	}
}

// WithMetadata attaches key=value to every recorded event, for example the
// network a deployment serves.
func WithMetadata(key string, value any) Option {
	return func(e *Extension) {
		if e.static == nil {
			e.static = make(map[string]any)
		}
		e.static[key] = value
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func severityRank(severity string) int {
	switch severity {
	case SeverityCritical:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}
