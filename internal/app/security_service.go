package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"propertyhub/internal/config"
)

var ErrUnknownCheck = errors.New("unknown security check")

// CheckDetails carries the scoring breakdown of one posture check.
type CheckDetails struct {
	Score           int      `json:"score"`
	Issues          []string `json:"issues,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// CheckResult is the payload of one check endpoint. Status is "ok" or
// "error"; a check that fails to run still produces a result so the scan
// always completes with partial data.
type CheckResult struct {
	Name        string        `json:"name"`
	Implemented bool          `json:"implemented"`
	Status      string        `json:"status"`
	Details     *CheckDetails `json:"details,omitempty"`
}

// ScanReport aggregates every check into the dashboard's scan payload.
type ScanReport struct {
	GeneratedAt  time.Time     `json:"generated_at"`
	OverallScore int           `json:"overall_score"`
	Implemented  int           `json:"implemented"`
	Missing      int           `json:"missing"`
	Errored      int           `json:"errored"`
	Checks       []CheckResult `json:"checks"`
}

// ReportCache stores the latest scan report between dashboard loads.
type ReportCache interface {
	Get(ctx context.Context, dest interface{}) (bool, error)
	Set(ctx context.Context, report interface{}) error
	Invalidate(ctx context.Context) error
}

type securityCheck struct {
	name string
	run  func(ctx context.Context) (CheckResult, error)
}

// SecurityService evaluates the platform's own security posture. Each check
// inspects live configuration; the scan is a plain sequential
// caller/aggregator with no retry or backoff, and a failed check is recorded
// as an error entry rather than aborting the scan.
type SecurityService struct {
	cfg    *config.Config
	cache  ReportCache
	checks []securityCheck
	log    zerolog.Logger
}

func NewSecurityService(cfg *config.Config, reportCache ReportCache, log zerolog.Logger) *SecurityService {
	s := &SecurityService{
		cfg:   cfg,
		cache: reportCache,
		log:   log.With().Str("service", "security").Logger(),
	}
	s.checks = s.buildChecks()
	return s
}

// CheckNames returns the registered check names in scan order.
func (s *SecurityService) CheckNames() []string {
	names := make([]string, len(s.checks))
	for i, c := range s.checks {
		names[i] = c.name
	}
	return names
}

// RunCheck executes a single check by name.
func (s *SecurityService) RunCheck(ctx context.Context, name string) (CheckResult, error) {
	for _, c := range s.checks {
		if c.name == name {
			result, err := c.run(ctx)
			if err != nil {
				return errorResult(name, err), nil
			}
			return result, nil
		}
	}
	return CheckResult{}, ErrUnknownCheck
}

// RunScan executes every check sequentially and aggregates the results.
// Unless force is set, a cached report within its TTL is returned as-is.
func (s *SecurityService) RunScan(ctx context.Context, force bool) (*ScanReport, error) {
	if s.cache != nil {
		if force {
			// Drop the stale report up front so an aborted run cannot keep
			// serving it.
			if err := s.cache.Invalidate(ctx); err != nil {
				s.log.Warn().Err(err).Msg("invalidate scan report failed")
			}
		} else {
			var cached ScanReport
			if hit, err := s.cache.Get(ctx, &cached); err == nil && hit {
				return &cached, nil
			}
		}
	}

	report := &ScanReport{
		GeneratedAt: time.Now().UTC(),
		Checks:      make([]CheckResult, 0, len(s.checks)),
	}
	scoreTotal := 0
	for _, c := range s.checks {
		result, err := c.run(ctx)
		if err != nil {
			s.log.Warn().Err(err).Str("check", c.name).Msg("security check failed")
			result = errorResult(c.name, err)
		}
		switch {
		case result.Status == "error":
			report.Errored++
		case result.Implemented:
			report.Implemented++
		default:
			report.Missing++
		}
		if result.Details != nil {
			scoreTotal += result.Details.Score
		}
		report.Checks = append(report.Checks, result)
	}
	if len(report.Checks) > 0 {
		report.OverallScore = scoreTotal / len(report.Checks)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, report); err != nil {
			s.log.Warn().Err(err).Msg("cache scan report failed")
		}
	}
	return report, nil
}

func errorResult(name string, err error) CheckResult {
	return CheckResult{
		Name:   name,
		Status: "error",
		Details: &CheckDetails{
			Issues: []string{err.Error()},
		},
	}
}

func okResult(name string, implemented bool, details CheckDetails) CheckResult {
	return CheckResult{
		Name:        name,
		Implemented: implemented,
		Status:      "ok",
		Details:     &details,
	}
}

func (s *SecurityService) buildChecks() []securityCheck {
	cfg := s.cfg
	static := func(name string, implemented bool, details CheckDetails) securityCheck {
		return securityCheck{
			name: name,
			run: func(context.Context) (CheckResult, error) {
				return okResult(name, implemented, details), nil
			},
		}
	}

	checks := []securityCheck{
		{
			name: "https-enforcement",
			run: func(context.Context) (CheckResult, error) {
				if cfg.TLSEnabled() {
					return okResult("https-enforcement", true, CheckDetails{Score: 100}), nil
				}
				return okResult("https-enforcement", false, CheckDetails{
					Score:           20,
					Issues:          []string{"server does not terminate TLS itself"},
					Recommendations: []string{"configure app.tls_cert and app.tls_key, or terminate TLS at the ingress"},
				}), nil
			},
		},
		{
			name: "jwt-secret-strength",
			run: func(context.Context) (CheckResult, error) {
				secret := cfg.Auth.JWTSecret
				details := CheckDetails{Score: 100}
				implemented := true
				if secret == "change-me-in-production" {
					implemented = false
					details = CheckDetails{
						Score:           0,
						Issues:          []string{"JWT secret is still the shipped default"},
						Recommendations: []string{"set JWT_SECRET to a random value of at least 32 bytes"},
					}
				} else if len(secret) < 32 {
					details = CheckDetails{
						Score:           50,
						Issues:          []string{fmt.Sprintf("JWT secret is only %d bytes", len(secret))},
						Recommendations: []string{"use a secret of at least 32 bytes"},
					}
				}
				return okResult("jwt-secret-strength", implemented, details), nil
			},
		},
		{
			name: "rate-limiting",
			run: func(context.Context) (CheckResult, error) {
				if cfg.Security.RateLimitEnabled {
					return okResult("rate-limiting", true, CheckDetails{Score: 100}), nil
				}
				return okResult("rate-limiting", false, CheckDetails{
					Score:           30,
					Issues:          []string{"no request rate limiting configured"},
					Recommendations: []string{"enable security.rate_limit_enabled behind a reverse proxy limiter"},
				}), nil
			},
		},
		{
			name: "audit-logging",
			run: func(context.Context) (CheckResult, error) {
				if cfg.Security.AuditLogEnabled {
					return okResult("audit-logging", true, CheckDetails{Score: 100}), nil
				}
				return okResult("audit-logging", false, CheckDetails{
					Score:           40,
					Issues:          []string{"audit logging disabled"},
					Recommendations: []string{"enable security.audit_log_enabled"},
				}), nil
			},
		},
		{
			name: "database-tls",
			run: func(context.Context) (CheckResult, error) {
				if cfg.Postgres.SSLMode != "" && cfg.Postgres.SSLMode != "disable" {
					return okResult("database-tls", true, CheckDetails{Score: 100}), nil
				}
				return okResult("database-tls", false, CheckDetails{
					Score:           40,
					Issues:          []string{"postgres connection does not require TLS"},
					Recommendations: []string{"set postgres.ssl_mode to require or verify-full"},
				}), nil
			},
		},
		{
			name: "redis-auth",
			run: func(context.Context) (CheckResult, error) {
				if cfg.Redis.Password != "" {
					return okResult("redis-auth", true, CheckDetails{Score: 100}), nil
				}
				return okResult("redis-auth", false, CheckDetails{
					Score:           50,
					Issues:          []string{"redis runs without authentication"},
					Recommendations: []string{"set a redis password and rotate it regularly"},
				}), nil
			},
		},
	}

	// The remaining checks report on properties that are fixed by how the
	// platform is built rather than by deploy-time configuration.
	checks = append(checks,
		static("password-hashing", true, CheckDetails{
			Score: 100,
		}),
		static("sql-injection", true, CheckDetails{
			Score: 100,
		}),
		static("authentication", true, CheckDetails{
			Score: 100,
		}),
		static("authorization", true, CheckDetails{
			Score: 90,
			Recommendations: []string{
				"resource-level ownership checks exist; consider role-based access for admin surfaces",
			},
		}),
		static("input-validation", true, CheckDetails{
			Score: 90,
		}),
		static("file-upload-limits", true, CheckDetails{
			Score: 100,
		}),
		static("error-handling", true, CheckDetails{
			Score: 90,
		}),
		static("session-management", true, CheckDetails{
			Score: 80,
			Recommendations: []string{
				"JWTs are stateless; consider a revocation list for compromised tokens",
			},
		}),
		static("security-headers", false, CheckDetails{
			Score:           30,
			Issues:          []string{"no CSP or HSTS headers are set by the API"},
			Recommendations: []string{"add a headers middleware or set them at the ingress"},
		}),
		static("csrf-protection", false, CheckDetails{
			Score:           40,
			Issues:          []string{"state-changing endpoints rely on bearer tokens only"},
			Recommendations: []string{"acceptable for token-auth APIs; revisit if cookie auth is added"},
		}),
	)

	return checks
}
