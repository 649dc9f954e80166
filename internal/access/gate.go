package access

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"path"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Semicile17/Campus-Connect/internal/auth"
	"github.com/Semicile17/Campus-Connect/internal/session"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

const (
	OutcomePass      = "pass"
	OutcomeCanonical = "redirect_canonical"
	OutcomeLanding   = "redirect_landing"
	OutcomeAnonymous = "anonymous"
	OutcomeLogin     = "redirect_login"
	OutcomeAllow     = "allow"
	OutcomeDeny      = "redirect_unauthorized"
)

const (
	tracerName   = "github.com/Semicile17/Campus-Connect/internal/access"
	gateSpanName = "access.gate"
	attrClass    = "campus.route.class"
	attrOutcome  = "campus.gate.outcome"
	attrRole     = "campus.role"
)

// Verifier checks a session token. Every failure must be reported the same
// way; the error text is only logged.
type Verifier interface {
	Verify(token string) (auth.Identity, error)
}

// Recorder counts gate decisions.
type Recorder interface {
	GateDecision(class, outcome string)
}

// Decision is the gate's verdict for one request.
type Decision struct {
	Class    Class
	Outcome  string
	Location string
	Clear    bool
	Identity *auth.Identity
}

type Gate struct {
	verifier Verifier
	carrier  *session.Carrier
	policy   Policy
	logger   *slog.Logger
	recorder Recorder
	tracer   trace.Tracer
}

type GateOption func(*Gate)

func WithRecorder(r Recorder) GateOption {
	return func(g *Gate) {
		g.recorder = r
	}
}

func WithTracer(t trace.Tracer) GateOption {
	return func(g *Gate) {
		g.tracer = t
	}
}

func NewGate(verifier Verifier, carrier *session.Carrier, policy Policy, logger *slog.Logger, opts ...GateOption) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gate{
		verifier: verifier,
		carrier:  carrier,
		policy:   policy,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) Policy() Policy {
	return g.policy
}

// Decide runs the gate state machine without touching the response.
func (g *Gate) Decide(r *http.Request) Decision {
	p := r.URL.Path
	if p == "" {
		p = "/"
	}
	if cleaned := path.Clean(p); cleaned != p && Classify(cleaned) != ClassInfra {
		target := url.URL{Path: cleaned, RawQuery: r.URL.RawQuery}
		return Decision{Class: Classify(cleaned), Outcome: OutcomeCanonical, Location: target.String()}
	}

	class := Classify(p)
	token := g.carrier.Token(r)
	switch class {
	case ClassInfra:
		return Decision{Class: class, Outcome: OutcomePass}

	case ClassPublic:
		if token == "" {
			return Decision{Class: class, Outcome: OutcomePass}
		}
		identity, err := g.verifier.Verify(token)
		if err != nil {
			g.logRejected(r, err)
			return Decision{Class: class, Outcome: OutcomeAnonymous, Clear: true}
		}
		return Decision{Class: class, Outcome: OutcomeLanding, Location: g.policy.Landing(identity.Role), Identity: &identity}

	default:
		if token == "" {
			return Decision{Class: class, Outcome: OutcomeLogin, Location: LoginPath}
		}
		identity, err := g.verifier.Verify(token)
		if err != nil {
			g.logRejected(r, err)
			return Decision{Class: class, Outcome: OutcomeLogin, Location: LoginPath, Clear: true}
		}
		if !g.policy.Allows(identity.Role, p) {
			g.logger.Info("route denied", "path", p, "role", identity.Role, "user_id", identity.UserID)
			return Decision{Class: class, Outcome: OutcomeDeny, Location: UnauthorizedPath, Identity: &identity}
		}
		return Decision{Class: class, Outcome: OutcomeAllow, Identity: &identity}
	}
}

func (g *Gate) logRejected(r *http.Request, err error) {
	g.logger.Info("session token rejected", "path", r.URL.Path, "reason", err.Error())
}

// Handler is the middleware form of the gate.
func (g *Gate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := g.tracer.Start(r.Context(), gateSpanName)
		defer span.End()

		d := g.Decide(r)
		span.SetAttributes(
			attribute.String(attrClass, d.Class.String()),
			attribute.String(attrOutcome, d.Outcome),
		)
		if d.Identity != nil {
			span.SetAttributes(attribute.String(attrRole, d.Identity.Role.String()))
		}
		if g.recorder != nil {
			g.recorder.GateDecision(d.Class.String(), d.Outcome)
		}

		if d.Clear {
			g.carrier.Clear(w)
		}
		if d.Location != "" {
			http.Redirect(w, r, d.Location, http.StatusTemporaryRedirect)
			return
		}
		if d.Outcome == OutcomeAllow && d.Identity != nil {
			ctx = WithIdentity(ctx, *d.Identity)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type identityKey struct{}

func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the identity the gate verified for this request.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(auth.Identity)
	return identity, ok
}
