package sessionrepair

import (
	"io"
	"log/slog"

	"github.com/dmitrymomot/sessiongate/pkg/cookiecodec"
	"github.com/dmitrymomot/sessiongate/pkg/cookiestore"
)

// Status is the terminal classification of one cookie entry. An entry is
// classified exactly once per pass.
type Status int

const (
	StatusHealthy Status = iota
	StatusRepaired
	StatusExpire
)

// String returns the status name used in logs.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusRepaired:
		return "repaired"
	case StatusExpire:
		return "expire"
	default:
		return "unknown"
	}
}

// Outcome records the classification of one entry. RepairedValue is set only
// when Status is StatusRepaired.
type Outcome struct {
	Entry         cookiestore.Entry
	Status        Status
	RepairedValue string
}

// Result is the output of one pass: the sanitized cookie set, the expiry
// mutations for irrecoverable entries and the per-entry outcomes.
type Result struct {
	Sanitized []cookiestore.Pair
	Expiries  []cookiestore.Mutation
	Outcomes  []Outcome
}

// Pass converts a raw cookie set into a sanitized set plus expiry directives.
// A Pass is stateless across invocations and safe for concurrent use.
type Pass struct {
	codec      *cookiecodec.Codec
	log        *slog.Logger
	expireOpts []cookiestore.Option
}

// Option configures a Pass.
type Option func(*Pass)

// WithLogger sets the logger used for classification decisions.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pass) {
		if log != nil {
			p.log = log
		}
	}
}

// WithExpireOptions sets the cookie attributes applied to expiry mutations.
func WithExpireOptions(opts ...cookiestore.Option) Option {
	return func(p *Pass) {
		p.expireOpts = append(p.expireOpts, opts...)
	}
}

// New creates a repair pass around the given codec.
func New(codec *cookiecodec.Codec, opts ...Option) *Pass {
	p := &Pass{
		codec: codec,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run classifies every entry and builds the sanitized set. Healthy entries
// pass through unchanged, repaired entries contribute their decoded value,
// irrecoverable entries are dropped and queued for expiry. One bad cookie
// never aborts the pass: classification runs per entry behind a recover
// boundary, and a failing entry is simply expired.
func (p *Pass) Run(entries []cookiestore.Entry) Result {
	res := Result{
		Sanitized: make([]cookiestore.Pair, 0, len(entries)),
		Outcomes:  make([]Outcome, 0, len(entries)),
	}

	for _, entry := range entries {
		outcome := p.classify(entry)
		res.Outcomes = append(res.Outcomes, outcome)

		switch outcome.Status {
		case StatusHealthy:
			res.Sanitized = append(res.Sanitized, cookiestore.Pair{Name: entry.Name, Value: entry.RawValue})
		case StatusRepaired:
			res.Sanitized = append(res.Sanitized, cookiestore.Pair{Name: entry.Name, Value: outcome.RepairedValue})
			p.log.Info("repaired corrupted session cookie",
				slog.String("cookie", entry.Name),
				slog.String("encoding", p.codec.Detect(entry.RawValue).String()),
			)
		case StatusExpire:
			res.Expiries = append(res.Expiries, cookiestore.Expire(entry.Name, p.expireOpts...))
			// name only, cookie values never reach the logs
			p.log.Warn("discarding undecodable session cookie",
				slog.String("cookie", entry.Name),
			)
		}
	}

	return res
}

func (p *Pass) classify(entry cookiestore.Entry) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome{Entry: entry, Status: StatusExpire}
		}
	}()

	enc := p.codec.Detect(entry.RawValue)
	if enc == cookiecodec.EncodingNone {
		return Outcome{Entry: entry, Status: StatusHealthy}
	}

	dec := p.codec.AttemptDecode(entry.RawValue, enc)
	if !dec.OK {
		return Outcome{Entry: entry, Status: StatusExpire}
	}

	return Outcome{Entry: entry, Status: StatusRepaired, RepairedValue: dec.Value}
}
