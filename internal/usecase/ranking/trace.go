package ranking

import "go.uber.org/zap"

// Stage names the scoring stage that produced the final value.
type Stage string

const (
	// StagePrimaryGate means the query named a primary term the expert lacks.
	StagePrimaryGate Stage = "primary_gate"
	// StageExactWord means a significant word appears verbatim on both sides.
	StageExactWord Stage = "exact_word"
	// StageSecondaryEmpty means no primary terms and no secondary overlap to measure.
	StageSecondaryEmpty Stage = "secondary_empty"
	// StageSecondaryOverlap means the score is the secondary-term Jaccard overlap.
	StageSecondaryOverlap Stage = "secondary_overlap"
	// StagePrimaryMatch means the primary gate passed and the secondary bonus applied.
	StagePrimaryMatch Stage = "primary_match"
)

// Trace describes how one similarity score was reached.
type Trace struct {
	QueryPrimary    []string
	ExpertPrimary   []string
	QuerySecondary  []string
	ExpertSecondary []string
	Stage           Stage
	ThematicBoost   bool
	Score           float64
}

// Tracer receives a Trace for every scored expert. Implementations must not retain
// or modify the slices.
type Tracer interface {
	TraceScore(t *Trace)
}

type nopTracer struct{}

func (nopTracer) TraceScore(*Trace) {}

// NopTracer discards traces. It is the default.
func NopTracer() Tracer { return nopTracer{} }

// ZapTracer logs traces at debug level.
type ZapTracer struct {
	logger *zap.Logger
}

// NewZapTracer creates a tracer writing to logger.
func NewZapTracer(logger *zap.Logger) *ZapTracer {
	return &ZapTracer{logger: logger}
}

// TraceScore implements Tracer.
func (z *ZapTracer) TraceScore(t *Trace) {
	if ce := z.logger.Check(zap.DebugLevel, "Similarity scored"); ce != nil {
		ce.Write(
			zap.String("stage", string(t.Stage)),
			zap.Float64("score", t.Score),
			zap.Bool("thematic_boost", t.ThematicBoost),
			zap.Strings("query_primary", t.QueryPrimary),
			zap.Strings("expert_primary", t.ExpertPrimary),
			zap.Strings("query_secondary", t.QuerySecondary),
			zap.Strings("expert_secondary", t.ExpertSecondary),
		)
	}
}
