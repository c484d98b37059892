package ranking

import (
	"math"
	"testing"

	"github.com/kailas-cloud/expertdesk/internal/domain/taxonomy"
)

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.New(
		[]string{"flood", "drought"},
		[]string{"rain", "soil", "wind", "sun"},
	)
	if err != nil {
		t.Fatalf("taxonomy: %v", err)
	}
	return tax
}

type recordingTracer struct {
	traces []Trace
}

func (r *recordingTracer) TraceScore(t *Trace) { r.traces = append(r.traces, *t) }

func approxEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScore(t *testing.T) {
	tests := []struct {
		name         string
		question     string
		thematicArea string
		tags         []string
		bio          string
		want         float64
		wantStage    Stage
	}{
		{
			name:     "primary gate rejects mismatched hazard",
			question: "flood risk now", tags: []string{"Drought"},
			want: 0, wantStage: StagePrimaryGate,
		},
		{
			name:     "gate wins over exact word",
			question: "flood glaciers", tags: []string{"Glaciers", "Drought"},
			want: 0, wantStage: StagePrimaryGate,
		},
		{
			name:     "exact word without taxonomy terms",
			question: "tell me about glaciers.", tags: []string{"Glaciers"},
			want: 1.0, wantStage: StageExactWord,
		},
		{
			name:     "short words are not significant",
			question: "ice cap", tags: []string{"Ice"}, bio: "cap",
			want: 0, wantStage: StageSecondaryEmpty,
		},
		{
			name:     "no secondary terms on one side",
			question: "rainy soils", tags: []string{"Glacier"},
			want: 0, wantStage: StageSecondaryEmpty,
		},
		{
			name:     "pure secondary overlap",
			question: "rainy soils", tags: []string{"Rainfall", "Windfarms"},
			want: 1.0 / 3.0, wantStage: StageSecondaryOverlap,
		},
		{
			name:     "secondary overlap without intersection",
			question: "rainy soils", tags: []string{"Windfarms"},
			want: 0, wantStage: StageSecondaryOverlap,
		},
		{
			name:     "primary match with no secondary keeps base",
			question: "flooded basins", tags: []string{"Flooding"},
			want: 0.8, wantStage: StagePrimaryMatch,
		},
		{
			name:     "primary match with secondary bonus",
			question: "flooded rainy soils", tags: []string{"Flooding", "Rainwater loads"},
			want: 0.9, wantStage: StagePrimaryMatch,
		},
		{
			name:     "thematic boost",
			question: "flooded rainy soils", thematicArea: "wet",
			tags: []string{"Flooding", "Rainwater wetlands"},
			want: 0.99, wantStage: StagePrimaryMatch,
		},
		{
			name:     "boost is clamped",
			question: "flooded rainy soils", thematicArea: "wet",
			tags: []string{"Flooding", "Rainwater", "Soil wetlands"},
			want: 1.0, wantStage: StagePrimaryMatch,
		},
		{
			name: "empty inputs",
			want: 0, wantStage: StageSecondaryEmpty,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recordingTracer{}
			s := NewScorer(testTaxonomy(t)).WithTracer(rec)

			got := s.Score(tc.question, tc.thematicArea, tc.tags, tc.bio)
			if !approxEqual(got, tc.want) {
				t.Errorf("Score() = %v, want %v", got, tc.want)
			}
			if len(rec.traces) != 1 {
				t.Fatalf("expected 1 trace, got %d", len(rec.traces))
			}
			if rec.traces[0].Stage != tc.wantStage {
				t.Errorf("stage = %q, want %q", rec.traces[0].Stage, tc.wantStage)
			}
			if !approxEqual(rec.traces[0].Score, got) {
				t.Errorf("trace score %v differs from returned %v", rec.traces[0].Score, got)
			}
		})
	}
}

func TestScore_Range(t *testing.T) {
	s := NewScorer(nil)
	questions := []string{
		"", "What is the best flood forecasting approach?",
		"How can we implement carbon sequestration in agricultural systems?",
		"climate climate climate", "!!!",
	}
	profiles := [][]string{
		nil, {"Drought Risk Assessment"}, {"Carbon Sequestration", "Climate Modeling"},
		{"Remote Sensing", "GIS", "Satellite Data"},
	}
	for _, q := range questions {
		for _, tags := range profiles {
			got := s.Score(q, "project planning", tags, "")
			if got < 0 || got > 1 {
				t.Errorf("Score(%q, %v) = %v out of [0, 1]", q, tags, got)
			}
		}
	}
}

func TestScore_ThematicAreaBlankDoesNotBoost(t *testing.T) {
	rec := &recordingTracer{}
	s := NewScorer(testTaxonomy(t)).WithTracer(rec)

	s.Score("rainy soils", " ", []string{"Rainfall", "Windfarms"}, "")
	if rec.traces[0].ThematicBoost {
		t.Error("blank thematic area must not boost")
	}
}

func TestScore_DefaultTaxonomyExamples(t *testing.T) {
	s := NewScorer(nil)

	got := s.Score(
		"How can we implement carbon sequestration in agricultural systems?", "project planning",
		[]string{"Carbon Sequestration"}, "Expert in Carbon Sequestration",
	)
	if got < 0.8 {
		t.Errorf("carbon sequestration expert scored %v, want >= 0.8", got)
	}

	got = s.Score(
		"What is the best flood forecasting approach?", "project planning",
		[]string{"Drought Risk Assessment"}, "Expert in Drought Risk Assessment",
	)
	if got != 0 {
		t.Errorf("drought expert scored %v for a flood question, want 0", got)
	}
}

func TestScore_TracerDoesNotChangeResult(t *testing.T) {
	plain := NewScorer(nil)
	traced := NewScorer(nil).WithTracer(&recordingTracer{})

	q, th := "Which crops survive drought in the Sahel?", "agriculture"
	tags := []string{"Drought Risk Assessment", "West Africa"}
	if a, b := plain.Score(q, th, tags, ""), traced.Score(q, th, tags, ""); a != b {
		t.Errorf("traced score %v != plain score %v", b, a)
	}
}

func TestWithTracer_NilFallsBackToNop(t *testing.T) {
	s := NewScorer(nil).WithTracer(nil)
	// Must not panic.
	_ = s.Score("flood", "", []string{"Flood"}, "")
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		a, b []string
		want float64
	}{
		{nil, nil, 0},
		{[]string{"a"}, []string{"a"}, 1},
		{[]string{"a", "b"}, []string{"b", "c"}, 1.0 / 3.0},
		{[]string{"a"}, []string{"b"}, 0},
	}
	for _, tc := range tests {
		if got := jaccard(tc.a, tc.b); !approxEqual(got, tc.want) {
			t.Errorf("jaccard(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSharesSignificantWord(t *testing.T) {
	tests := []struct {
		q, e string
		want bool
	}{
		{"what about floods?", "floods, droughts", true},
		{"what about floods?", "flooding", false},
		{"the sea", "the sea", false},
		{"", "anything here", false},
		{"rivers;", ":rivers", true},
	}
	for _, tc := range tests {
		if got := sharesSignificantWord(tc.q, tc.e); got != tc.want {
			t.Errorf("sharesSignificantWord(%q, %q) = %v, want %v", tc.q, tc.e, got, tc.want)
		}
	}
}
