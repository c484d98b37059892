package expertdesk

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const carbonQuestion = "How can we implement carbon sequestration in agricultural systems?"

func carbonQuery() Query {
	return Query{Question: carbonQuestion, ThematicArea: "project planning", Affiliation: "NGO"}
}

func testExperts() []Expert {
	return []Expert{
		{ID: "e00", Name: "Amara Diallo", ContactEmail: "amara@example.org", Tags: []string{"Drought Risk Assessment"}},
		{ID: "e01", Name: "Wei Chen", ContactEmail: "wei@example.org", Tags: []string{"Carbon Sequestration", "Soil Health"}},
	}
}

func writeRoster(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "experts.csv")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRecommend_InMemoryRoster(t *testing.T) {
	c, err := New(context.Background(), WithExperts(testExperts()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	recs, err := c.Recommend(context.Background(), carbonQuery())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 1 || recs[0].ExpertID != "e01" {
		t.Fatalf("expected only the carbon expert, got %+v", recs)
	}
	r := recs[0]
	if r.Reason != "Expertise in Carbon Sequestration and related areas" {
		t.Errorf("Reason = %q", r.Reason)
	}
	if r.Affiliation != "Academia" {
		t.Errorf("Affiliation = %q, want title-cased default", r.Affiliation)
	}
	if r.ContactInfo != "Contact: Wei Chen at wei@example.org" {
		t.Errorf("ContactInfo = %q", r.ContactInfo)
	}
	if got := c.Confidence(recs); got != 96 {
		t.Errorf("Confidence = %d, want 96", got)
	}
}

func TestRecommend_Validation(t *testing.T) {
	c, err := New(context.Background(), WithExperts(testExperts()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name string
		q    Query
		want error
	}{
		{"blank question", Query{Question: "  ", ThematicArea: "x", Affiliation: "y"}, ErrQuestionRequired},
		{"no affiliation", Query{Question: "q", ThematicArea: "x"}, ErrOnboardingRequired},
		{"no thematic area", Query{Question: "q", Affiliation: "y"}, ErrOnboardingRequired},
		{"bad override", Query{Question: "q", ThematicArea: "x", Affiliation: "y", Experts: []Expert{{Name: "no id"}}}, ErrInvalidExpert},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := c.Recommend(context.Background(), tc.q); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRecommend_OverrideRoster(t *testing.T) {
	c, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	q := carbonQuery()
	q.Experts = testExperts()
	recs, err := c.Recommend(context.Background(), q)
	if err != nil || len(recs) != 1 {
		t.Fatalf("override: %v %+v", err, recs)
	}

	q.Experts = []Expert{}
	recs, err = c.Recommend(context.Background(), q)
	if err != nil || len(recs) != 0 {
		t.Fatalf("empty override: %v %+v", err, recs)
	}
	if got := c.Confidence(recs); got != 30 {
		t.Errorf("Confidence(empty) = %d, want 30", got)
	}
}

func TestConfidence(t *testing.T) {
	c := &Client{}
	tests := []struct {
		scores []int
		want   int
	}{
		{nil, 30},
		{[]int{100}, 96},
		{[]int{100, 47}, 74},
		{[]int{33}, 42},
	}
	for _, tc := range tests {
		recs := make([]Recommendation, len(tc.scores))
		for i, s := range tc.scores {
			recs[i].MatchScore = s
		}
		if got := c.Confidence(recs); got != tc.want {
			t.Errorf("Confidence(%v) = %d, want %d", tc.scores, got, tc.want)
		}
	}
}

func TestRosterFile_LoadAndReload(t *testing.T) {
	dir := t.TempDir()
	path := writeRoster(t, dir, "Name,Email,Expertise A,Expertise B,Expertise C\n"+
		"Amara Diallo,amara@example.org,Drought Risk Assessment,,\n"+
		"Wei Chen,wei@example.org,Carbon Sequestration,Soil Health,\n")

	c, err := New(context.Background(), WithRosterFile(path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	experts := c.Experts(context.Background())
	if len(experts) != 2 || experts[1].ID != "e01" || experts[1].Bio != "Expert in Carbon Sequestration, Soil Health" {
		t.Fatalf("experts = %+v", experts)
	}

	recs, err := c.Recommend(context.Background(), carbonQuery())
	if err != nil || len(recs) != 1 || recs[0].Name != "Wei Chen" {
		t.Fatalf("Recommend = %+v, %v", recs, err)
	}

	writeRoster(t, dir, "Name,Email,Expertise A,Expertise B,Expertise C\n"+
		"A,a@x.org,Hydrology,,\nB,b@x.org,Soil,,\nC,c@x.org,Policy,,\n")
	n, err := c.Reload(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("Reload = %d, %v", n, err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Reload(context.Background()); !errors.Is(err, ErrRosterSource) {
		t.Errorf("expected ErrRosterSource, got %v", err)
	}
	if got := len(c.Experts(context.Background())); got != 3 {
		t.Errorf("failed reload must keep previous roster, got %d experts", got)
	}
}

func TestNew_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		opts []Option
		want error
	}{
		{"missing roster", []Option{WithRosterFile(filepath.Join(dir, "none.csv"))}, ErrRosterSource},
		{"unsupported roster", []Option{WithRosterFile(filepath.Join(dir, "experts.xlsx"))}, ErrUnsupportedRosterFormat},
		{"invalid expert", []Option{WithExperts([]Expert{{Name: "no id"}})}, ErrInvalidExpert},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(context.Background(), tc.opts...); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}

	if _, err := New(context.Background(), WithTaxonomy(nil, []string{"x"})); err == nil {
		t.Error("expected error for taxonomy without primary terms")
	}
}

func TestReload_InMemoryRoster(t *testing.T) {
	c, err := New(context.Background(), WithExperts(testExperts()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Reload(context.Background()); !errors.Is(err, ErrNoRosterFile) {
		t.Errorf("expected ErrNoRosterFile, got %v", err)
	}
}

func TestWithTaxonomy(t *testing.T) {
	c, err := New(context.Background(),
		WithTaxonomy([]string{"glacier"}, nil),
		WithExperts([]Expert{{ID: "g1", Name: "Ice", Tags: []string{"Glacier Dynamics"}}}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	recs, err := c.Recommend(context.Background(), Query{
		Question: "Why is the glacier retreating?", ThematicArea: "cryosphere", Affiliation: "NGO",
	})
	if err != nil || len(recs) != 1 {
		t.Fatalf("custom taxonomy should match: %+v %v", recs, err)
	}
}

func TestObserver_MetricsAndLogs(t *testing.T) {
	reg := prometheus.NewRegistry()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c, err := New(context.Background(), WithExperts(testExperts()), WithPrometheus(reg), WithLogger(logger))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// A second client on the same registerer reuses the collectors.
	if _, err := New(context.Background(), WithPrometheus(reg)); err != nil {
		t.Fatalf("second client: %v", err)
	}

	_, _ = c.Recommend(context.Background(), carbonQuery())
	_, _ = c.Recommend(context.Background(), Query{})

	m := c.obs.metrics
	if got := testutil.ToFloat64(m.operations.WithLabelValues(opRecommend, "ok")); got != 1 {
		t.Errorf("ok operations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues(opRecommend, "error")); got != 1 {
		t.Errorf("error operations = %v, want 1", got)
	}
	expected := `
# HELP expertdesk_sdk_recommendations_returned Recommendations returned per Recommend call.
# TYPE expertdesk_sdk_recommendations_returned histogram
expertdesk_sdk_recommendations_returned_bucket{le="0"} 0
expertdesk_sdk_recommendations_returned_bucket{le="1"} 1
expertdesk_sdk_recommendations_returned_bucket{le="2"} 1
expertdesk_sdk_recommendations_returned_bucket{le="3"} 1
expertdesk_sdk_recommendations_returned_bucket{le="+Inf"} 1
expertdesk_sdk_recommendations_returned_sum 1
expertdesk_sdk_recommendations_returned_count 1
`
	if err := testutil.CollectAndCompare(m.returned, strings.NewReader(expected)); err != nil {
		t.Errorf("returned histogram: %v", err)
	}

	logs := buf.String()
	if !strings.Contains(logs, "operation completed") || !strings.Contains(logs, "operation failed") {
		t.Errorf("expected both log lines, got:\n%s", logs)
	}
}
