package expert

import "testing"

func TestNew_Valid(t *testing.T) {
	e, err := New(Attrs{
		ID:           "e00",
		Name:         "Ada Okafor",
		Affiliation:  "NGO",
		Tags:         []string{" Carbon Sequestration ", "", "Climate Modeling"},
		ContactEmail: "ada@example.org",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if e.ID() != "e00" {
		t.Errorf("ID() = %q", e.ID())
	}
	if e.Affiliation() != "NGO" {
		t.Errorf("Affiliation() = %q", e.Affiliation())
	}
	if e.TagCount() != 2 {
		t.Fatalf("TagCount() = %d, want 2", e.TagCount())
	}
	if e.PrimaryTag() != "Carbon Sequestration" {
		t.Errorf("PrimaryTag() = %q", e.PrimaryTag())
	}
	if e.TagLine() != "Carbon Sequestration,Climate Modeling" {
		t.Errorf("TagLine() = %q", e.TagLine())
	}
	if e.Bio() != "Expert in Carbon Sequestration, Climate Modeling" {
		t.Errorf("Bio() = %q", e.Bio())
	}
}

func TestNew_Defaults(t *testing.T) {
	e, err := New(Attrs{ID: "e01", Name: "No Tags"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Affiliation() != DefaultAffiliation {
		t.Errorf("Affiliation() = %q, want %q", e.Affiliation(), DefaultAffiliation)
	}
	if e.Location() != DefaultLocation {
		t.Errorf("Location() = %q, want %q", e.Location(), DefaultLocation)
	}
	if e.Seniority() != DefaultSeniority {
		t.Errorf("Seniority() = %q, want %q", e.Seniority(), DefaultSeniority)
	}
	if e.Bio() != "" {
		t.Errorf("Bio() = %q, want empty without tags", e.Bio())
	}
	if e.PrimaryTag() != "" {
		t.Errorf("PrimaryTag() = %q, want empty", e.PrimaryTag())
	}
}

func TestNew_ExplicitBioKept(t *testing.T) {
	e, err := New(Attrs{ID: "e02", Tags: []string{"Hydrology"}, Bio: "Works on rivers."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Bio() != "Works on rivers." {
		t.Errorf("Bio() = %q", e.Bio())
	}
}

func TestNew_MissingID(t *testing.T) {
	if _, err := New(Attrs{ID: "  "}); err == nil {
		t.Fatal("expected error for blank ID")
	}
}

func TestTags_ReturnsCopy(t *testing.T) {
	e, _ := New(Attrs{ID: "e03", Tags: []string{"Drought"}})
	tags := e.Tags()
	tags[0] = "mutated"
	if e.PrimaryTag() != "Drought" {
		t.Errorf("expert mutated through Tags(): %q", e.PrimaryTag())
	}
}
