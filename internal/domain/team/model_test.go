package team

import "testing"

func TestParseColor(t *testing.T) {
	t.Parallel()

	for _, c := range []string{"gray", "red", "orange", "yellow", "green", "blue", "purple", "pink"} {
		if _, err := ParseColor(c); err != nil {
			t.Fatalf("expected %q to parse: %v", c, err)
		}
	}
	if _, err := ParseColor("teal"); err == nil {
		t.Fatal("colors outside the palette must not parse")
	}
}

func TestStyleFor_FallsBackToGray(t *testing.T) {
	t.Parallel()

	if StyleFor(Color("teal")) != ColorStyles[ColorGray] {
		t.Fatal("unknown color should resolve to the gray tokens")
	}
	if StyleFor(ColorBlue) != ColorStyles[ColorBlue] {
		t.Fatal("known color should resolve to its own tokens")
	}
}

func TestTeamValidate_Slug(t *testing.T) {
	t.Parallel()

	base := Team{ID: "t1", Slug: "green-machine", Name: "Green Machine", Color: ColorGreen}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid team: %v", err)
	}

	for _, slug := range []string{"", "Green", "green machine", "-green", "green-", "grün"} {
		bad := base
		bad.Slug = slug
		if err := bad.Validate(); err == nil {
			t.Fatalf("slug %q must not validate", slug)
		}
	}
}
