package team

import (
	"fmt"
	"regexp"
	"time"
)

// Color is the closed palette teams pick from. Styling resolves a Color
// through ColorStyles; colors are never interpolated into style strings.
type Color string

const (
	ColorGray   Color = "gray"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
)

// Style holds the concrete style tokens for one palette color.
type Style struct {
	Background string
	Text       string
	Accent     string
}

// ColorStyles is the only mapping from palette colors to style tokens.
var ColorStyles = map[Color]Style{
	ColorGray:   {Background: "bg-gray-600", Text: "text-gray-50", Accent: "border-gray-400"},
	ColorRed:    {Background: "bg-red-600", Text: "text-red-50", Accent: "border-red-400"},
	ColorOrange: {Background: "bg-orange-600", Text: "text-orange-50", Accent: "border-orange-400"},
	ColorYellow: {Background: "bg-yellow-500", Text: "text-yellow-950", Accent: "border-yellow-400"},
	ColorGreen:  {Background: "bg-green-600", Text: "text-green-50", Accent: "border-green-400"},
	ColorBlue:   {Background: "bg-blue-600", Text: "text-blue-50", Accent: "border-blue-400"},
	ColorPurple: {Background: "bg-purple-600", Text: "text-purple-50", Accent: "border-purple-400"},
	ColorPink:   {Background: "bg-pink-600", Text: "text-pink-50", Accent: "border-pink-400"},
}

func ParseColor(v string) (Color, error) {
	c := Color(v)
	if _, ok := ColorStyles[c]; !ok {
		return "", fmt.Errorf("unknown team color %q", v)
	}
	return c, nil
}

// StyleFor resolves the style tokens for a color, falling back to gray for
// rows written before the palette was closed.
func StyleFor(c Color) Style {
	if s, ok := ColorStyles[c]; ok {
		return s
	}
	return ColorStyles[ColorGray]
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Team is a club roster with its games, seasons and subscription.
// The slug is URL-safe and immutable by convention.
type Team struct {
	ID        string
	Slug      string
	Name      string
	Color     Color
	LogoKey   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if !slugPattern.MatchString(t.Slug) {
		return fmt.Errorf("team slug %q is not URL-safe", t.Slug)
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if _, ok := ColorStyles[t.Color]; !ok {
		return fmt.Errorf("unknown team color %q", t.Color)
	}

	return nil
}

// Membership links a user to a team as an admin. Its existence is the
// whole access-control model: member means full access, absent means none.
type Membership struct {
	TeamID    string
	UserID    string
	CreatedAt time.Time
}

func (m Membership) Validate() error {
	if m.TeamID == "" {
		return fmt.Errorf("membership team id is required")
	}
	if m.UserID == "" {
		return fmt.Errorf("membership user id is required")
	}

	return nil
}
