package annots

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/unicode/norm"
)

var dateLayouts = []string{
	"20060102150405Z0700",
	"20060102150405Z07",
	"20060102150405",
	"200601021504",
	"2006010215",
	"20060102",
	"200601",
	"2006",
}

// ParseDate decodes a PDF date string such as D:20210314152600+01'00'.
// It returns nil for anything it cannot read.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "D:")
	s = strings.ReplaceAll(s, "'", "")

	if s == "" {
		return nil
	}

	// Z may be followed by a redundant 00'00'
	if i := strings.IndexByte(s, 'Z'); i >= 0 {
		s = s[:i+1]
	}

	for _, layout := range dateLayouts {
		date, err := time.Parse(layout, s)
		if err == nil {
			return &date
		}
	}

	return nil
}

func RemoveNul(str string) string {
	return strings.Map(func(r rune) rune {
		if r == unicode.ReplacementChar {
			return -1
		}
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, str)
}

var quotes = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
)

var crlf = regexp.MustCompile(`\r\n?`)

// CleanupContents normalises a free-text /Contents value. Line structure
// is kept.
func CleanupContents(s string) string {
	s = crlf.ReplaceAllString(s, "\n")
	s = norm.NFKC.String(s)
	s = quotes.Replace(s)

	return strings.TrimSpace(RemoveNul(s))
}

var hyphenBreak = regexp.MustCompile(`(\pL)-\n(\pL)`)

var nlAndSpace = regexp.MustCompile(`[\n\s]+`)

func CondenseSpaces(str string) string {
	return nlAndSpace.ReplaceAllString(str, " ")
}

// CleanupText turns captured text into a single line: ligatures and curly
// quotes are replaced, words hyphenated across a line break are joined and
// remaining line breaks become spaces.
func CleanupText(s string) string {
	s = crlf.ReplaceAllString(s, "\n")
	s = norm.NFKC.String(s)
	s = quotes.Replace(s)
	s = hyphenBreak.ReplaceAllString(s, "$1$2")
	s = CondenseSpaces(s)

	return strings.TrimSpace(RemoveNul(s))
}

// ColorToHex renders /C components as #rrggbb. Gray and CMYK are
// converted to RGB.
func ColorToHex(c []float64) string {
	clr, ok := toColor(c)
	if !ok {
		return ""
	}

	return clr.Clamped().Hex()
}

func ColorToCategory(c []float64) string {
	clr, ok := toColor(c)
	if !ok {
		return ""
	}

	h, s, l := clr.Clamped().Hsl()

	// define color category based on HSL
	if l < 0.12 {
		return "Black"
	}
	if l > 0.98 {
		return "White"
	}
	if s < 0.2 {
		return "Gray"
	}
	if h < 15 {
		return "Red"
	}
	if h < 45 {
		return "Orange"
	}
	if h < 65 {
		return "Yellow"
	}
	if h < 170 {
		return "Green"
	}
	if h < 190 {
		return "Cyan"
	}
	if h < 263 {
		return "Blue"
	}
	if h < 280 {
		return "Purple"
	}
	if h < 335 {
		return "Magenta"
	}
	return "Red"
}

func toColor(c []float64) (colorful.Color, bool) {
	switch len(c) {
	case 1:
		return colorful.Color{R: c[0], G: c[0], B: c[0]}, true
	case 3:
		return colorful.Color{R: c[0], G: c[1], B: c[2]}, true
	case 4:
		k := 1 - c[3]
		return colorful.Color{
			R: (1 - c[0]) * k,
			G: (1 - c[1]) * k,
			B: (1 - c[2]) * k,
		}, true
	}

	return colorful.Color{}, false
}

// IDs hands out annotation IDs of the form type-pNxXyY, with a counter
// suffix for collisions.
type IDs map[string]bool

func (ids IDs) Next(pageIndex int, x float64, y float64, annotType string) string {
	xInt := int(x)
	yInt := int(y)
	id := fmt.Sprintf("%s-p%dx%dy%d", annotType, pageIndex+1, xInt, yInt)
	_, ok := ids[id]

	for i := 1; ok; i++ {
		id = fmt.Sprintf("%s-p%dx%dy%d-%d", annotType, pageIndex+1, xInt, yInt, i)
		_, ok = ids[id]
	}

	ids[id] = true

	return id
}
