package dashboard

// CategoryColors is the fixed display colour of each known category.
var CategoryColors = map[string]string{
	"OBC": "rgb(141, 191, 242)",
	"SC":  "rgb(180, 9, 232)",
	"ST":  "rgb(232, 9, 46)",
	"GEN": "rgb(18, 18, 18)",
}

// FallbackColors is the qualitative palette handed out to unknown
// categories, in order.
var FallbackColors = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// ReferenceLineColor is the colour of the full-dataset median marker.
const ReferenceLineColor = "red"

// Palette maps category labels to colours for one dataset.
type Palette struct {
	colors map[string]string
}

// NewPalette assigns colours to categories. Unknown labels take the next
// fallback colour in the order they are listed, wrapping around.
func NewPalette(categories []string) Palette {
	p := Palette{colors: make(map[string]string, len(categories))}
	next := 0
	for _, cat := range categories {
		if _, done := p.colors[cat]; done {
			continue
		}
		if c, ok := CategoryColors[cat]; ok {
			p.colors[cat] = c
			continue
		}
		p.colors[cat] = FallbackColors[next%len(FallbackColors)]
		next++
	}
	return p
}

// Color returns the colour of category. Labels unknown to the palette get
// the first fallback colour.
func (p Palette) Color(category string) string {
	if c, ok := p.colors[category]; ok {
		return c
	}
	if c, ok := CategoryColors[category]; ok {
		return c
	}
	return FallbackColors[0]
}
