package vectorize

import (
	"fmt"
	"strings"
)

// ToSVG renders the result as a complete standalone SVG document, one
// <path> per region filled with that region's resolved color.
func (r *Result) ToSVG() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		r.Width, r.Height, r.Width, r.Height)
	for _, region := range r.Regions {
		fmt.Fprintf(&sb, `<path fill="%s" fill-opacity="%s" d="%s"/>`+"\n",
			region.Color.ToHexString(), opacityString(region.Color.A), region.Path)
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

func opacityString(a uint8) string {
	if a == 255 {
		return "1"
	}
	return fmt.Sprintf("%.3f", float64(a)/255)
}
