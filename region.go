package tagcheck

import "strings"

// RegionMarkers delimit the embedded region that gets validated.
// An empty Start selects the whole document.
type RegionMarkers struct {
	Start string `json:"start" koanf:"start"`
	End   string `json:"end" koanf:"end"`
}

// DefaultRegionMarkers select the in-browser Babel script block of a page.
var DefaultRegionMarkers = RegionMarkers{
	Start: `<script type="text/babel">`,
	End:   `</script>`,
}

// Region is the byte range [Start, End) of the embedded region in the document.
type Region struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Found bool `json:"found"`
}

// Text returns the region content.
func (r Region) Text(doc string) string {
	if !r.Found {
		return ""
	}
	return doc[r.Start:r.End]
}

// FindRegion locates the first start marker and the first end marker after it.
// Both must be present for the region to be found.
func FindRegion(doc string, m RegionMarkers) Region {
	if m.Start == "" {
		return Region{Start: 0, End: len(doc), Found: true}
	}
	i := strings.Index(doc, m.Start)
	if i < 0 {
		return Region{}
	}
	start := i + len(m.Start)
	if m.End == "" {
		return Region{Start: start, End: len(doc), Found: true}
	}
	j := strings.Index(doc[start:], m.End)
	if j < 0 {
		return Region{}
	}
	return Region{Start: start, End: start + j, Found: true}
}
