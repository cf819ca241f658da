package effect

// Descriptor is one entry of the public effect catalog.
type Descriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Catalog returns the static list of effects advertised by the HTTP service.
// The list is informational: noir-filter is advertised but has no encoder plan.
// Descriptions are served verbatim in Italian, as existing clients display them.
func Catalog() []Descriptor {
	return []Descriptor{
		{ID: "cinematic-zoom", Name: "Cinematic Zoom", Category: "video", Description: "Zoom cinematografico"},
		{ID: "glitch-transition", Name: "Glitch Transition", Category: "video", Description: "Transizione glitch"},
		{ID: "vhs-effect", Name: "VHS Effect", Category: "video", Description: "Effetto VHS vintage"},
		{ID: "noir-filter", Name: "Noir Filter", Category: "video", Description: "Filtro noir bianco e nero"},
	}
}
