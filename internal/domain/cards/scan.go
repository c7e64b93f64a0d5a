package cards

// ScanBlock is one OCR text block as returned by the scan API: a text fragment,
// the OCR confidence in [0,1] and the bounding box corners in image coordinates.
type ScanBlock struct {
	Text       string        `json:"text"`
	Confidence float64       `json:"confidence"`
	Location   [2][2]float64 `json:"location"`
}

// ScanAPIResponse mirrors the scan service's simple-mode payload.
type ScanAPIResponse struct {
	Success bool        `json:"success"`
	Text    string      `json:"text"`
	Blocks  []ScanBlock `json:"blocks"`
}

// ScoredCandidate is one catalog hit during name matching. Score is a unitless
// ranking value, not a probability; it never leaves the matching pipeline.
type ScoredCandidate struct {
	CardID   string  `json:"id"`
	Name     string  `json:"name"`
	ImageURL string  `json:"imageUrl,omitempty"`
	Score    float64 `json:"-"`
}

// ScanMatch is one entry of the shortlist returned to clients.
type ScanMatch struct {
	CardID   string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type ScanResponse struct {
	Items []ScanMatch `json:"items"`
}
