package outline

// Outline is the nested section structure of a parsed filing.
type Outline struct {
	Title    string     `json:"title"`
	Sections []*Section `json:"sections"`
}

// Section is a recursive document section.
type Section struct {
	Heading  string     `json:"heading,omitempty"` // Section heading (empty for loose text)
	Level    int        `json:"level"`             // Heading level as classified
	Text     string     `json:"text,omitempty"`    // Body text attached to this section
	Page     int        `json:"page,omitempty"`    // Source page (0 if N/A)
	Children []*Section `json:"children,omitempty"`
}

// Chunk is a sized text segment with structural context, ready for
// downstream indexing.
type Chunk struct {
	Text       string   `json:"text"`
	Index      int      `json:"index"`
	Breadcrumb []string `json:"breadcrumb"` // Heading hierarchy, e.g. ["PART I", "Item 1. Business"]
	PageStart  int      `json:"page_start,omitempty"`
	PageEnd    int      `json:"page_end,omitempty"`
}
