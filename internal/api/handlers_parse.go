package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/dgallion1/filingest/internal/elements"
	"github.com/dgallion1/filingest/internal/outline"
	"github.com/dgallion1/filingest/internal/parser"
)

// elementDTO is the wire shape of a single semantic element.
type elementDTO struct {
	Kind  string             `json:"kind"`
	Tag   string             `json:"tag"`
	Text  string             `json:"text"`
	Level *int               `json:"level,omitempty"`
	Log   []elements.LogItem `json:"log,omitempty"`
}

// handleParse parses an HTML filing synchronously and returns both the
// classified element sequence and the folded outline. Small documents only;
// anything big should go through /api/ingest.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "failed to read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		jsonError(w, "empty body", http.StatusBadRequest)
		return
	}

	p := &parser.HTMLParser{}
	title, els, err := p.ParseElements(bytes.NewReader(body))
	if err != nil {
		jsonError(w, "parse: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if q := r.URL.Query().Get("title"); q != "" {
		title = q
	}

	o := outline.Build(title, els)

	resp := map[string]any{
		"title":    title,
		"elements": toElementDTOs(els),
		"outline":  o,
	}
	if r.URL.Query().Get("markdown") == "true" {
		resp["markdown"] = o.Markdown()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleParseStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.orchestrator.Stats().Snapshot())
}

func toElementDTOs(els []elements.SemanticElement) []elementDTO {
	out := make([]elementDTO, 0, len(els))
	for _, el := range els {
		dto := elementDTO{
			Tag:  el.Tag().Name(),
			Text: el.Text(),
			Log:  el.Log().Items(),
		}
		switch e := el.(type) {
		case *elements.TitleElement:
			dto.Kind = "title"
			level := e.Level()
			dto.Level = &level
		case *elements.TextElement:
			dto.Kind = "text"
		case *elements.IrrelevantElement:
			dto.Kind = "irrelevant"
		default:
			dto.Kind = "undetermined"
		}
		out = append(out, dto)
	}
	return out
}
