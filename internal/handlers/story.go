package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jwebster45206/food-guardian/pkg/story"
)

type StoryResponse struct {
	StartNodeID story.NodeID   `json:"start_node_id"`
	NodeCount   int            `json:"node_count"`
	NodeIDs     []story.NodeID `json:"node_ids"`
	ImageURLs   []string       `json:"image_urls"`
}

// StoryHandler describes the loaded story graph. Front-ends use the image
// list to preload choice artwork.
type StoryHandler struct {
	graph  *story.Graph
	logger *slog.Logger
}

func NewStoryHandler(graph *story.Graph, logger *slog.Logger) *StoryHandler {
	return &StoryHandler{
		graph:  graph,
		logger: logger,
	}
}

func (h *StoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET")
		return
	}

	images := h.graph.ImageURLs()
	if images == nil {
		images = []string{}
	}
	writeJSON(w, h.logger, http.StatusOK, StoryResponse{
		StartNodeID: h.graph.Start(),
		NodeCount:   h.graph.Len(),
		NodeIDs:     h.graph.NodeIDs(),
		ImageURLs:   images,
	})
}
