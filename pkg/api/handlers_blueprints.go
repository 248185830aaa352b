package api

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/r3d91ll/blueprint/pkg/blueprint"
)

// BlueprintHandler serves CRUD endpoints over a blueprint store.
type BlueprintHandler struct {
	store blueprint.Store

	// hub announces changes; nil disables announcements
	hub *Hub
}

// NewBlueprintHandler creates a handler backed by store.
func NewBlueprintHandler(store blueprint.Store, hub *Hub) *BlueprintHandler {
	return &BlueprintHandler{store: store, hub: hub}
}

// RegisterRoutes registers the blueprint API routes on the router.
func (h *BlueprintHandler) RegisterRoutes(router *Router) {
	router.GET("/api/blueprints", h.List)
	router.POST("/api/blueprints", h.Create)
	router.GET("/api/blueprints/:id", h.Get)
	router.PUT("/api/blueprints/:id", h.Update)
	router.DELETE("/api/blueprints/:id", h.Delete)
}

// BlueprintSummary is one item of the list response.
type BlueprintSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Owner     string    `json:"owner,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Sections  int       `json:"sections"`
}

// BlueprintListResponse is the response body of GET /api/blueprints.
type BlueprintListResponse struct {
	Blueprints []BlueprintSummary `json:"blueprints"`
	Total      int                `json:"total"`
}

// List handles GET /api/blueprints.
func (h *BlueprintHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List()
	if err != nil {
		WriteBlueprintError(w, err)
		return
	}

	resp := BlueprintListResponse{
		Blueprints: make([]BlueprintSummary, 0, len(list)),
		Total:      len(list),
	}
	for _, b := range list {
		resp.Blueprints = append(resp.Blueprints, BlueprintSummary{
			ID:        b.ID,
			Title:     b.Title,
			Owner:     b.Owner,
			CreatedAt: b.CreatedAt,
			Sections:  len(b.Sections),
		})
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Create handles POST /api/blueprints. A missing id or creation time is
// filled in.
func (h *BlueprintHandler) Create(w http.ResponseWriter, r *http.Request) {
	b, ok := decodeBlueprint(w, r)
	if !ok {
		return
	}
	if err := h.store.Create(b); err != nil {
		WriteBlueprintError(w, err)
		return
	}

	log.Printf("[api] %s created blueprint %s", RequestID(r.Context()), b.ID)
	h.announce(EventTypeBlueprintCreated, b)
	WriteJSON(w, http.StatusCreated, b)
}

// Get handles GET /api/blueprints/:id.
func (h *BlueprintHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.store.Get(PathParam(r, "id"))
	if err != nil {
		WriteBlueprintError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, b)
}

// Update handles PUT /api/blueprints/:id. The path id wins over any id in
// the body; the stored creation time is kept when the body omits it.
func (h *BlueprintHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "id")
	existing, err := h.store.Get(id)
	if err != nil {
		WriteBlueprintError(w, err)
		return
	}

	var b blueprint.Blueprint
	if !readJSONOrFail(w, r, &b) {
		return
	}
	b.ID = id
	if b.CreatedAt.IsZero() {
		b.CreatedAt = existing.CreatedAt
	}
	if err := b.Validate(); err != nil {
		WriteBlueprintError(w, err)
		return
	}
	if err := h.store.Update(&b); err != nil {
		WriteBlueprintError(w, err)
		return
	}

	h.announce(EventTypeBlueprintUpdated, &b)
	WriteJSON(w, http.StatusOK, &b)
}

// Delete handles DELETE /api/blueprints/:id.
func (h *BlueprintHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "id")
	if err := h.store.Delete(id); err != nil {
		WriteBlueprintError(w, err)
		return
	}

	log.Printf("[api] %s deleted blueprint %s", RequestID(r.Context()), id)
	if h.hub != nil {
		h.hub.BroadcastBlueprint(EventTypeBlueprintDeleted, BlueprintEventData{ID: id})
	}
	WriteJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *BlueprintHandler) announce(eventType string, b *blueprint.Blueprint) {
	if h.hub != nil {
		h.hub.BroadcastBlueprint(eventType, BlueprintEventData{ID: b.ID, Title: b.Title})
	}
}

// decodeBlueprint reads a blueprint from the body, fills in a missing id and
// creation time, and validates it.
func decodeBlueprint(w http.ResponseWriter, r *http.Request) (*blueprint.Blueprint, bool) {
	var b blueprint.Blueprint
	if !readJSONOrFail(w, r, &b) {
		return nil, false
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if err := b.Validate(); err != nil {
		WriteBlueprintError(w, err)
		return nil, false
	}
	return &b, true
}
