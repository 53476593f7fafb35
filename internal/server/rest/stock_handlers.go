package rest

import (
	"net/http"

	"github.com/dmitrijs2005/kitchenkeeper/internal/server/auth"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/services"
)

type movementRequest struct {
	InventoryID string  `json:"inventoryId"`
	Quantity    float64 `json:"quantity"`
	Type        string  `json:"type"`
	Note        *string `json:"note"`
}

type movementResponse struct {
	MovementSaved bool                  `json:"movementSaved"`
	Movement      *models.StockMovement `json:"movement"`
	Item          *models.InventoryItem `json:"item"`
}

func (s *Server) listInventory(w http.ResponseWriter, r *http.Request) {
	items, err := s.stock.ListInventory(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) listMovements(w http.ResponseWriter, r *http.Request) {
	mvs, err := s.stock.ListMovements(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mvs)
}

func (s *Server) createMovement(w http.ResponseWriter, r *http.Request) {
	var req movementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	in := services.MovementInput{
		InventoryID: req.InventoryID,
		Quantity:    req.Quantity,
		Type:        models.MovementType(req.Type),
		Note:        req.Note,
	}
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		in.CreatedBy = &id.ID
	}

	item, mv, err := s.stock.Record(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, movementResponse{MovementSaved: true, Movement: mv, Item: item})
}
