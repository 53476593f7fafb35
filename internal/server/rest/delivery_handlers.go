package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type deliveryRequest struct {
	OrderID           string     `json:"orderId"`
	DeliveredQuantity float64    `json:"deliveredQuantity"`
	OrderedQuantity   float64    `json:"orderedQuantity"`
	DeliveryNotes     *string    `json:"deliveryNotes"`
	DeliveredBy       string     `json:"deliveredBy"`
	DeliveryDate      *time.Time `json:"deliveryDate"`
	CustomerSignature string     `json:"customerSignature"`
	DeliveryStatus    string     `json:"deliveryStatus"`
}

func (s *Server) listDeliveries(w http.ResponseWriter, r *http.Request) {
	ds, err := s.deliveries.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) createDelivery(w http.ResponseWriter, r *http.Request) {
	var req deliveryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	d, err := s.deliveries.Create(r.Context(), services.DeliveryInput{
		OrderID:           req.OrderID,
		DeliveredQuantity: req.DeliveredQuantity,
		OrderedQuantity:   req.OrderedQuantity,
		DeliveryNotes:     req.DeliveryNotes,
		DeliveredBy:       req.DeliveredBy,
		DeliveryDate:      req.DeliveryDate,
		CustomerSignature: req.CustomerSignature,
		Status:            models.DeliveryStatus(req.DeliveryStatus),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// deliveryByOrder responds with the confirmation or JSON null.
func (s *Server) deliveryByOrder(w http.ResponseWriter, r *http.Request) {
	d, err := s.deliveries.GetByOrderID(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
