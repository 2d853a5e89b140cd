package handlers

import (
	"delivery-tracker/internal/api/dto"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/state"
	"net/http"
)

// PackageHandler exposes the session's package list in route order.
type PackageHandler struct {
	Book *state.PackageBook
}

func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	pkgs := h.Book.Snapshot()
	stages := domain.Stages(pkgs)

	res := dto.ListPackagesResponse{
		Packages: make([]dto.PackageView, 0, len(pkgs)),
	}
	for i, p := range pkgs {
		res.Packages = append(res.Packages, dto.PackageView{
			ID:           p.ID,
			TrackingCode: p.TrackingCode,
			Status:       string(p.Status),
			Stage:        string(stages[i]),
			Latitude:     p.Destination.Lat,
			Longitude:    p.Destination.Lng,
			ClientName:   p.ClientName,
			DeliveredAt:  p.DeliveredAt,
		})
	}
	if i := domain.NextIndex(pkgs); i >= 0 {
		res.Next = pkgs[i].ID
	}

	writeJSON(w, r, http.StatusOK, res)
}
