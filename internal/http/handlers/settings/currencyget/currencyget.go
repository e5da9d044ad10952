package currencyget

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subloop-tracker/internal/http/response"
	"github.com/magabrotheeeer/subloop-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subloop-tracker/internal/models"
)

type Handler struct {
	log      *slog.Logger
	settings Settings
}

type Settings interface {
	GetDisplayCurrency(ctx context.Context) (string, error)
}

func New(log *slog.Logger, settings Settings) *Handler {
	return &Handler{
		log:      log,
		settings: settings,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.currencyget"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	code, err := h.settings.GetDisplayCurrency(r.Context())
	if err != nil {
		log.Error("failed to read display currency", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read display currency"))
		return
	}

	currency := models.CurrencyByCode(code)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"code":   currency.Code,
		"symbol": currency.Symbol,
		"name":   currency.Name,
	}))
}
