package currencyset

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subloop-tracker/internal/http/response"
	"github.com/magabrotheeeer/subloop-tracker/internal/lib/sl"
	subservice "github.com/magabrotheeeer/subloop-tracker/internal/services/subscription"
)

// Request тело запроса на смену валюты отображения.
// Валюта влияет только на форматирование сумм, конвертация не выполняется.
type Request struct {
	Code string `json:"code" validate:"required,oneof=USD EUR GBP TRY"`
}

type Handler struct {
	log      *slog.Logger
	settings Settings
	cache    Cache
	validate *validator.Validate
}

type Settings interface {
	SetDisplayCurrency(ctx context.Context, code string) error
}

// Cache сбрасывает кешированную сводку: она хранит суммы, уже
// отформатированные в валюте отображения.
type Cache interface {
	Invalidate(key string) error
}

func New(log *slog.Logger, settings Settings, cache Cache) *Handler {
	return &Handler{
		log:      log,
		settings: settings,
		cache:    cache,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.currencyset"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.settings.SetDisplayCurrency(r.Context(), req.Code); err != nil {
		log.Error("failed to save display currency", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to save display currency"))
		return
	}

	// Сводка кеширует TotalFormatted в прежней валюте.
	if err := h.cache.Invalidate(subservice.SummaryCacheKey); err != nil {
		log.Warn("failed to invalidate summary cache", sl.Err(err))
	}

	log.Info("display currency changed", slog.String("code", req.Code))
	render.JSON(w, r, response.OK())
}
