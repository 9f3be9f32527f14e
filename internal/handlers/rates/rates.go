package rates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tkamdem/stablex/internal/domain"
	"github.com/tkamdem/stablex/internal/dto"
	"github.com/tkamdem/stablex/internal/service/rateservice"
	"github.com/tkamdem/stablex/pkg/conversion"
	"github.com/tkamdem/stablex/pkg/utils"
)

//go:generate mockgen -source=rates.go -destination=rates_mock.go -package=rates

type Service interface {
	GetActive(ctx context.Context) (*domain.DailyRate, error)
	Upsert(ctx context.Context, date time.Time, buyRate, sellRate decimal.Decimal) (*domain.DailyRate, error)
	Delete(ctx context.Context, id int) error
	History(ctx context.Context, limit int) ([]domain.DailyRate, error)
	Preview(direction string, worldRate, margin, amount decimal.Decimal) (decimal.Decimal, error)
}

type RatesHandler struct {
	rateService Service
}

func New(rateService Service) *RatesHandler {
	return &RatesHandler{
		rateService: rateService,
	}
}

// GetCurrent godoc
//
//	@Summary		Get today's exchange rate
//	@Description	Return the pair published for the current date
//	@Tags			Rates
//	@Produce		json
//	@Success		200	{object}	dto.RateDTO
//	@Failure		404	{object}	utils.Response	"No rate published today"
//	@Router			/api/rates/current [get]
func (h *RatesHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	rate, err := h.rateService.GetActive(r.Context())
	if err != nil {
		if errors.Is(err, rateservice.ErrRateUnavailable) {
			utils.RespondWithError(w, http.StatusNotFound, "Aucun taux pour aujourd'hui")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewRateDTO(rate))
}

// Calculate godoc
//
//	@Summary		Preview a conversion
//	@Description	Convert an amount against a quoted world rate and margin
//	@Tags			Rates
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CalculateRequestDTO	true	"Calculation request"
//	@Success		200		{object}	dto.CalculateResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid input"
//	@Router			/api/rates/calculate [post]
func (h *RatesHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req dto.CalculateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var direction string
	switch req.Type {
	case "vente":
		direction = domain.DirectionSell
	case "achat":
		direction = domain.DirectionBuy
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Type invalide (utiliser 'achat' ou 'vente')")
		return
	}

	worldRate, err1 := decimal.NewFromString(req.WorldRate)
	margin, err2 := decimal.NewFromString(req.Margin)
	amount, err3 := decimal.NewFromString(req.Amount)
	if err1 != nil || err2 != nil || err3 != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Valeurs numériques invalides")
		return
	}

	result, err := h.rateService.Preview(direction, worldRate, margin, amount)
	if err != nil {
		if errors.Is(err, conversion.ErrInvalidInput) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.CalculateResponseDTO{Result: result.StringFixed(2)})
}

// History godoc
//
//	@Summary		List published rates
//	@Description	Most recent pairs first, 30 by default
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{array}		dto.RateDTO
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/rates [get]
func (h *RatesHandler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rates, err := h.rateService.History(r.Context(), limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewRateListDTO(rates))
}

// Upsert godoc
//
//	@Summary		Publish or overwrite a rate
//	@Description	Publish the pair for a date and broadcast the change
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.UpsertRateRequestDTO	true	"Rate pair"
//	@Success		201		{object}	dto.RateDTO
//	@Failure		400		{object}	utils.Response	"Invalid pair"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/rates [post]
func (h *RatesHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertRateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	buyRate, err1 := decimal.NewFromString(req.BuyRate)
	sellRate, err2 := decimal.NewFromString(req.SellRate)
	if err1 != nil || err2 != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Valeurs numériques invalides")
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Date invalide")
			return
		}
		date = parsed
	}

	rate, err := h.rateService.Upsert(r.Context(), date, buyRate, sellRate)
	if err != nil {
		if errors.Is(err, rateservice.ErrInvalidRatePair) {
			utils.RespondWithError(w, http.StatusBadRequest, "Le taux de vente doit être supérieur au taux d'achat")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewRateDTO(rate))
}

// Delete godoc
//
//	@Summary		Delete a published rate
//	@Description	Remove a past pair; today's pair is protected
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		int	true	"Rate id"
//	@Success		200	{object}	utils.Response
//	@Failure		403	{object}	utils.Response	"Today's rate is protected"
//	@Failure		404	{object}	utils.Response	"Rate not found"
//	@Router			/api/admin/rates/{id} [delete]
func (h *RatesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Identifiant invalide")
		return
	}

	if err := h.rateService.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, rateservice.ErrRateNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Taux introuvable")
		case errors.Is(err, rateservice.ErrRateProtected):
			utils.RespondWithError(w, http.StatusForbidden, "Le taux du jour ne peut pas être supprimé")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Taux supprimé"})
}
