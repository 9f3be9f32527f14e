package dto

import "github.com/tkamdem/stablex/internal/domain"

type RateDTO struct {
	ID       int    `json:"id"`
	Date     string `json:"date"`
	BuyRate  string `json:"taux_achat"`
	SellRate string `json:"taux_vente"`
}

func NewRateDTO(rate *domain.DailyRate) RateDTO {
	return RateDTO{
		ID:       rate.ID,
		Date:     rate.RateDate.Format("2006-01-02"),
		BuyRate:  rate.BuyRate.String(),
		SellRate: rate.SellRate.String(),
	}
}

func NewRateListDTO(rates []domain.DailyRate) []RateDTO {
	out := make([]RateDTO, 0, len(rates))
	for i := range rates {
		out = append(out, NewRateDTO(&rates[i]))
	}
	return out
}

type UpsertRateRequestDTO struct {
	BuyRate  string `json:"taux_achat" validate:"required"`
	SellRate string `json:"taux_vente" validate:"required"`
	Date     string `json:"date"`
}

type CalculateRequestDTO struct {
	Type      string `json:"type" validate:"required"`
	WorldRate string `json:"taux_mondial" validate:"required"`
	Margin    string `json:"benefice" validate:"required"`
	Amount    string `json:"montant" validate:"required"`
}

type CalculateResponseDTO struct {
	Result string `json:"result"`
}
