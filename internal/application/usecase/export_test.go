package usecase

import "github.com/cuotakiwi/quote-service/internal/domain/valueobject"

// RecalculatorStrategy exposes the adjust use case's recalculation strategy to
// external tests.
func RecalculatorStrategy(uc *AdjustRequestedAmountUseCase) valueobject.RecalcStrategy {
	return uc.recalculator.Strategy()
}
