package checkout

import (
	"context"

	"trendnest_backend/internal/models"
)

// AuthorizationResult est le verdict de la passerelle. Un refus n'est pas une
// erreur : Approved=false avec une raison lisible.
type AuthorizationResult struct {
	Approved bool
	Reason   string
}

// Gateway est le seul point d'intégration paiement de la séquence. Elle est
// traitée en boîte noire : approuvé, refusé, ou erreur technique.
type Gateway interface {
	Authorize(ctx context.Context, payment *models.Payment) (AuthorizationResult, error)
}

// SimulatedGateway approuve tout montant strictement positif. C'est la
// passerelle par défaut hors production.
type SimulatedGateway struct{}

func (SimulatedGateway) Authorize(_ context.Context, payment *models.Payment) (AuthorizationResult, error) {
	if payment.Amount > 0 {
		return AuthorizationResult{Approved: true}, nil
	}
	return AuthorizationResult{Approved: false, Reason: "montant non positif"}, nil
}
