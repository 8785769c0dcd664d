// Package checkout orchestre la séquence commande/paiement : une machine à
// états journalisée avec actions compensatoires à chaque étape.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gocql/gocql"

	"trendnest_backend/internal/cart"
	"trendnest_backend/internal/models"
	"trendnest_backend/internal/store"
)

var (
	ErrEmptyCart      = errors.New("le panier est vide")
	ErrMissingAddress = errors.New("l'adresse de livraison est requise")
	ErrInvalidMethod  = errors.New("méthode de paiement invalide")
	// ErrPaymentAmount : montant non positif, erreur propre au domaine paiement.
	ErrPaymentAmount = errors.New("le montant du paiement doit être strictement positif")
)

// États de la séquence, journalisés dans checkout_transitions.
const (
	StateCartSnapshot     = "cart_snapshot"
	StateOrderCreated     = "order_created"
	StatePaymentCreated   = "payment_created"
	StatePaymentProcessed = "payment_processed"
	StateOrderFinalized   = "order_finalized"
)

// Result est l'issue d'une séquence terminée. Approved=false est une fin
// normale (paiement refusé), pas une erreur.
type Result struct {
	Order    *models.Order   `json:"order"`
	Payment  *models.Payment `json:"payment"`
	Approved bool            `json:"approved"`
	Reason   string          `json:"reason,omitempty"`
}

// Mailer envoie la confirmation de commande. nil = pas d'email.
type Mailer interface {
	SendOrderConfirmation(user *models.User, order *models.Order) error
}

// Invalidator purge la fiche produit en cache après un changement de stock.
// nil = pas de cache.
type Invalidator interface {
	InvalidateProduct(ctx context.Context, id gocql.UUID)
}

type Sequencer struct {
	orders      store.OrderStore
	payments    store.PaymentStore
	products    store.ProductStore
	transitions store.TransitionStore
	users       store.UserStore
	carts       *cart.Service
	gateway     Gateway
	mailer      Mailer
	cache       Invalidator
}

func NewSequencer(
	orders store.OrderStore,
	payments store.PaymentStore,
	products store.ProductStore,
	transitions store.TransitionStore,
	users store.UserStore,
	carts *cart.Service,
	gateway Gateway,
	mailer Mailer,
	cache Invalidator,
) *Sequencer {
	return &Sequencer{
		orders:      orders,
		payments:    payments,
		products:    products,
		transitions: transitions,
		users:       users,
		carts:       carts,
		gateway:     gateway,
		mailer:      mailer,
		cache:       cache,
	}
}

// Checkout exécute la séquence complète pour un utilisateur.
//
// Panier vide → aucune écriture. Ensuite chaque étape journalise sa
// transition, et tout échec après la création de la commande déclenche la
// compensation adaptée : jamais de commande Pending orpheline sans trace.
func (s *Sequencer) Checkout(ctx context.Context, userID gocql.UUID, shippingAddress string, method models.PaymentMethod) (*Result, error) {
	if shippingAddress == "" {
		return nil, ErrMissingAddress
	}
	if !method.Valid() {
		return nil, ErrInvalidMethod
	}

	snapshot, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// ── Création de la commande : prix figés au prix catalogue courant ──
	order := &models.Order{
		ID:              gocql.TimeUUID(),
		UserID:          userID,
		ShippingAddress: shippingAddress,
		Status:          models.OrderPending,
		CreatedAt:       time.Now(),
	}
	for _, item := range snapshot.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Total:     item.Total,
		})
		order.TotalAmount += item.Total
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("création commande: %w", err)
	}
	seq := 0
	s.logTransition(ctx, order.ID, &seq, "create_order", StateCartSnapshot, StateOrderCreated, true, "")

	// ── Création du paiement ──
	if order.TotalAmount <= 0 {
		s.logTransition(ctx, order.ID, &seq, "create_payment", StateOrderCreated, StatePaymentCreated, false, ErrPaymentAmount.Error())
		s.cancelOrder(ctx, order, &seq)
		return nil, ErrPaymentAmount
	}
	payment := &models.Payment{
		ID:          gocql.TimeUUID(),
		UserID:      userID,
		OrderID:     order.ID,
		Amount:      order.TotalAmount,
		Method:      method,
		Status:      models.PaymentPending,
		PaymentDate: time.Now(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		s.logTransition(ctx, order.ID, &seq, "create_payment", StateOrderCreated, StatePaymentCreated, false, err.Error())
		s.cancelOrder(ctx, order, &seq)
		return nil, fmt.Errorf("création paiement: %w", err)
	}
	s.logTransition(ctx, order.ID, &seq, "create_payment", StateOrderCreated, StatePaymentCreated, true, "")

	// ── Autorisation ──
	auth, err := s.gateway.Authorize(ctx, payment)
	if err != nil {
		// Erreur technique de la passerelle : on ne laisse pas un paiement
		// Pending orphelin, il passe Failed et la commande reste Pending.
		s.logTransition(ctx, order.ID, &seq, "authorize", StatePaymentCreated, StatePaymentProcessed, false, err.Error())
		s.failPayment(ctx, payment, &seq)
		return nil, fmt.Errorf("autorisation paiement: %w", err)
	}

	if !auth.Approved {
		// Refus : paiement Failed, commande Pending, panier conservé pour
		// permettre une nouvelle tentative avec les mêmes articles.
		s.logTransition(ctx, order.ID, &seq, "authorize", StatePaymentCreated, StatePaymentProcessed, false, auth.Reason)
		s.failPayment(ctx, payment, &seq)
		s.logTransition(ctx, order.ID, &seq, "finalize", StatePaymentProcessed, StateOrderFinalized, true, "paiement refusé")
		return &Result{Order: order, Payment: payment, Approved: false, Reason: auth.Reason}, nil
	}
	s.logTransition(ctx, order.ID, &seq, "authorize", StatePaymentCreated, StatePaymentProcessed, true, "")

	// ── Réservation du stock : décrément conditionnel ligne par ligne ──
	if err := s.reserveStock(ctx, order, &seq); err != nil {
		s.failPayment(ctx, payment, &seq)
		return nil, err
	}

	// ── Réconciliation : paiement Completed, commande Shipped, panier vidé ──
	if err := s.payments.UpdateStatus(ctx, payment.ID, models.PaymentCompleted); err != nil {
		log.Println("❌ Transition paiement Completed refusée:", err)
		return nil, err
	}
	payment.Status = models.PaymentCompleted
	if err := s.orders.UpdateStatus(ctx, order.ID, models.OrderShipped); err != nil {
		log.Println("❌ Transition commande Shipped refusée:", err)
		return nil, err
	}
	order.Status = models.OrderShipped
	if err := s.carts.Clear(ctx, userID); err != nil {
		log.Println("⚠️ Échec du vidage du panier après paiement:", err)
	}
	s.logTransition(ctx, order.ID, &seq, "finalize", StatePaymentProcessed, StateOrderFinalized, true, "")

	s.sendConfirmation(userID, order)

	return &Result{Order: order, Payment: payment, Approved: true}, nil
}

// CompletePayment force un paiement en Completed (reprise manuelle après un
// refus côté client). Seuls Pending et Completed sont acceptés en entrée ;
// Completed est idempotent. Le panier est vidé dans tous les cas.
func (s *Sequencer) CompletePayment(ctx context.Context, paymentID gocql.UUID) (*models.Payment, error) {
	payment, err := s.payments.ByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	switch payment.Status {
	case models.PaymentCompleted:
		// déjà complété, rien à refaire
	case models.PaymentPending:
		if err := s.payments.UpdateStatus(ctx, payment.ID, models.PaymentCompleted); err != nil {
			return nil, err
		}
		payment.Status = models.PaymentCompleted
		if err := s.orders.UpdateStatus(ctx, payment.OrderID, models.OrderShipped); err != nil && !errors.Is(err, store.ErrInvalidTransition) {
			log.Println("⚠️ Expédition de la commande après complétion manuelle:", err)
		}
	default:
		return nil, store.ErrInvalidTransition
	}

	if err := s.carts.Clear(ctx, payment.UserID); err != nil {
		log.Println("⚠️ Échec du vidage du panier:", err)
	}
	return payment, nil
}

// Transitions rend le journal de la séquence d'une commande, dans l'ordre.
func (s *Sequencer) Transitions(ctx context.Context, orderID gocql.UUID) ([]models.CheckoutTransition, error) {
	return s.transitions.ByOrder(ctx, orderID)
}

// reserveStock décrémente le stock de chaque ligne. Au premier échec, les
// lignes déjà décrémentées sont restaurées.
func (s *Sequencer) reserveStock(ctx context.Context, order *models.Order, seq *int) error {
	for i, item := range order.Items {
		if err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logTransition(ctx, order.ID, seq, "reserve_stock", StatePaymentProcessed, StatePaymentProcessed, false, err.Error())
			for _, done := range order.Items[:i] {
				if rerr := s.products.RestoreStock(ctx, done.ProductID, done.Quantity); rerr != nil {
					log.Println("❌ Restauration de stock échouée pour", done.ProductID, ":", rerr)
				}
				s.invalidateProduct(ctx, done.ProductID)
			}
			s.logTransition(ctx, order.ID, seq, "compensate_stock", StatePaymentProcessed, StatePaymentProcessed, true, "")
			return err
		}
		s.invalidateProduct(ctx, item.ProductID)
	}
	return nil
}

// invalidateProduct purge la fiche produit mise en cache : le stock affiché
// doit refléter le décrément.
func (s *Sequencer) invalidateProduct(ctx context.Context, id gocql.UUID) {
	if s.cache != nil {
		s.cache.InvalidateProduct(ctx, id)
	}
}

// cancelOrder est l'action compensatoire d'un échec avant autorisation.
func (s *Sequencer) cancelOrder(ctx context.Context, order *models.Order, seq *int) {
	if err := s.orders.UpdateStatus(ctx, order.ID, models.OrderCancelled); err != nil {
		log.Println("❌ Annulation compensatoire de la commande échouée:", err)
		return
	}
	order.Status = models.OrderCancelled
	s.logTransition(ctx, order.ID, seq, "compensate_order", StateOrderCreated, StateOrderCreated, true, "commande annulée")
}

func (s *Sequencer) failPayment(ctx context.Context, payment *models.Payment, seq *int) {
	if err := s.payments.UpdateStatus(ctx, payment.ID, models.PaymentFailed); err != nil {
		log.Println("❌ Passage du paiement en Failed échoué:", err)
		return
	}
	payment.Status = models.PaymentFailed
	s.logTransition(ctx, payment.OrderID, seq, "compensate_payment", StatePaymentProcessed, StatePaymentProcessed, true, "paiement marqué Failed")
}

// logTransition journalise avant de rendre la main : le journal est la seule
// trace fiable en cas d'arrêt au milieu de la séquence.
func (s *Sequencer) logTransition(ctx context.Context, orderID gocql.UUID, seq *int, step, from, to string, ok bool, detail string) {
	*seq++
	t := models.CheckoutTransition{
		OrderID:   orderID,
		Seq:       *seq,
		Step:      step,
		FromState: from,
		ToState:   to,
		OK:        ok,
		Detail:    detail,
		Timestamp: time.Now(),
	}
	if err := s.transitions.Append(ctx, t); err != nil {
		log.Println("❌ Écriture du journal de transitions échouée:", err)
	}
}

func (s *Sequencer) sendConfirmation(userID gocql.UUID, order *models.Order) {
	if s.mailer == nil {
		return
	}
	go func() {
		user, err := s.users.ByID(context.Background(), userID)
		if err != nil {
			log.Println("⚠️ Utilisateur introuvable pour l'email de confirmation:", err)
			return
		}
		if err := s.mailer.SendOrderConfirmation(user, order); err != nil {
			log.Println("⚠️ Envoi de l'email de confirmation échoué:", err)
		}
	}()
}
