package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendnest_backend/internal/cart"
	"trendnest_backend/internal/models"
	"trendnest_backend/internal/store"
)

// ─── mocks en mémoire ───

type lineKey struct {
	user    gocql.UUID
	product gocql.UUID
}

type mockCarts struct {
	lines map[lineKey]int
}

func newMockCarts() *mockCarts { return &mockCarts{lines: make(map[lineKey]int)} }

func (m *mockCarts) Lines(_ context.Context, userID gocql.UUID) ([]models.CartLine, error) {
	var out []models.CartLine
	for k, qty := range m.lines {
		if k.user == userID {
			out = append(out, models.CartLine{UserID: k.user, ProductID: k.product, Quantity: qty})
		}
	}
	return out, nil
}

func (m *mockCarts) Line(_ context.Context, userID, productID gocql.UUID) (*models.CartLine, error) {
	qty, ok := m.lines[lineKey{userID, productID}]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &models.CartLine{UserID: userID, ProductID: productID, Quantity: qty}, nil
}

func (m *mockCarts) Upsert(_ context.Context, line models.CartLine) error {
	m.lines[lineKey{line.UserID, line.ProductID}] = line.Quantity
	return nil
}

func (m *mockCarts) Delete(_ context.Context, userID, productID gocql.UUID) error {
	delete(m.lines, lineKey{userID, productID})
	return nil
}

func (m *mockCarts) Clear(_ context.Context, userID gocql.UUID) error {
	for k := range m.lines {
		if k.user == userID {
			delete(m.lines, k)
		}
	}
	return nil
}

type mockProducts struct {
	products map[gocql.UUID]*models.Product
}

func newMockProducts() *mockProducts {
	return &mockProducts{products: make(map[gocql.UUID]*models.Product)}
}

func (m *mockProducts) Create(_ context.Context, p *models.Product) error {
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProducts) ByID(_ context.Context, id gocql.UUID) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProducts) All(_ context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProducts) Categories(_ context.Context) ([]string, error) { return nil, nil }

func (m *mockProducts) DecrementStock(_ context.Context, id gocql.UUID, qty int) error {
	p, ok := m.products[id]
	if !ok {
		return store.ErrNotFound
	}
	if p.Stock < qty {
		return store.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

func (m *mockProducts) RestoreStock(_ context.Context, id gocql.UUID, qty int) error {
	p, ok := m.products[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Stock += qty
	return nil
}

func (m *mockProducts) UpdateRating(_ context.Context, _ gocql.UUID, _ float64, _ int) error {
	return nil
}

type mockOrders struct {
	orders map[gocql.UUID]*models.Order
}

func newMockOrders() *mockOrders { return &mockOrders{orders: make(map[gocql.UUID]*models.Order)} }

func (m *mockOrders) Create(_ context.Context, o *models.Order) error {
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *mockOrders) ByID(_ context.Context, id gocql.UUID) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrders) ByUser(_ context.Context, userID gocql.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrders) UpdateStatus(_ context.Context, id gocql.UUID, to models.OrderStatus) error {
	o, ok := m.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	if !o.Status.CanTransition(to) {
		return store.ErrInvalidTransition
	}
	o.Status = to
	return nil
}

type mockPayments struct {
	payments map[gocql.UUID]*models.Payment
}

func newMockPayments() *mockPayments {
	return &mockPayments{payments: make(map[gocql.UUID]*models.Payment)}
}

func (m *mockPayments) Create(_ context.Context, p *models.Payment) error {
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *mockPayments) ByID(_ context.Context, id gocql.UUID) (*models.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPayments) ByOrder(_ context.Context, orderID gocql.UUID) (*models.Payment, error) {
	for _, p := range m.payments {
		if p.OrderID == orderID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockPayments) UpdateStatus(_ context.Context, id gocql.UUID, to models.PaymentStatus) error {
	p, ok := m.payments[id]
	if !ok {
		return store.ErrNotFound
	}
	if !p.Status.CanTransition(to) {
		return store.ErrInvalidTransition
	}
	p.Status = to
	return nil
}

type mockTransitions struct {
	entries []models.CheckoutTransition
}

func (m *mockTransitions) Append(_ context.Context, t models.CheckoutTransition) error {
	m.entries = append(m.entries, t)
	return nil
}

func (m *mockTransitions) ByOrder(_ context.Context, orderID gocql.UUID) ([]models.CheckoutTransition, error) {
	var out []models.CheckoutTransition
	for _, t := range m.entries {
		if t.OrderID == orderID {
			out = append(out, t)
		}
	}
	return out, nil
}

type mockUsers struct {
	byID map[gocql.UUID]*models.User
}

func newMockUsers() *mockUsers { return &mockUsers{byID: make(map[gocql.UUID]*models.User)} }

func (m *mockUsers) Create(_ context.Context, u *models.User) error {
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *mockUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockUsers) ByID(_ context.Context, id gocql.UUID) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUsers) EmailTaken(_ context.Context, email string) (bool, error) {
	_, err := m.ByEmail(context.Background(), email)
	return err == nil, nil
}

type stubGateway struct {
	result AuthorizationResult
	err    error
	calls  int
}

func (g *stubGateway) Authorize(_ context.Context, _ *models.Payment) (AuthorizationResult, error) {
	g.calls++
	return g.result, g.err
}

type recordingInvalidator struct {
	invalidated []gocql.UUID
}

func (r *recordingInvalidator) InvalidateProduct(_ context.Context, id gocql.UUID) {
	r.invalidated = append(r.invalidated, id)
}

// ─── montage ───

type fixture struct {
	carts       *mockCarts
	products    *mockProducts
	orders      *mockOrders
	payments    *mockPayments
	transitions *mockTransitions
	users       *mockUsers
	gateway     *stubGateway
	cache       *recordingInvalidator
	sequencer   *Sequencer
	userID      gocql.UUID
}

func newFixture() *fixture {
	f := &fixture{
		carts:       newMockCarts(),
		products:    newMockProducts(),
		orders:      newMockOrders(),
		payments:    newMockPayments(),
		transitions: &mockTransitions{},
		users:       newMockUsers(),
		gateway:     &stubGateway{result: AuthorizationResult{Approved: true}},
		cache:       &recordingInvalidator{},
		userID:      gocql.TimeUUID(),
	}
	cartSvc := cart.NewService(f.carts, f.products, nil)
	f.sequencer = NewSequencer(f.orders, f.payments, f.products, f.transitions, f.users, cartSvc, f.gateway, nil, f.cache)
	f.users.byID[f.userID] = &models.User{ID: f.userID, Username: "alice", Email: "alice@trendnest.shop"}
	return f
}

func (f *fixture) seedProduct(price float64, stock int) gocql.UUID {
	id := gocql.TimeUUID()
	f.products.products[id] = &models.Product{ID: id, Name: "Produit", Price: price, Stock: stock}
	return id
}

func (f *fixture) addToCart(t *testing.T, productID gocql.UUID, qty int) {
	t.Helper()
	f.carts.lines[lineKey{f.userID, productID}] = qty
}

func (f *fixture) singlePayment(t *testing.T) *models.Payment {
	t.Helper()
	require.Len(t, f.payments.payments, 1)
	for _, p := range f.payments.payments {
		return p
	}
	return nil
}

// ─── scénarios ───

func TestCheckoutEmptyCartWritesNothing(t *testing.T) {
	f := newFixture()

	_, err := f.sequencer.Checkout(context.Background(), f.userID, "1 rue de la Paix", models.MethodCreditCard)
	assert.ErrorIs(t, err, ErrEmptyCart)

	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.payments.payments)
	assert.Empty(t, f.transitions.entries)
	assert.Zero(t, f.gateway.calls)
}

func TestCheckoutInputValidation(t *testing.T) {
	f := newFixture()
	productID := f.seedProduct(10, 5)
	f.addToCart(t, productID, 1)

	_, err := f.sequencer.Checkout(context.Background(), f.userID, "", models.MethodCreditCard)
	assert.ErrorIs(t, err, ErrMissingAddress)

	_, err = f.sequencer.Checkout(context.Background(), f.userID, "1 rue de la Paix", models.PaymentMethod("bitcoin"))
	assert.ErrorIs(t, err, ErrInvalidMethod)

	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.payments.payments)
}

func TestCheckoutHappyPath(t *testing.T) {
	f := newFixture()
	productID := f.seedProduct(99.99, 50)
	f.addToCart(t, productID, 2)

	result, err := f.sequencer.Checkout(context.Background(), f.userID, "1 rue de la Paix", models.MethodCreditCard)
	require.NoError(t, err)
	require.True(t, result.Approved)

	// commande expédiée, prix figés, total exact
	order := f.orders.orders[result.Order.ID]
	require.NotNil(t, order)
	assert.Equal(t, models.OrderShipped, order.Status)
	assert.InDelta(t, 199.98, order.TotalAmount, 0.001)

	// paiement complété au même montant
	payment := f.singlePayment(t)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.InDelta(t, 199.98, payment.Amount, 0.001)
	assert.Equal(t, models.MethodCreditCard, payment.Method)
	assert.Equal(t, order.ID, payment.OrderID)

	// panier vidé, stock décrémenté, fiche produit purgée du cache
	assert.Empty(t, f.carts.lines)
	assert.Equal(t, 48, f.products.products[productID].Stock)
	assert.Contains(t, f.cache.invalidated, productID)
}

func TestCheckoutTransitionLogOrdered(t *testing.T) {
	f := newFixture()
	productID := f.seedProduct(25, 10)
	f.addToCart(t, productID, 1)

	result, err := f.sequencer.Checkout(context.Background(), f.userID, "1 rue de la Paix", models.MethodPaypal)
	require.NoError(t, err)

	log, err := f.sequencer.Transitions(context.Background(), result.Order.ID)
	require.NoError(t, err)
	require.Len(t, log, 4)

	steps := make([]string, len(log))
	for i, entry := range log {
		steps[i] = entry.Step
		assert.Equal(t, i+1, entry.Seq)
		assert.True(t, entry.OK)
	}
	assert.Equal(t, []string{"create_order", "create_payment", "authorize", "finalize"}, steps)

	assert.Equal(t, StateCartSnapshot, log[0].FromState)
	assert.Equal(t, StateOrderFinalized, log[3].ToState)
}

func TestCheckoutDeclinedKeepsCart(t *testing.T) {
	f := newFixture()
	f.gateway.result = AuthorizationResult{Approved: false, Reason: "fonds insuffisants"}
	productID := f.seedProduct(99.99, 50)
	f.addToCart(t, productID, 2)

	result, err := f.sequencer.Checkout(context.Background(), f.userID, "1 rue de la Paix", models.MethodCreditCard)
	require.NoError(t, err)
	require.False(t, result.Approved)
	assert.Equal(t, "fonds insuffisants", result.Reason)

	// commande laissée Pending, paiement Failed
	order := f.orders.orders[result.Order.ID]
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentFailed, f.singlePayment(t).Status)

	// panier conservé pour permettre une nouvelle tentative, stock intact
	assert.Equal(t, 2, f.carts.lines[lineKey{f.userID, productID}])
	assert.Equal(t, 50, f.products.products[productID].Stock)
}

func TestCheckoutGatewayErrorCompensates(t *testing.T) {
	f := newFixture()
	f.gateway.err = errors.New("timeout passerelle")
	productID := f.seedProduct(10, 5)
	f.addToCart(t, productID, 1)

	_, err := f.sequencer.Checkout(context.Background(), f.userID, "1 rue de la Paix", models.MethodCreditCard)
	require.Error(t, err)

	// pas de paiement Pending orphelin
	assert.Equal(t, models.PaymentFailed, f.singlePayment(t).Status)
	for _, o := range f.orders.orders {
		assert.Equal(t, models.OrderPending, o.Status)
	}
	assert.Equal(t, 1, f.carts.lines[lineKey{f.userID, productID}])
}

func TestCheckoutStockShortageCompensates(t *testing.T) {
	f := newFixture()
	okProduct := f.seedProduct(10, 100)
	scarce := f.seedProduct(20, 1)
	f.addToCart(t, okProduct, 2)
	f.addToCart(t, scarce, 3) // la quantité a dépassé le stock depuis l'ajout au panier

	_, err := f.sequencer.Checkout(context.Background(), f.userID, "1 rue de la Paix", models.MethodCreditCard)
	assert.ErrorIs(t, err, store.ErrInsufficientStock)

	// les décréments déjà appliqués sont restaurés
	assert.Equal(t, 100, f.products.products[okProduct].Stock)
	assert.Equal(t, 1, f.products.products[scarce].Stock)

	// paiement Failed, commande Pending, panier conservé
	assert.Equal(t, models.PaymentFailed, f.singlePayment(t).Status)
	assert.Len(t, f.carts.lines, 2)
}

func TestCheckoutFreezesPrices(t *testing.T) {
	f := newFixture()
	productID := f.seedProduct(99.99, 50)
	f.addToCart(t, productID, 2)

	result, err := f.sequencer.Checkout(context.Background(), f.userID, "1 rue de la Paix", models.MethodCreditCard)
	require.NoError(t, err)

	// une hausse de prix catalogue ne touche pas la commande passée
	f.products.products[productID].Price = 149.99

	order, err := f.orders.ByID(context.Background(), result.Order.ID)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.InDelta(t, 99.99, order.Items[0].Price, 0.001)
	assert.InDelta(t, 199.98, order.TotalAmount, 0.001)
}

func TestCompletePayment(t *testing.T) {
	f := newFixture()
	f.gateway.result = AuthorizationResult{Approved: false, Reason: "refusé"}
	productID := f.seedProduct(30, 10)
	f.addToCart(t, productID, 1)

	result, err := f.sequencer.Checkout(context.Background(), f.userID, "1 rue de la Paix", models.MethodCreditCard)
	require.NoError(t, err)
	require.False(t, result.Approved)

	// le paiement refusé est Failed : la reprise manuelle est interdite
	_, err = f.sequencer.CompletePayment(context.Background(), result.Payment.ID)
	assert.ErrorIs(t, err, store.ErrInvalidTransition)
}

func TestCompletePaymentFromPending(t *testing.T) {
	f := newFixture()
	orderID := gocql.TimeUUID()
	paymentID := gocql.TimeUUID()
	productID := f.seedProduct(10, 5)
	f.addToCart(t, productID, 1)

	f.orders.orders[orderID] = &models.Order{ID: orderID, UserID: f.userID, Status: models.OrderPending}
	f.payments.payments[paymentID] = &models.Payment{
		ID: paymentID, UserID: f.userID, OrderID: orderID,
		Amount: 10, Status: models.PaymentPending,
	}

	payment, err := f.sequencer.CompletePayment(context.Background(), paymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.Equal(t, models.OrderShipped, f.orders.orders[orderID].Status)
	assert.Empty(t, f.carts.lines)

	// rejouer la complétion est idempotent
	_, err = f.sequencer.CompletePayment(context.Background(), paymentID)
	assert.NoError(t, err)
}

func TestSimulatedGateway(t *testing.T) {
	g := SimulatedGateway{}

	res, err := g.Authorize(context.Background(), &models.Payment{Amount: 42})
	require.NoError(t, err)
	assert.True(t, res.Approved)

	res, err = g.Authorize(context.Background(), &models.Payment{Amount: 0})
	require.NoError(t, err)
	assert.False(t, res.Approved)
}
