package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"okeanmarket/internal/domain"
	"okeanmarket/internal/feed"
	"okeanmarket/internal/notify"
	"okeanmarket/internal/repos"
	"okeanmarket/internal/services"
	"okeanmarket/internal/session"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// one in-memory database, not one per pooled connection
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type testEnv struct {
	db        *sqlx.DB
	carts     *services.CartService
	orders    *services.OrderService
	orderRepo *repos.OrderRepo
	profiles  *repos.ProfileRepo
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := memdb(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	return &testEnv{
		db:        db,
		carts:     services.NewCartService(cartRepo, prodRepo, services.DefaultThresholdFee()),
		orders:    services.NewOrderService(cartRepo, orderRepo, notify.Nop{}, feed.Nop{}),
		orderRepo: orderRepo,
		profiles:  repos.NewProfileRepo(db),
	}
}

func shopper(sid string, userID int64) session.Context {
	return session.Context{SID: sid, UserID: &userID}
}

func courier(id string) session.Context {
	return session.Context{
		SID:   "sid-" + id,
		Staff: &domain.StaffUser{ID: id, Role: domain.RoleCourier},
	}
}

func admin() session.Context {
	return session.Context{
		SID:   "sid-admin",
		Staff: &domain.StaffUser{ID: "st-admin", Role: domain.RoleAdmin},
	}
}

func checkout() services.CheckoutInput {
	return services.CheckoutInput{
		Address: "Toshkent, Chilonzor 5",
		Phone:   "+998901234567",
	}
}

// placeOrder fills a cart and checks out, returning the created order.
func placeOrder(t *testing.T, env *testEnv, sctx session.Context) domain.Order {
	t.Helper()
	if err := env.carts.Add(sctx.SID, "milk-1l"); err != nil {
		t.Fatal(err)
	}
	o, err := env.orders.Create(context.Background(), sctx, checkout())
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestCartStepSemantics(t *testing.T) {
	env := newEnv(t)
	sid := "sess-steps"

	// apple-red has step 0.5
	if err := env.carts.Add(sid, "apple-red"); err != nil {
		t.Fatal(err)
	}
	cv, err := env.carts.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 || !cv.Items[0].Qty.Equal(d("0.5")) {
		t.Fatalf("add should start at one step, got %+v", cv.Items)
	}

	if err := env.carts.Increase(sid, "apple-red"); err != nil {
		t.Fatal(err)
	}
	cv, _ = env.carts.View(sid)
	if !cv.Items[0].Qty.Equal(d("1")) {
		t.Fatalf("increase: qty %s, want 1", cv.Items[0].Qty)
	}

	// decrease down to the floor: one step, never zero, line stays
	if err := env.carts.Decrease(sid, "apple-red"); err != nil {
		t.Fatal(err)
	}
	if err := env.carts.Decrease(sid, "apple-red"); err != nil {
		t.Fatal(err)
	}
	cv, _ = env.carts.View(sid)
	if len(cv.Items) != 1 || !cv.Items[0].Qty.Equal(d("0.5")) {
		t.Fatalf("decrease must clamp at one step, got %+v", cv.Items)
	}
}

func TestCartSetQuantity(t *testing.T) {
	env := newEnv(t)
	sid := "sess-setqty"

	// writes to an absent line create it
	if err := env.carts.SetQuantity(sid, "banana", d("2.5")); err != nil {
		t.Fatal(err)
	}
	cv, err := env.carts.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 || !cv.Items[0].Qty.Equal(d("2.5")) {
		t.Fatalf("set on absent line: %+v", cv.Items)
	}

	// exact overwrite
	if err := env.carts.SetQuantity(sid, "banana", d("1")); err != nil {
		t.Fatal(err)
	}
	cv, _ = env.carts.View(sid)
	if !cv.Items[0].Qty.Equal(d("1")) {
		t.Fatalf("overwrite: qty %s, want 1", cv.Items[0].Qty)
	}

	// below one step clamps up to the step (banana step 0.5)
	if err := env.carts.SetQuantity(sid, "banana", d("0.1")); err != nil {
		t.Fatal(err)
	}
	cv, _ = env.carts.View(sid)
	if !cv.Items[0].Qty.Equal(d("0.5")) {
		t.Fatalf("clamp: qty %s, want 0.5", cv.Items[0].Qty)
	}
}

func TestCartTotalsUseDiscountedPrice(t *testing.T) {
	env := newEnv(t)
	sid := "sess-disc"

	// apple-red: price 18000, discount 15000, step 0.5 -> 0.5 kg = 7500
	if err := env.carts.Add(sid, "apple-red"); err != nil {
		t.Fatal(err)
	}
	cv, err := env.carts.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if !cv.Totals.Subtotal.Equal(d("7500")) {
		t.Fatalf("subtotal %s, want 7500", cv.Totals.Subtotal)
	}
	if !cv.Totals.DeliveryFee.Equal(d("15000")) {
		t.Fatalf("fee %s, want 15000 below threshold", cv.Totals.DeliveryFee)
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	env := newEnv(t)
	_, err := env.orders.Create(context.Background(), shopper("sess-empty", 77), checkout())
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart, got %v", err)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	env := newEnv(t)
	sctx := shopper("sess-val", 77)
	if err := env.carts.Add(sctx.SID, "milk-1l"); err != nil {
		t.Fatal(err)
	}

	_, err := env.orders.Create(context.Background(), sctx, services.CheckoutInput{Phone: "+998901234567"})
	if !domain.IsValidation(err) {
		t.Fatalf("missing address: want validation error, got %v", err)
	}
	_, err = env.orders.Create(context.Background(), sctx, services.CheckoutInput{Address: "Chilonzor", Phone: "12345"})
	if !domain.IsValidation(err) {
		t.Fatalf("bad phone: want validation error, got %v", err)
	}
}

func TestCreateOrderFreezesPrices(t *testing.T) {
	env := newEnv(t)
	sctx := shopper("sess-freeze", 42)

	o := placeOrder(t, env, sctx) // milk-1l: discounted 12500, step 1

	if o.Status != domain.StatusNew {
		t.Fatalf("new order status %s", o.Status)
	}
	if len(o.Items) != 1 || o.Items[0].PriceAtTime != 12500 {
		t.Fatalf("price_at_time: %+v", o.Items)
	}
	if !o.TotalPrice.Equal(d("12500")) {
		t.Fatalf("total %s, want 12500 (no delivery fee in order total)", o.TotalPrice)
	}

	// catalog price changes must not touch historical orders
	if _, err := env.db.Exec(`UPDATE products SET price = 99000, discount_price = NULL WHERE id = 'milk-1l'`); err != nil {
		t.Fatal(err)
	}
	got, err := env.orderRepo.Get(o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Items[0].PriceAtTime != 12500 || !got.TotalPrice.Equal(d("12500")) {
		t.Fatalf("order mutated by catalog edit: %+v", got)
	}

	// checkout clears the cart
	cv, err := env.carts.View(sctx.SID)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 0 {
		t.Fatalf("cart not cleared: %+v", cv.Items)
	}
}

func TestGuestOrderHasNoUser(t *testing.T) {
	env := newEnv(t)
	sctx := session.Context{SID: "sess-guest"}
	if err := env.carts.Add(sctx.SID, "milk-1l"); err != nil {
		t.Fatal(err)
	}
	o, err := env.orders.Create(context.Background(), sctx, checkout())
	if err != nil {
		t.Fatal(err)
	}
	if o.UserID != nil {
		t.Fatalf("guest order should have nil user id, got %v", *o.UserID)
	}
}

func TestAddUnavailableProduct(t *testing.T) {
	env := newEnv(t)
	if _, err := env.db.Exec(`UPDATE products SET is_available = 0 WHERE id = 'cola-15'`); err != nil {
		t.Fatal(err)
	}
	err := env.carts.Add("sess-unavail", "cola-15")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}
