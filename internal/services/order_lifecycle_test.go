package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"okeanmarket/internal/domain"
	"okeanmarket/internal/session"
)

func TestAcceptClaimsExactlyOnce(t *testing.T) {
	env := newEnv(t)
	o := placeOrder(t, env, shopper("sess-a", 10))

	a, b := courier("st-aziz"), courier("st-timur")

	got, err := env.orders.Accept(context.Background(), a, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusPending || got.CourierID == nil || *got.CourierID != "st-aziz" {
		t.Fatalf("claim result: %+v", got)
	}
	if got.AcceptedAt == nil {
		t.Fatal("accepted_at not set")
	}

	// second claim loses
	_, err = env.orders.Accept(context.Background(), b, o.ID)
	if !errors.Is(err, domain.ErrAlreadyClaimed) {
		t.Fatalf("want ErrAlreadyClaimed, got %v", err)
	}

	// the row still holds the first courier
	cur, err := env.orderRepo.Get(o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cur.CourierID == nil || *cur.CourierID != "st-aziz" {
		t.Fatalf("courier reassigned: %+v", cur)
	}
}

func TestAcceptRace(t *testing.T) {
	env := newEnv(t)
	o := placeOrder(t, env, shopper("sess-race", 11))

	couriers := []string{"st-aziz", "st-timur"}
	errs := make([]error, len(couriers))

	var wg sync.WaitGroup
	for i, id := range couriers {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = env.orders.Accept(context.Background(), courier(id), o.ID)
		}(i, id)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrAlreadyClaimed):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || losses != 1 {
		t.Fatalf("want exactly one winner, got wins=%d losses=%d", wins, losses)
	}

	cur, err := env.orderRepo.Get(o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cur.Status != domain.StatusPending || cur.CourierID == nil {
		t.Fatalf("order after race: %+v", cur)
	}
}

func TestAcceptNotFound(t *testing.T) {
	env := newEnv(t)
	_, err := env.orders.Accept(context.Background(), courier("st-aziz"), "no-such-order")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestAcceptRequiresCourier(t *testing.T) {
	env := newEnv(t)
	o := placeOrder(t, env, shopper("sess-role", 12))
	_, err := env.orders.Accept(context.Background(), shopper("sess-role", 12), o.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

func TestCompletePaysCashbackOnce(t *testing.T) {
	env := newEnv(t)
	sctx := shopper("sess-cb", 500)

	// order totalling 250000: 20 x milk-1l @12500
	for i := 0; i < 20; i++ {
		if err := env.carts.Add(sctx.SID, "milk-1l"); err != nil {
			t.Fatal(err)
		}
	}
	o, err := env.orders.Create(context.Background(), sctx, checkout())
	if err != nil {
		t.Fatal(err)
	}
	if !o.TotalPrice.Equal(d("250000")) {
		t.Fatalf("total %s, want 250000", o.TotalPrice)
	}

	a := courier("st-aziz")
	if _, err := env.orders.Accept(context.Background(), a, o.ID); err != nil {
		t.Fatal(err)
	}
	done, err := env.orders.Complete(context.Background(), a, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != domain.StatusDelivered || done.DeliveredAt == nil {
		t.Fatalf("completed order: %+v", done)
	}

	pts, err := env.profiles.Points(500)
	if err != nil {
		t.Fatal(err)
	}
	if pts != 2500 {
		t.Fatalf("cashback %d, want floor(250000*0.01)=2500", pts)
	}

	// completing again must fail and must not double-pay
	_, err = env.orders.Complete(context.Background(), a, o.ID)
	var te *domain.TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("second complete: want TransitionError, got %v", err)
	}
	if pts, _ = env.profiles.Points(500); pts != 2500 {
		t.Fatalf("cashback paid twice: %d", pts)
	}
}

func TestCompleteWrongCourier(t *testing.T) {
	env := newEnv(t)
	o := placeOrder(t, env, shopper("sess-wc", 13))

	if _, err := env.orders.Accept(context.Background(), courier("st-aziz"), o.ID); err != nil {
		t.Fatal(err)
	}
	_, err := env.orders.Complete(context.Background(), courier("st-timur"), o.ID)
	if !errors.Is(err, domain.ErrNotCourier) {
		t.Fatalf("want ErrNotCourier, got %v", err)
	}
}

func TestCompleteNewOrderRejected(t *testing.T) {
	env := newEnv(t)
	o := placeOrder(t, env, shopper("sess-cn", 14))

	_, err := env.orders.Complete(context.Background(), admin(), o.ID)
	var te *domain.TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("new -> delivered must be rejected, got %v", err)
	}
}

func TestGuestOrderPaysNoCashback(t *testing.T) {
	env := newEnv(t)
	sctx := session.Context{SID: "sess-nocb"} // no user id
	if err := env.carts.Add(sctx.SID, "milk-1l"); err != nil {
		t.Fatal(err)
	}
	o, err := env.orders.Create(context.Background(), sctx, checkout())
	if err != nil {
		t.Fatal(err)
	}

	a := courier("st-aziz")
	if _, err := env.orders.Accept(context.Background(), a, o.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := env.orders.Complete(context.Background(), a, o.ID); err != nil {
		t.Fatal(err)
	}

	var n int
	if err := env.db.Get(&n, `SELECT COUNT(*) FROM profiles`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("guest delivery must not create a points balance, profiles=%d", n)
	}
}

func TestCancelFromNewAndPending(t *testing.T) {
	env := newEnv(t)

	// cancel a new order (admin)
	o1 := placeOrder(t, env, shopper("sess-c1", 15))
	got, err := env.orders.Cancel(context.Background(), admin(), o1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusCanceled {
		t.Fatalf("status %s", got.Status)
	}

	// cancel a pending order (assigned courier); courier stays on the row
	o2 := placeOrder(t, env, shopper("sess-c2", 16))
	a := courier("st-aziz")
	if _, err := env.orders.Accept(context.Background(), a, o2.ID); err != nil {
		t.Fatal(err)
	}
	got, err = env.orders.Cancel(context.Background(), a, o2.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusCanceled || got.CourierID == nil {
		t.Fatalf("canceled pending: %+v", got)
	}

	// canceled is terminal
	_, err = env.orders.Cancel(context.Background(), admin(), o1.ID)
	var te *domain.TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("cancel of canceled: want TransitionError, got %v", err)
	}
}

func TestCancelByUnassignedCourier(t *testing.T) {
	env := newEnv(t)
	o := placeOrder(t, env, shopper("sess-c3", 17))
	if _, err := env.orders.Accept(context.Background(), courier("st-aziz"), o.ID); err != nil {
		t.Fatal(err)
	}
	_, err := env.orders.Cancel(context.Background(), courier("st-timur"), o.ID)
	if !errors.Is(err, domain.ErrNotCourier) {
		t.Fatalf("want ErrNotCourier, got %v", err)
	}
}

func TestDeliveredIsTerminal(t *testing.T) {
	env := newEnv(t)
	o := placeOrder(t, env, shopper("sess-t", 18))
	a := courier("st-aziz")
	if _, err := env.orders.Accept(context.Background(), a, o.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := env.orders.Complete(context.Background(), a, o.ID); err != nil {
		t.Fatal(err)
	}

	var te *domain.TransitionError
	if _, err := env.orders.Cancel(context.Background(), admin(), o.ID); !errors.As(err, &te) {
		t.Fatalf("delivered -> canceled: want TransitionError, got %v", err)
	}
}

func TestAdminSetStatus(t *testing.T) {
	env := newEnv(t)
	o := placeOrder(t, env, shopper("sess-admin", 19))

	// pending is reserved for the claim operation
	_, err := env.orders.SetStatus(context.Background(), admin(), o.ID, domain.StatusPending)
	var te *domain.TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("admin forcing pending: want TransitionError, got %v", err)
	}

	// canceled via the dropdown works
	got, err := env.orders.SetStatus(context.Background(), admin(), o.ID, domain.StatusCanceled)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusCanceled {
		t.Fatalf("status %s", got.Status)
	}

	// non-admins are rejected
	_, err = env.orders.SetStatus(context.Background(), courier("st-aziz"), o.ID, domain.StatusCanceled)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

func TestProjections(t *testing.T) {
	env := newEnv(t)
	a := courier("st-aziz")

	o1 := placeOrder(t, env, shopper("sess-p1", 20))
	o2 := placeOrder(t, env, shopper("sess-p2", 21))

	pool, err := env.orders.Pool(a)
	if err != nil {
		t.Fatal(err)
	}
	if len(pool) != 2 {
		t.Fatalf("pool size %d, want 2", len(pool))
	}

	if _, err := env.orders.Accept(context.Background(), a, o1.ID); err != nil {
		t.Fatal(err)
	}

	pool, _ = env.orders.Pool(a)
	if len(pool) != 1 || pool[0].ID != o2.ID {
		t.Fatalf("pool after claim: %+v", pool)
	}

	active, err := env.orders.Active(a)
	if err != nil {
		t.Fatal(err)
	}
	if active.ID != o1.ID {
		t.Fatalf("active %s, want %s", active.ID, o1.ID)
	}

	if _, err := env.orders.Complete(context.Background(), a, o1.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := env.orders.Active(a); !errors.Is(err, domain.ErrNotFound) {
		t.Fatal("active after delivery should be ErrNotFound")
	}

	hist, err := env.orders.History(a)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 1 || hist[0].ID != o1.ID {
		t.Fatalf("history: %+v", hist)
	}

	stats, err := env.orders.CourierStats(admin())
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range stats {
		if s.CourierID == "st-aziz" {
			if s.AcceptedCount != 1 || s.DeliveredCount != 1 {
				t.Fatalf("stats: %+v", s)
			}
		}
	}
}

func TestShopperOrderVisibility(t *testing.T) {
	env := newEnv(t)
	o := placeOrder(t, env, shopper("sess-v1", 30))

	// owner sees it
	if _, err := env.orders.Get(shopper("sess-v1", 30), o.ID); err != nil {
		t.Fatal(err)
	}
	// another shopper gets not-found, not forbidden (no existence leak)
	if _, err := env.orders.Get(shopper("sess-v2", 31), o.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	// staff see everything
	if _, err := env.orders.Get(admin(), o.ID); err != nil {
		t.Fatal(err)
	}
}
