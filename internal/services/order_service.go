package services

import (
	"context"
	"time"

	"okeanmarket/internal/domain"
	"okeanmarket/internal/feed"
	applog "okeanmarket/internal/log"
	"okeanmarket/internal/notify"
	"okeanmarket/internal/repos"
	"okeanmarket/internal/session"
	"okeanmarket/internal/validate"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderService owns the order lifecycle: creation from a cart, the courier
// claim, delivery completion with cashback, cancellation, and the read
// projections the courier/admin boards use.
type OrderService struct {
	Carts    *repos.CartRepo
	Orders   *repos.OrderRepo
	Notifier notify.Notifier
	Feed     feed.Publisher
}

func NewOrderService(carts *repos.CartRepo, orders *repos.OrderRepo, n notify.Notifier, f feed.Publisher) *OrderService {
	return &OrderService{Carts: carts, Orders: orders, Notifier: n, Feed: f}
}

type CheckoutInput struct {
	Address string
	Lat     *float64
	Lng     *float64
	Phone   string
	Comment string
}

// Create places an order from the session's cart. Each item's price is frozen
// at the current effective price; the order total is the item sum only — the
// delivery fee stays a cart-presentation concern. The cart is cleared on
// success and the staff channel notified best-effort.
func (s *OrderService) Create(ctx context.Context, sctx session.Context, in CheckoutInput) (domain.Order, error) {
	address, ok := validate.Address(in.Address)
	if !ok {
		return domain.Order{}, domain.Invalid("address", "required, at most 300 characters")
	}
	phone, ok := validate.Phone(in.Phone)
	if !ok {
		return domain.Order{}, domain.Invalid("phone", "expected +998XXXXXXXXX")
	}

	cartID, err := s.Carts.EnsureCart(sctx.SID)
	if err != nil {
		return domain.Order{}, err
	}
	lines, err := s.Carts.Lines(cartID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(lines) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}

	o := domain.Order{
		ID:          uuid.NewString(),
		UserID:      sctx.UserID,
		Status:      domain.StatusNew,
		AddressText: address,
		Lat:         in.Lat,
		Lng:         in.Lng,
		Phone:       phone,
		Comment:     in.Comment,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	total := decimal.Zero
	for _, l := range lines {
		unit := EffectivePrice(l.Price, l.DiscountPrice)
		o.Items = append(o.Items, domain.OrderItem{
			OrderID:     o.ID,
			ProductID:   l.ProductID,
			Name:        l.Name,
			Quantity:    l.Qty,
			Unit:        l.Unit,
			PriceAtTime: unit,
		})
		total = total.Add(decimal.NewFromInt(unit).Mul(l.Qty))
	}
	o.TotalPrice = total

	if err := s.Orders.Create(&o); err != nil {
		return domain.Order{}, err
	}
	if err := s.Carts.Clear(cartID); err != nil {
		applog.Error(nil, "order.cart_clear", err, map[string]any{"order_id": o.ID})
	}

	s.notifyStaff(o)
	s.publish(ctx, feed.EventCreated, o.ID)
	return o, nil
}

// notifyStaff runs off the request path; a dead notifier must not delay or
// fail checkout.
func (s *OrderService) notifyStaff(o domain.Order) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := s.Notifier.Notify(ctx, notify.OrderSummary{
			OrderID: o.ID,
			Total:   o.TotalPrice,
			Phone:   o.Phone,
			Address: o.AddressText,
		})
		if err != nil {
			applog.Error(nil, "order.notify", err, map[string]any{"order_id": o.ID})
		}
	}()
}

func (s *OrderService) publish(ctx context.Context, event, orderID string) {
	if err := s.Feed.Publish(ctx, event, orderID); err != nil {
		applog.Error(nil, "feed.publish", err, map[string]any{"event": event, "order_id": orderID})
	}
}

// Accept claims a new, unassigned order for the calling courier. Exactly one
// of two racing couriers wins; the loser gets ErrAlreadyClaimed.
func (s *OrderService) Accept(ctx context.Context, sctx session.Context, orderID string) (domain.Order, error) {
	if !sctx.IsCourier() {
		return domain.Order{}, domain.ErrForbidden
	}
	o, err := s.Orders.Claim(orderID, sctx.CourierID())
	if err != nil {
		return domain.Order{}, err
	}
	s.publish(ctx, feed.EventAccepted, o.ID)
	return o, nil
}

// Complete marks the caller's pending order delivered and credits cashback
// once. Admins may complete any pending order; couriers only the one they
// hold.
func (s *OrderService) Complete(ctx context.Context, sctx session.Context, orderID string) (domain.Order, error) {
	var o domain.Order
	var err error
	switch {
	case sctx.IsAdmin():
		o, err = s.Orders.Complete(orderID, "")
	case sctx.IsCourier():
		o, err = s.Orders.Complete(orderID, sctx.CourierID())
	default:
		return domain.Order{}, domain.ErrForbidden
	}
	if err != nil {
		return domain.Order{}, err
	}
	s.publish(ctx, feed.EventDelivered, o.ID)
	return o, nil
}

// Cancel moves a live order to canceled. Admins may cancel any new or pending
// order; couriers only the one assigned to them.
func (s *OrderService) Cancel(ctx context.Context, sctx session.Context, orderID string) (domain.Order, error) {
	switch {
	case sctx.IsAdmin():
	case sctx.IsCourier():
		cur, err := s.Orders.Get(orderID)
		if err != nil {
			return domain.Order{}, err
		}
		if cur.CourierID == nil || *cur.CourierID != sctx.CourierID() {
			return domain.Order{}, domain.ErrNotCourier
		}
	default:
		return domain.Order{}, domain.ErrForbidden
	}

	o, err := s.Orders.Cancel(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	s.publish(ctx, feed.EventCanceled, o.ID)
	return o, nil
}

// SetStatus is the admin board's status dropdown. It rides the same
// conditional updates as the courier flow, so forcing "delivered" still pays
// cashback at most once and terminal orders stay terminal. Moving an order to
// "pending" is the claim operation's job and is rejected here.
func (s *OrderService) SetStatus(ctx context.Context, sctx session.Context, orderID string, target domain.OrderStatus) (domain.Order, error) {
	if !sctx.IsAdmin() {
		return domain.Order{}, domain.ErrForbidden
	}
	if !domain.IsValidStatus(target) {
		return domain.Order{}, domain.Invalid("status", "unknown status")
	}
	switch target {
	case domain.StatusDelivered:
		o, err := s.Orders.Complete(orderID, "")
		if err != nil {
			return domain.Order{}, err
		}
		s.publish(ctx, feed.EventDelivered, o.ID)
		return o, nil
	case domain.StatusCanceled:
		o, err := s.Orders.Cancel(orderID)
		if err != nil {
			return domain.Order{}, err
		}
		s.publish(ctx, feed.EventCanceled, o.ID)
		return o, nil
	default:
		cur, err := s.Orders.Get(orderID)
		if err != nil {
			return domain.Order{}, err
		}
		return domain.Order{}, &domain.TransitionError{OrderID: orderID, From: cur.Status, To: target}
	}
}

// ---------- Read projections ----------

func (s *OrderService) Get(sctx session.Context, orderID string) (domain.Order, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	// Shoppers only see their own orders; staff see everything.
	if sctx.Staff == nil {
		if o.UserID == nil || sctx.UserID == nil || *o.UserID != *sctx.UserID {
			return domain.Order{}, domain.ErrNotFound
		}
	}
	return o, nil
}

func (s *OrderService) Pool(sctx session.Context) ([]domain.Order, error) {
	if sctx.Staff == nil {
		return nil, domain.ErrForbidden
	}
	return s.Orders.Available()
}

func (s *OrderService) Active(sctx session.Context) (domain.Order, error) {
	if !sctx.IsCourier() {
		return domain.Order{}, domain.ErrForbidden
	}
	return s.Orders.Active(sctx.CourierID())
}

func (s *OrderService) History(sctx session.Context) ([]domain.Order, error) {
	if !sctx.IsCourier() {
		return nil, domain.ErrForbidden
	}
	return s.Orders.History(sctx.CourierID())
}

func (s *OrderService) ListForUser(sctx session.Context) ([]domain.Order, error) {
	if sctx.UserID == nil {
		return []domain.Order{}, nil
	}
	return s.Orders.ListByUser(*sctx.UserID)
}

func (s *OrderService) ListLatest(sctx session.Context, limit int) ([]domain.Order, error) {
	if !sctx.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.Orders.ListLatest(limit)
}

func (s *OrderService) CourierStats(sctx session.Context) ([]domain.CourierStats, error) {
	if !sctx.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.Orders.CourierStats()
}
