package api

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/safar/nava-store/internal/database"
	"github.com/safar/nava-store/internal/models"
	"github.com/safar/nava-store/internal/store"
)

type fakeProducts struct {
	mu    sync.Mutex
	items map[int64]models.Product
	next  int64
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{items: map[int64]models.Product{}}
	for _, p := range products {
		f.Create(context.Background(), &p)
	}
	return f
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	p.ID = f.next
	p.Version = 1
	f.items[p.ID] = *p
	return nil
}

func (f *fakeProducts) Get(_ context.Context, id int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, database.ErrProductNotFound
	}
	return &p, nil
}

func (f *fakeProducts) Update(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[p.ID]; !ok {
		return database.ErrProductNotFound
	}
	p.Version++
	f.items[p.ID] = *p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return database.ErrProductNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProducts) List(_ context.Context, filter store.ProductFilter) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for id := int64(1); id <= f.next; id++ {
		p, ok := f.items[id]
		if !ok {
			continue
		}
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) ListPage(ctx context.Context, page, pageSize int) (*store.OffsetPage[models.Product], error) {
	items, _ := f.List(ctx, store.ProductFilter{})
	return &store.OffsetPage[models.Product]{Items: items, Total: int64(len(items)), Page: page, PageSize: pageSize, TotalPages: 1}, nil
}

func (f *fakeProducts) Count(ctx context.Context) (int64, error) {
	items, _ := f.List(ctx, store.ProductFilter{})
	return int64(len(items)), nil
}

type fakeOffers struct {
	items []models.Offer
}

func (f *fakeOffers) Create(_ context.Context, o *models.Offer) error {
	o.ID = int64(len(f.items) + 1)
	f.items = append(f.items, *o)
	return nil
}

func (f *fakeOffers) List(_ context.Context, activeOnly bool) ([]models.Offer, error) {
	out := []models.Offer{}
	for i := len(f.items) - 1; i >= 0; i-- {
		if !activeOnly || f.items[i].IsActive {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeOffers) ToggleActive(_ context.Context, id int64) (*models.Offer, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].IsActive = !f.items[i].IsActive
			o := f.items[i]
			return &o, nil
		}
	}
	return nil, database.ErrOfferNotFound
}

func (f *fakeOffers) Count(context.Context) (int64, error) {
	return int64(len(f.items)), nil
}

type fakeFavourites struct {
	products *fakeProducts
	marks    map[[2]int64]bool
}

func (f *fakeFavourites) Toggle(ctx context.Context, userID, productID int64) (bool, error) {
	if _, err := f.products.Get(ctx, productID); err != nil {
		return false, err
	}
	key := [2]int64{userID, productID}
	f.marks[key] = !f.marks[key]
	return f.marks[key], nil
}

func (f *fakeFavourites) ListProducts(ctx context.Context, userID int64) ([]models.Product, error) {
	all, _ := f.products.List(ctx, store.ProductFilter{})
	out := []models.Product{}
	for _, p := range all {
		if f.marks[[2]int64{userID, p.ID}] {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeUsers struct {
	byEmail map[string]models.User
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return database.ErrEmailTaken
	}
	u.ID = int64(len(f.byEmail) + 1)
	f.byEmail[u.Email] = *u
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, database.ErrUserNotFound
	}
	return &u, nil
}

type fakeOrders struct {
	orders map[int64]*models.Order
	next   int64
}

func copyOrder(o *models.Order) *models.Order {
	c := *o
	c.Items = append([]models.OrderLine(nil), o.Items...)
	return &c
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order) error {
	f.next++
	o.ID = f.next
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	f.orders[o.ID] = copyOrder(o)
	return nil
}

func (f *fakeOrders) Get(_ context.Context, id int64) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, database.ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID int64) ([]models.Order, error) {
	var out []models.Order
	for id := f.next; id > 0; id-- {
		if o, ok := f.orders[id]; ok && o.BelongsTo(userID) {
			out = append(out, *copyOrder(o))
		}
	}
	return out, nil
}

func (f *fakeOrders) ListCursor(_ context.Context, _ string, limit int) (*store.CursorPage[models.Order], error) {
	page := &store.CursorPage[models.Order]{}
	for id := f.next; id > 0 && len(page.Items) < limit; id-- {
		page.Items = append(page.Items, *copyOrder(f.orders[id]))
	}
	return page, nil
}

func (f *fakeOrders) TransitionStatus(_ context.Context, id int64, to models.OrderStatus, from ...models.OrderStatus) (bool, error) {
	o, ok := f.orders[id]
	if !ok {
		return false, database.ErrOrderNotFound
	}
	if len(from) > 0 {
		allowed := false
		for _, s := range from {
			allowed = allowed || o.Status == s
		}
		if !allowed {
			return false, nil
		}
	}
	o.Status = to
	return true, nil
}

func (f *fakeOrders) RecordPayment(_ context.Context, id int64, accountRef, cardType string) error {
	o, ok := f.orders[id]
	if !ok {
		return database.ErrOrderNotFound
	}
	o.AccountRef = &accountRef
	o.CardType = &cardType
	o.PaymentStatus = models.PaymentStatusSuccessful
	return nil
}

func (f *fakeOrders) Count(context.Context) (int64, error) {
	return int64(len(f.orders)), nil
}
