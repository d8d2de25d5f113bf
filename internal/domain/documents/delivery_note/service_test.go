package delivery_note

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/apperror"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/clock"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/numerator"
)

// --- fakes ---

type memRepo struct {
	nextID      int64
	nextItemID  int64
	notes       map[int64]*DeliveryNote
	items       map[int64][]Item
	stagedNotes []*DeliveryNote
	stagedItems map[int64][]Item
}

func newMemRepo() *memRepo {
	return &memRepo{
		notes:       map[int64]*DeliveryNote{},
		items:       map[int64][]Item{},
		stagedItems: map[int64][]Item{},
	}
}

func (r *memRepo) Create(_ context.Context, note *DeliveryNote) error {
	r.nextID++
	note.SetIdentity(r.nextID, time.Now())
	r.stagedNotes = append(r.stagedNotes, note)
	return nil
}

func (r *memRepo) SaveItems(_ context.Context, noteID int64, items []Item) error {
	for i := range items {
		r.nextItemID++
		items[i].ID = r.nextItemID
		items[i].DeliveryNoteID = noteID
	}
	r.stagedItems[noteID] = append([]Item(nil), items...)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*DeliveryNote, error) {
	note, ok := r.notes[id]
	if !ok {
		return nil, apperror.NewNotFound("delivery note", id)
	}
	cp := *note
	return &cp, nil
}

func (r *memRepo) GetItems(_ context.Context, noteID int64) ([]Item, error) {
	return r.items[noteID], nil
}

func (r *memRepo) commit() {
	for _, n := range r.stagedNotes {
		r.notes[n.ID] = n
	}
	for id, items := range r.stagedItems {
		r.items[id] = items
	}
	r.rollback()
}

func (r *memRepo) rollback() {
	r.stagedNotes = nil
	r.stagedItems = map[int64][]Item{}
}

type fakeTxManager struct {
	repo      *memRepo
	commits   int
	rollbacks int
	readOnly  int
}

func (m *fakeTxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.readOnly++
	return fn(ctx)
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		m.rollbacks++
		m.repo.rollback()
		return err
	}
	m.commits++
	m.repo.commit()
	return nil
}

type fakeOrderItems struct {
	items     map[int64][]OrderItemRef
	materials map[int64]string
	listCalls int
}

func (f *fakeOrderItems) ListOrderItems(_ context.Context, orderID int64) ([]OrderItemRef, error) {
	f.listCalls++
	return f.items[orderID], nil
}

func (f *fakeOrderItems) MaterialNumber(_ context.Context, materialID int64) (string, bool, error) {
	n, ok := f.materials[materialID]
	return n, ok, nil
}

// --- fixture ---

var today = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

type fixture struct {
	svc    *Service
	repo   *memRepo
	txm    *fakeTxManager
	source *fakeOrderItems
	gen    *numerator.MockGenerator
}

func newFixture(strict bool) *fixture {
	repo := newMemRepo()
	txm := &fakeTxManager{repo: repo}
	source := &fakeOrderItems{
		items: map[int64][]OrderItemRef{
			10: {
				{ID: 101, CustomerArticleNumber: "A-1", VendorArticleNumber: "V-1"},
				{ID: 102, CustomerArticleNumber: "A-2", VendorArticleNumber: "MAT-7"},
			},
			20: {},
		},
		materials: map[int64]string{7: "MAT-7", 8: "MAT-8"},
	}
	gen := &numerator.MockGenerator{}

	svc := NewService(Deps{
		Repo:      repo,
		Linker:    NewLinker(source, strict),
		Numerator: gen,
		TxManager: txm,
		Clock:     clock.NewFixed(today),
	})
	return &fixture{svc: svc, repo: repo, txm: txm, source: source, gen: gen}
}

func basicNote(orderID, materialID int64) *DeliveryNote {
	return &DeliveryNote{
		InternalNumber: "WE-100",
		Type:           "standard",
		DeliveryDate:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Items: []Item{{
			PurchaseOrderID: orderID,
			MaterialID:      materialID,
			NetAmount:       decimal.NewFromInt(10),
			Quantity:        decimal.NewFromInt(3),
			Unit:            "ST",
			TotalAmount:     decimal.NewFromInt(30),
			Currency:        "EUR",
		}},
	}
}

// --- tests ---

func TestCreate_AssignsNumbersAndLinks(t *testing.T) {
	f := newFixture(false)
	f.gen.NextDeliveryExternalNumberFunc = func(context.Context) (string, error) {
		return "LS-0042", nil
	}
	note := basicNote(10, 7)

	require.NoError(t, f.svc.Create(context.Background(), note))

	assert.Equal(t, "WE-100", note.InternalNumber)
	assert.Equal(t, "LS-0042", note.ExternalNumber)
	require.Len(t, note.Items, 1)
	item := note.Items[0]
	assert.Equal(t, "01", item.LineNumber)
	assert.Equal(t, int64(102), item.PurchaseOrderItemID)
	assert.Equal(t, LinkMaterialNumber, item.LinkStrategy)
	assert.Equal(t, note.ID, item.DeliveryNoteID)
	assert.Equal(t, 1, f.txm.commits)
	assert.Len(t, f.repo.notes, 1)
}

func TestCreate_TakenInternalNumberIsSuffixed(t *testing.T) {
	f := newFixture(false)
	f.gen.DeliveryInternalNumberFunc = func(_ context.Context, submitted string) (string, error) {
		return submitted + "-1742034600000", nil
	}
	note := basicNote(10, 7)

	require.NoError(t, f.svc.Create(context.Background(), note))

	assert.Equal(t, "WE-100-1742034600000", note.InternalNumber)
}

func TestCreate_DeliveryDateWindow(t *testing.T) {
	tests := []struct {
		name  string
		days  int
		valid bool
	}{
		{"today", 0, true},
		{"seven days ahead", 7, true},
		{"eight days ahead", 8, false},
		{"thirty days back", -30, true},
		{"thirty-one days back", -31, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(false)
			note := basicNote(10, 7)
			note.DeliveryDate = clock.Today(today).AddDate(0, 0, tt.days).Add(23 * time.Hour)

			err := f.svc.Create(context.Background(), note)

			if tt.valid {
				require.NoError(t, err)
				return
			}
			assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "got %v", err)
			assert.Zero(t, f.txm.commits+f.txm.rollbacks, "transaction must not start")
		})
	}
}

func TestCreate_FallsBackToFirstItem(t *testing.T) {
	f := newFixture(false)
	note := basicNote(10, 99)

	require.NoError(t, f.svc.Create(context.Background(), note))

	assert.Equal(t, int64(101), note.Items[0].PurchaseOrderItemID)
	assert.Equal(t, LinkFirstItem, note.Items[0].LinkStrategy)
}

func TestCreate_StrictModeRejectsFallback(t *testing.T) {
	f := newFixture(true)
	note := basicNote(10, 99)

	err := f.svc.Create(context.Background(), note)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnresolved, appErr.Code)
	assert.Equal(t, true, appErr.Details["strict"])
	assert.ErrorIs(t, err, ErrUnresolved)
	assert.Empty(t, f.repo.notes)
}

func TestCreate_OrderWithoutItemsFailsAtomically(t *testing.T) {
	f := newFixture(false)
	note := basicNote(10, 7)
	note.Items = append(note.Items, Item{
		PurchaseOrderID: 20,
		MaterialID:      7,
		Quantity:        decimal.NewFromInt(1),
		Unit:            "ST",
	})

	err := f.svc.Create(context.Background(), note)

	assert.True(t, apperror.IsCode(err, apperror.CodeUnresolved), "got %v", err)
	assert.Empty(t, f.repo.notes, "no header persisted")
	assert.Empty(t, f.repo.items, "no items persisted")
	assert.Equal(t, 1, f.txm.rollbacks)
}

func TestCreate_OrderItemsLoadedOncePerNote(t *testing.T) {
	f := newFixture(false)
	note := basicNote(10, 7)
	second := note.Items[0]
	second.ArticleNumber = "A-1"
	note.Items = append(note.Items, second)

	require.NoError(t, f.svc.Create(context.Background(), note))

	assert.Equal(t, 1, f.source.listCalls)
	assert.Equal(t, "02", note.Items[1].LineNumber)
	assert.Equal(t, int64(101), note.Items[1].PurchaseOrderItemID)
	assert.Equal(t, LinkArticleNumber, note.Items[1].LinkStrategy)
}

func TestCreate_NumberErrorRollsBack(t *testing.T) {
	f := newFixture(false)
	boom := errors.New("sequence lookup failed")
	f.gen.NextDeliveryExternalNumberFunc = func(context.Context) (string, error) {
		return "", boom
	}

	err := f.svc.Create(context.Background(), basicNote(10, 7))

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, f.repo.notes)
	assert.Equal(t, 1, f.txm.rollbacks)
}

func TestCreate_Validation(t *testing.T) {
	tests := map[string]func(*DeliveryNote){
		"no internal number": func(n *DeliveryNote) { n.InternalNumber = " " },
		"no date":            func(n *DeliveryNote) { n.DeliveryDate = time.Time{} },
		"no items":           func(n *DeliveryNote) { n.Items = nil },
		"no order":           func(n *DeliveryNote) { n.Items[0].PurchaseOrderID = 0 },
		"no material":        func(n *DeliveryNote) { n.Items[0].MaterialID = 0 },
		"zero quantity":      func(n *DeliveryNote) { n.Items[0].Quantity = decimal.Zero },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(false)
			note := basicNote(10, 7)
			mutate(note)

			err := f.svc.Create(context.Background(), note)

			assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "got %v", err)
			assert.Zero(t, f.txm.commits+f.txm.rollbacks)
		})
	}
}

func TestGetByID(t *testing.T) {
	f := newFixture(false)
	note := basicNote(10, 7)
	require.NoError(t, f.svc.Create(context.Background(), note))

	got, err := f.svc.GetByID(context.Background(), note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.ExternalNumber, got.ExternalNumber)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, 1, f.txm.readOnly)

	_, err = f.svc.GetByID(context.Background(), 404)
	assert.True(t, apperror.IsNotFound(err))
}
