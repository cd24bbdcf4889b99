package entity

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menuItem(name string, cents int64) Product {
	return Product{ID: uuid.New(), Name: name, Price: cents, Category: enum.CategorySnacks, IsAvailable: true}
}

func TestCart_AddItemKeepsInsertionOrder(t *testing.T) {
	c := NewCart("t1")
	fries, cola := menuItem("Fries", 7550), menuItem("Cola", 5550)

	c.AddItem(fries)
	c.AddItem(cola)
	c.AddItem(fries)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Fries", lines[0].Product.Name)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 3, c.ItemCount())
	assert.Equal(t, int64(20650), c.Subtotal())
	assert.Equal(t, c.Subtotal(), c.Total())
}

func TestCart_UpdateQuantity(t *testing.T) {
	c := NewCart("t1")
	cola := menuItem("Cola", 5550)
	c.AddItem(cola)

	assert.True(t, c.UpdateQuantity(cola.ID, 4))
	assert.Equal(t, int64(22200), c.Subtotal())

	assert.True(t, c.UpdateQuantity(cola.ID, -1))
	assert.True(t, c.IsEmpty())

	assert.False(t, c.UpdateQuantity(uuid.New(), 2))
}

func TestCart_SubmitIsExclusive(t *testing.T) {
	c := NewCart("t1")

	require.NoError(t, c.BeginSubmit())
	assert.ErrorIs(t, c.BeginSubmit(), ErrSubmitInFlight)
	assert.Equal(t, enum.CheckoutSubmitting, c.State)

	c.EndSubmit(enum.CheckoutFailed)
	assert.False(t, c.Submitting)
	assert.NoError(t, c.BeginSubmit())
}

func TestCart_ClearKeepsLastResult(t *testing.T) {
	c := NewCart("t1")
	c.AddItem(menuItem("Cola", 5550))
	c.SetCustomerName("Juan")
	c.LastResult = &CheckoutConfirmation{OrderNumber: "#001"}

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.CustomerName)
	assert.Equal(t, enum.CheckoutIdle, c.State)
	require.NotNil(t, c.LastResult)
}

func TestCart_CloneIsIndependent(t *testing.T) {
	c := NewCart("t1")
	cola := menuItem("Cola", 5550)
	c.AddItem(cola)
	c.LastResult = &CheckoutConfirmation{OrderNumber: "#001"}

	clone := c.Clone()
	c.AddItem(cola)
	c.LastResult.OrderNumber = "#002"

	assert.Equal(t, 1, clone.Lines()[0].Quantity)
	assert.Equal(t, "#001", clone.LastResult.OrderNumber)
}

func TestCart_MarshalJSON(t *testing.T) {
	c := NewCart("t1")
	c.AddItem(menuItem("Burger", 5000))
	c.AddItem(menuItem("Burger 2", 10050))
	c.OrderNumber = FormatOrderNumber(7)

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 150.5, out["subtotal"])
	assert.Equal(t, "#007", out["order_number"])
	assert.Equal(t, "idle", out["state"])
	assert.Len(t, out["items"], 2)
	assert.NotContains(t, out, "last_result")
}

func assertCartInvariants(t *testing.T, c *Cart, want map[uuid.UUID]int, step int) {
	t.Helper()
	seen := make(map[uuid.UUID]bool)
	var sum int64
	for _, l := range c.Lines() {
		require.Falsef(t, seen[l.Product.ID], "step %d: duplicate line for %s", step, l.Product.Name)
		seen[l.Product.ID] = true
		require.Greaterf(t, l.Quantity, 0, "step %d: %s has quantity %d", step, l.Product.Name, l.Quantity)
		require.Equalf(t, want[l.Product.ID], l.Quantity, "step %d: quantity of %s", step, l.Product.Name)
		sum += l.Product.Price * int64(l.Quantity)
	}
	require.Lenf(t, seen, len(want), "step %d: line count", step)
	require.Equalf(t, sum, c.Subtotal(), "step %d: subtotal", step)
	require.Equal(t, c.Subtotal(), c.Subtotal())
}

func TestCart_RandomMutationsKeepInvariants(t *testing.T) {
	menu := []Product{
		menuItem("The Classic", 18999),
		menuItem("Bacon Bliss", 22999),
		menuItem("Fries", 7550),
		menuItem("Iced Tea", 5975),
	}
	soldOut := menuItem("Truffle Melt", 34999)
	soldOut.IsAvailable = false
	pick := append(append([]Product{}, menu...), soldOut)

	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		c := NewCart("t1")
		want := make(map[uuid.UUID]int)

		for step := 0; step < 200; step++ {
			p := pick[rng.Intn(len(pick))]
			switch rng.Intn(3) {
			case 0:
				c.AddItem(p)
				if p.IsAvailable {
					want[p.ID]++
				}
			case 1:
				c.RemoveItem(p.ID)
				delete(want, p.ID)
			case 2:
				q := rng.Intn(6) - 2
				existed := c.UpdateQuantity(p.ID, q)
				_, had := want[p.ID]
				require.Equal(t, had, existed)
				if had {
					if q <= 0 {
						delete(want, p.ID)
					} else {
						want[p.ID] = q
					}
				}
			}
			assertCartInvariants(t, c, want, step)
		}
	}
}

func TestCart_PendingOrderIDSurvivesFailureOnly(t *testing.T) {
	c := NewCart("t1")
	fries := menuItem("Fries", 7550)
	c.AddItem(fries)
	assert.Equal(t, uuid.Nil, c.PendingOrderID())

	require.NoError(t, c.BeginSubmit())
	first := c.PendingOrderID()
	assert.NotEqual(t, uuid.Nil, first)
	c.EndSubmit(enum.CheckoutFailed)

	require.NoError(t, c.BeginSubmit())
	assert.Equal(t, first, c.PendingOrderID(), "an unchanged retry reuses the id")
	c.EndSubmit(enum.CheckoutFailed)

	c.AddItem(fries)
	assert.Equal(t, uuid.Nil, c.PendingOrderID(), "editing the cart drops the id")

	require.NoError(t, c.BeginSubmit())
	second := c.PendingOrderID()
	assert.NotEqual(t, first, second)
	c.EndSubmit(enum.CheckoutSucceeded)
	assert.Equal(t, uuid.Nil, c.PendingOrderID())
}
