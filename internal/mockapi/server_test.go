package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yudhapr/pasarloak/internal/api"
	"github.com/yudhapr/pasarloak/internal/model"
)

// tokenHolder is a mutable api.TokenSource for the test client.
type tokenHolder struct{ token string }

func (t *tokenHolder) CurrentToken() string { return t.token }

func newTestClient(t *testing.T) (*api.Client, *tokenHolder) {
	t.Helper()
	state := NewState()
	state.Seed()
	srv := httptest.NewServer(NewServer(state, Options{JWTSecret: "test-secret", BcryptCost: 4}))
	t.Cleanup(srv.Close)
	tokens := &tokenHolder{}
	return api.New(srv.URL, tokens, 0), tokens
}

func login(t *testing.T, client *api.Client, tokens *tokenHolder, email, password string) *model.User {
	t.Helper()
	res, err := client.Login(context.Background(), email, password)
	require.NoError(t, err)
	tokens.token = res.Token
	return &res.User
}

func registerAndLogin(t *testing.T, client *api.Client, tokens *tokenHolder, name, email string) *model.User {
	t.Helper()
	err := client.Register(context.Background(), api.RegisterRequest{Name: name, Email: email, Password: "rahasia"})
	require.NoError(t, err)
	return login(t, client, tokens, email, "rahasia")
}

func TestSeededCatalogIsBrowsableWithoutAuth(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	products, err := client.Products(ctx, api.ProductQuery{})
	require.NoError(t, err)
	assert.NotEmpty(t, products)

	categories, err := client.Categories(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, categories)

	filtered, err := client.Products(ctx, api.ProductQuery{Search: "kamera"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Kamera analog Yashica", filtered[0].Name)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	client, _ := newTestClient(t)
	_, err := client.Cart(context.Background())
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
	assert.Equal(t, "Harap login terlebih dahulu", apiErr.Message)
}

func TestRegisterLoginProfileRoundTrip(t *testing.T) {
	client, tokens := newTestClient(t)
	ctx := context.Background()

	user := registerAndLogin(t, client, tokens, "Ani", "ani@test.id")
	assert.False(t, bool(user.IsSeller))

	profile, err := client.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, "ani@test.id", profile.Email)

	err = client.BecomeSeller(ctx, user.ID)
	require.NoError(t, err)
	profile, err = client.Profile(ctx)
	require.NoError(t, err)
	assert.True(t, bool(profile.IsSeller))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	client, _ := newTestClient(t)
	_, err := client.Login(context.Background(), "seller@pasarloak.test", "salah")
	assert.Equal(t, "Email atau password salah", api.Message(err, ""))
}

func TestCartAndOrderLifecycle(t *testing.T) {
	client, tokens := newTestClient(t)
	ctx := context.Background()
	buyer := registerAndLogin(t, client, tokens, "Budi", "budi@test.id")

	products, err := client.Products(ctx, api.ProductQuery{Search: "kamera"})
	require.NoError(t, err)
	camera := products[0]

	require.NoError(t, client.AddToCart(ctx, camera.ID, 1))
	items, err := client.Cart(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, camera.Price, items[0].Price)
	assert.Equal(t, camera.UserID, items[0].SellerID)

	orderID, err := client.CreateOrder(ctx, api.OrderRequest{
		ProductID:       camera.ID,
		SellerID:        camera.UserID,
		Quantity:        1,
		PaymentMethod:   model.PaymentTransfer,
		ShippingAddress: "Jl. Melati 1",
	})
	require.NoError(t, err)

	// Ordering empties the matching cart row and decrements stock.
	items, err = client.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	got, err := client.GetProduct(ctx, camera.ID)
	require.NoError(t, err)
	assert.Equal(t, camera.Stock-1, got.Stock)

	order, err := client.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, order.Status)
	assert.Equal(t, buyer.ID, order.BuyerID)
	assert.Equal(t, camera.Price, order.TotalPrice)

	// Buyer pays; seller ships; buyer receives; buyer reviews.
	require.NoError(t, client.UpdateOrderStatus(ctx, orderID, model.StatusConfirmed))

	login(t, client, tokens, "seller@pasarloak.test", "rahasia")
	require.NoError(t, client.UpdateOrderStatus(ctx, orderID, model.StatusShipped))

	login(t, client, tokens, "budi@test.id", "rahasia")
	require.NoError(t, client.UpdateOrderStatus(ctx, orderID, model.StatusDelivered))
	require.NoError(t, client.AddReview(ctx, orderID, model.Review{Rating: 5, Comment: "Mulus"}))

	order, err = client.GetOrder(ctx, orderID)
	require.NoError(t, err)
	require.NotNil(t, order.Rating)
	assert.Equal(t, 5, *order.Rating)
}

func TestBuyNowPayloadWithEmptyAddressIsAccepted(t *testing.T) {
	client, tokens := newTestClient(t)
	ctx := context.Background()
	registerAndLogin(t, client, tokens, "Budi", "budi@test.id")

	products, err := client.Products(ctx, api.ProductQuery{Search: "kamera"})
	require.NoError(t, err)

	// The buy-now flow sends shipping_address "" and the real API
	// accepts it; only the cart checkout form requires an address.
	orderID, err := client.CreateOrder(ctx, api.OrderRequest{
		ProductID:     products[0].ID,
		SellerID:      products[0].UserID,
		Quantity:      1,
		PaymentMethod: model.PaymentTransfer,
	})
	require.NoError(t, err)

	order, err := client.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Empty(t, order.ShippingAddress)
	assert.Equal(t, model.StatusPending, order.Status)
}

func TestUploadRejectsMoreThanFiveFiles(t *testing.T) {
	state := NewState()
	srv := httptest.NewServer(NewServer(state, Options{JWTSecret: "test-secret", BcryptCost: 4}))
	defer srv.Close()

	token, err := issueToken("test-secret", 1, time.Hour)
	require.NoError(t, err)

	files := make([]map[string]string, 6)
	for i := range files {
		files[i] = map[string]string{"name": fmt.Sprintf("f%d.jpg", i), "base64": "aGk="}
	}
	body, err := json.Marshal(map[string]any{"files": files})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/upload", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.False(t, out.Success)
	assert.Equal(t, "Maksimal 5 file per unggahan", out.Message)
}

func TestOrderRejectsInsufficientStock(t *testing.T) {
	client, tokens := newTestClient(t)
	ctx := context.Background()
	registerAndLogin(t, client, tokens, "Budi", "budi@test.id")

	products, err := client.Products(ctx, api.ProductQuery{Search: "kamera"})
	require.NoError(t, err)

	_, err = client.CreateOrder(ctx, api.OrderRequest{
		ProductID:       products[0].ID,
		Quantity:        99,
		PaymentMethod:   model.PaymentTransfer,
		ShippingAddress: "Jl. Melati 1",
	})
	assert.Equal(t, "Stok tidak cukup", api.Message(err, ""))
}

func TestStatusTransitionsAreForwardOnly(t *testing.T) {
	client, tokens := newTestClient(t)
	ctx := context.Background()
	registerAndLogin(t, client, tokens, "Budi", "budi@test.id")

	products, err := client.Products(ctx, api.ProductQuery{Search: "jaket"})
	require.NoError(t, err)
	orderID, err := client.CreateOrder(ctx, api.OrderRequest{
		ProductID:       products[0].ID,
		Quantity:        1,
		PaymentMethod:   model.PaymentCOD,
		ShippingAddress: "Jl. Melati 1",
	})
	require.NoError(t, err)

	// Skipping confirmed is rejected.
	err = client.UpdateOrderStatus(ctx, orderID, model.StatusShipped)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Status)

	// Buyers cannot ship even a confirmed order.
	require.NoError(t, client.UpdateOrderStatus(ctx, orderID, model.StatusConfirmed))
	err = client.UpdateOrderStatus(ctx, orderID, model.StatusShipped)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)
}

func TestReviewOnlyOnceAndOnlyAfterDelivery(t *testing.T) {
	client, tokens := newTestClient(t)
	ctx := context.Background()
	registerAndLogin(t, client, tokens, "Budi", "budi@test.id")

	products, err := client.Products(ctx, api.ProductQuery{Search: "rak"})
	require.NoError(t, err)
	orderID, err := client.CreateOrder(ctx, api.OrderRequest{
		ProductID:       products[0].ID,
		Quantity:        1,
		PaymentMethod:   model.PaymentTransfer,
		ShippingAddress: "Jl. Melati 1",
	})
	require.NoError(t, err)

	err = client.AddReview(ctx, orderID, model.Review{Rating: 4, Comment: "Oke"})
	assert.Equal(t, "Pesanan belum selesai", api.Message(err, ""))

	require.NoError(t, client.UpdateOrderStatus(ctx, orderID, model.StatusConfirmed))
	login(t, client, tokens, "seller@pasarloak.test", "rahasia")
	require.NoError(t, client.UpdateOrderStatus(ctx, orderID, model.StatusShipped))
	login(t, client, tokens, "budi@test.id", "rahasia")
	require.NoError(t, client.UpdateOrderStatus(ctx, orderID, model.StatusDelivered))

	require.NoError(t, client.AddReview(ctx, orderID, model.Review{Rating: 4, Comment: "Oke"}))
	err = client.AddReview(ctx, orderID, model.Review{Rating: 5, Comment: "Dobel"})
	assert.Equal(t, "Pesanan sudah diulas", api.Message(err, ""))
}

func TestSellerProductManagement(t *testing.T) {
	client, tokens := newTestClient(t)
	ctx := context.Background()
	user := registerAndLogin(t, client, tokens, "Citra", "citra@test.id")

	// Not a seller yet.
	_, err := client.CreateProduct(ctx, model.NewProduct{Name: "Meja", Price: 100000, Stock: 1, CategoryID: 4, Condition: "good"})
	assert.Equal(t, "Harap daftar sebagai penjual dulu", api.Message(err, ""))

	require.NoError(t, client.BecomeSeller(ctx, user.ID))
	created, err := client.CreateProduct(ctx, model.NewProduct{Name: "Meja", Price: 100000, Stock: 1, CategoryID: 4, Condition: "good"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, created.UserID)

	mine, err := client.ProductsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, client.DeleteProduct(ctx, created.ID))
	mine, err = client.ProductsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
