package mockapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/yudhapr/pasarloak/internal/model"
)

// OrderHandler serves order creation, listing and the status
// workflow.
type OrderHandler struct {
	State *State
}

// ----- DTOs -----

type createOrderReq struct {
	ProductID       int64  `json:"product_id"`
	SellerID        int64  `json:"seller_id"`
	Quantity        int    `json:"quantity"`
	PaymentMethod   string `json:"payment_method"`
	ShippingAddress string `json:"shipping_address"`
	Notes           string `json:"notes"`
}

type updateStatusReq struct {
	Status model.OrderStatus `json:"status"`
}

func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Body tidak valid"})
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	// The address may be empty: the buy-now flow has always sent
	// shipping_address "" and the production API accepts it. Only the
	// cart checkout form requires an address, and it validates
	// client-side.
	id, err := h.State.CreateOrder(userID(c), req.ProductID, req.SellerID, req.Quantity, req.PaymentMethod, req.ShippingAddress)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"order_id": id})
}

func (h *OrderHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"data": h.State.Orders(userID(c))})
}

func (h *OrderHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "ID tidak valid"})
	}
	o, err := h.State.Order(userID(c), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": o})
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "ID tidak valid"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Body tidak valid"})
	}
	if err := h.State.SetOrderStatus(userID(c), id, req.Status); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Status diperbarui"})
}

func (h *OrderHandler) AddReview(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "ID tidak valid"})
	}
	var review model.Review
	if err := c.Bind(&review); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Body tidak valid"})
	}
	if !review.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Rating harus antara 1 sampai 5"})
	}
	if err := h.State.AddReview(userID(c), id, review); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Ulasan tersimpan"})
}
