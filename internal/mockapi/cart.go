package mockapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// CartHandler serves the server-side cart endpoints.
type CartHandler struct {
	State *State
}

// ----- DTOs -----

type addCartReq struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type updateCartReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"data": h.State.Cart(userID(c))})
}

func (h *CartHandler) Add(c echo.Context) error {
	var req addCartReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Body tidak valid"})
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	if err := h.State.AddToCart(userID(c), req.ProductID, req.Quantity); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Ditambahkan ke keranjang"})
}

func (h *CartHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "ID tidak valid"})
	}
	var req updateCartReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Body tidak valid"})
	}
	if req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Jumlah minimal 1"})
	}
	if err := h.State.UpdateCartItem(userID(c), id, req.Quantity); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Keranjang diperbarui"})
}

func (h *CartHandler) Remove(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "ID tidak valid"})
	}
	if err := h.State.RemoveCartItem(userID(c), id); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Item dihapus"})
}
