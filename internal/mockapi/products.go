package mockapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/yudhapr/pasarloak/internal/model"
)

// ProductHandler serves the catalog and seller listing endpoints.
type ProductHandler struct {
	State *State
}

// List applies the optional search, category_id and sort filters.
func (h *ProductHandler) List(c echo.Context) error {
	var categoryID int64
	if raw := c.QueryParam("category_id"); raw != "" {
		categoryID, _ = strconv.ParseInt(raw, 10, 64)
	}
	products := h.State.Products(c.QueryParam("search"), categoryID, c.QueryParam("sort"))
	return c.JSON(http.StatusOK, echo.Map{"data": products})
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "ID tidak valid"})
	}
	p, ok := h.State.Product(id)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Produk tidak ditemukan"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": p})
}

func (h *ProductHandler) ListByUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "ID tidak valid"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": h.State.ProductsByUser(id)})
}

// Create lists a new item; only sellers may sell.
func (h *ProductHandler) Create(c echo.Context) error {
	u, ok := h.State.User(userID(c))
	if !ok || !bool(u.IsSeller) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Harap daftar sebagai penjual dulu"})
	}
	var req model.NewProduct
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Body tidak valid"})
	}
	if req.Name == "" || req.CategoryID == 0 || req.Price <= 0 || req.Stock < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data produk tidak lengkap"})
	}
	p := h.State.CreateProduct(u.ID, req)
	return c.JSON(http.StatusCreated, echo.Map{"data": p})
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "ID tidak valid"})
	}
	var req model.NewProduct
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Body tidak valid"})
	}
	if err := h.State.UpdateProduct(userID(c), id, req); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Produk diperbarui"})
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "ID tidak valid"})
	}
	if err := h.State.DeleteProduct(userID(c), id); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Produk dihapus"})
}

func (h *ProductHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"data": h.State.Categories()})
}

// jsonError maps a state-layer apiError to its response; anything else
// is a 500.
func jsonError(c echo.Context, err error) error {
	if e, ok := err.(*apiError); ok {
		return c.JSON(e.status, echo.Map{"message": e.message})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Terjadi kesalahan"})
}
