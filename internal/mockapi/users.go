package mockapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/yudhapr/pasarloak/internal/model"
)

// UserHandler serves the profile endpoints.
type UserHandler struct {
	State *State
}

// Me returns the authenticated user's own profile.
func (h *UserHandler) Me(c echo.Context) error {
	u, ok := h.State.User(userID(c))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Pengguna tidak ditemukan"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": u})
}

// Get returns any user's public profile.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "ID tidak valid"})
	}
	u, ok := h.State.User(id)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Pengguna tidak ditemukan"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": u})
}

// Update edits the caller's own profile and returns the canonical
// record.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id != userID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Bukan profil Anda"})
	}
	var fields model.ProfileUpdate
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Body tidak valid"})
	}
	u, ok := h.State.UpdateUser(id, fields)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Pengguna tidak ditemukan"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": u})
}

// BecomeSeller unlocks the seller role for the caller. One-way.
func (h *UserHandler) BecomeSeller(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id != userID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Bukan profil Anda"})
	}
	if !h.State.MakeSeller(id) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Pengguna tidak ditemukan"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Sekarang Anda adalah penjual"})
}
