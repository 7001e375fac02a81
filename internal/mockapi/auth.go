package mockapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/yudhapr/pasarloak/internal/model"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	State      *State
	JWTSecret  string
	BcryptCost int
}

// ----- DTOs -----

type registerReq struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    *string `json:"phone"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Register creates the account. No token is issued; the storefront
// follows up with a login using the same credentials.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Body tidak valid"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Nama, email dan password wajib diisi"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Registrasi gagal"})
	}
	if _, err := h.State.CreateUser(req.Name, req.Email, string(hash), req.Phone); err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Registrasi berhasil"})
}

// Login verifies credentials and returns a token plus the full
// profile row.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Body tidak valid"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	rec := h.State.UserByEmail(req.Email)
	if rec == nil || bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Email atau password salah"})
	}

	token, err := issueToken(h.JWTSecret, rec.ID, 24*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Login gagal"})
	}
	return c.JSON(http.StatusOK, loginResp{Token: token, User: rec.User})
}
