package internal

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cloverbooth/kiosk/internal/model"
)

type Handlers struct {
	Service       IService
	Hub           IHub
	adminPassword string
	secret        string
	logger        *zap.SugaredLogger
}

func NewHandlers(Service IService, Hub IHub, adminPassword, secret string, logger *zap.SugaredLogger) *Handlers {
	return &Handlers{Service: Service, Hub: Hub, adminPassword: adminPassword, secret: secret, logger: logger}
}

func (h *Handlers) Form(c *fiber.Ctx) error {
	return renderPage(c, pageData{Page: "form"})
}

func (h *Handlers) Submit(c *fiber.Ctx) error {
	copies, err := strconv.Atoi(c.FormValue("copies"))
	if err != nil {
		return renderPage(c, pageData{Page: "form", Error: "Copies must be a whole number of at least 1."})
	}

	amount, err := decimal.NewFromString(c.FormValue("amount"))
	if err != nil {
		return renderPage(c, pageData{Page: "form", Error: "Amount must be a non-negative number."})
	}

	in := model.OrderInput{
		Name:       c.FormValue("name"),
		Email:      c.FormValue("email"),
		Copies:     copies,
		AmountPaid: amount,
	}

	id, err := h.Service.Submit(c.Context(), in)
	if err != nil {
		h.logger.Errorf("Error on submit request: %s", err.Error())
		switch {
		case errors.Is(err, ErrInvalidCopies):
			return renderPage(c, pageData{Page: "form", Error: "Copies must be at least 1."})
		case errors.Is(err, ErrInvalidAmount):
			return renderPage(c, pageData{Page: "form", Error: "Amount must not be negative."})
		case errors.Is(err, ErrEmailDomainNotAllowed):
			return renderPage(c, pageData{Page: "form", Error: "Please use an allowed email address."})
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return renderPage(c, pageData{Page: "thanks", Position: id})
}

func (h *Handlers) Queue(c *fiber.Ctx) error {
	p, err := h.Service.Projection(c.Context())
	if err != nil {
		h.logger.Errorf("Error on queue request: %s", err.Error())
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return renderPage(c, pageData{Page: "queue", Orders: p.Pending})
}

func (h *Handlers) LoginPage(c *fiber.Ctx) error {
	return renderPage(c, pageData{Page: "login"})
}

func (h *Handlers) Login(c *fiber.Ctx) error {
	if c.FormValue("password") != h.adminPassword {
		h.logger.Errorf("Error on login request: %s", ErrWrongPassword.Error())
		return renderPage(c, pageData{Page: "login", Error: "Incorrect password."})
	}

	t, err := h.adminToken()
	if err != nil {
		h.logger.Errorf("Error on login request: %s", err.Error())
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	setAuthCookie(c, t)
	return c.Redirect("/dashboard")
}

func (h *Handlers) Logout(c *fiber.Ctx) error {
	c.ClearCookie("token")
	return c.Redirect("/admin")
}

func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	if !h.isAdmin(c) {
		return c.Redirect("/admin")
	}

	p, err := h.Service.Projection(c.Context())
	if err != nil {
		h.logger.Errorf("Error on dashboard request: %s", err.Error())
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return renderPage(c, pageData{Page: "admin", Orders: p.All})
}

func (h *Handlers) ToggleStatus(c *fiber.Ctx) error {
	return h.adminAction(c, h.Service.ToggleStatus)
}

func (h *Handlers) TogglePrinted(c *fiber.Ctx) error {
	return h.adminAction(c, h.Service.TogglePrinted)
}

func (h *Handlers) ToggleClaimed(c *fiber.Ctx) error {
	return h.adminAction(c, h.Service.ToggleClaimed)
}

func (h *Handlers) Clear(c *fiber.Ctx) error {
	return h.adminAction(c, h.Service.Clear)
}

// adminAction runs one id-addressed mutation and re-renders the
// dashboard regardless of whether the id existed.
func (h *Handlers) adminAction(c *fiber.Ctx, action func(context.Context, int) error) error {
	if !h.isAdmin(c) {
		return c.Redirect("/admin")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Redirect("/dashboard")
	}

	if err = action(c.Context(), id); err != nil {
		h.logger.Errorf("Error on admin action for order %d: %s", id, err.Error())
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Redirect("/dashboard")
}

// Live serves one viewer connection: a fresh projection immediately,
// then one message per change until the viewer goes away.
func (h *Handlers) Live(conn *websocket.Conn) {
	ch, cancel := h.Hub.Subscribe()
	defer cancel()

	p, err := h.Service.Projection(context.Background())
	if err != nil {
		h.logger.Errorf("Error on viewer connect: %s", err.Error())
		return
	}
	if err = conn.WriteJSON(p); err != nil {
		return
	}

	for p = range ch {
		if err = conn.WriteJSON(p); err != nil {
			return
		}
	}
}

func (h *Handlers) adminToken() (string, error) {
	claims := jwt.MapClaims{
		"admin": true,
		"exp":   time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handlers) isAdmin(c *fiber.Ctx) bool {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(c.Cookies("token"), claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.secret), nil
	})
	if err != nil {
		return false
	}

	admin, _ := claims["admin"].(bool)
	return admin
}

func setAuthCookie(c *fiber.Ctx, token string) {
	cookie := &fiber.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Now().Add(24 * time.Hour),
	}

	c.Cookie(cookie)
}
