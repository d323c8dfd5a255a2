package handlers

import (
	"errors"
	"net/mail"

	"github.com/gofiber/fiber/v2"

	"kobo/internal/services/user"
	"kobo/internal/utils"
)

// UserHandler exposes registration and login.
type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		BVN       string `json:"bvn"`
		Password  string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return utils.BadRequest(c, "invalid email")
	}
	if input.Phone == "" || input.FirstName == "" || input.LastName == "" || input.BVN == "" {
		return utils.BadRequest(c, "phone, first_name, last_name and bvn are required")
	}
	if len(input.Password) < 8 {
		return utils.BadRequest(c, "password must be at least 8 characters")
	}

	newUser, wallet, err := h.userService.Register(c.Context(), user.RegisterInput{
		Email:     input.Email,
		Phone:     input.Phone,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		BVN:       input.BVN,
		Password:  input.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrBlacklisted):
			return utils.BadRequest(c, "registration not allowed")
		case errors.Is(err, user.ErrDuplicateUser):
			return utils.Conflict(c, "email or phone already registered")
		default:
			return utils.InternalError(c, "failed to register user")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"data": fiber.Map{
			"user":   newUser,
			"wallet": wallet,
		},
	})
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	loggedIn, token, err := h.userService.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			return utils.Unauthorized(c, "invalid email or password")
		case errors.Is(err, user.ErrBlacklisted):
			return utils.Unauthorized(c, "account is not allowed to sign in")
		default:
			return utils.InternalError(c, "failed to log in")
		}
	}

	return utils.Success(c, "Login successful", fiber.Map{
		"user":  loggedIn,
		"token": token,
	})
}
