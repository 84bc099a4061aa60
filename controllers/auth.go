package controllers

import (
	"net/http"

	"salonsmart-backend/models"
	"salonsmart-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	auth *services.AuthService
	log  *zap.Logger
}

func NewAuthController(auth *services.AuthService, log *zap.Logger) *AuthController {
	return &AuthController{auth: auth, log: log}
}

type SwitchRoleInput struct {
	Role models.Role `json:"role" binding:"required"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var input services.RegisterInput
	if !bindJSON(c, &input) {
		return
	}
	res, err := ac.auth.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Login accepts any credentials in demo mode.
func (ac *AuthController) Login(c *gin.Context) {
	var input services.LoginInput
	if !bindJSON(c, &input) {
		return
	}
	res, err := ac.auth.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ac *AuthController) Me(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	user, err := ac.auth.Me(c.Request.Context(), a)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "demoMode": ac.auth.DemoMode()})
}

func (ac *AuthController) SwitchRole(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input SwitchRoleInput
	if !bindJSON(c, &input) {
		return
	}
	res, err := ac.auth.SwitchRole(c.Request.Context(), a, input.Role)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
