package api

import (
	"net/http"

	reqdto "villa-reservation/internal/handler/dto/request"
	resdto "villa-reservation/internal/handler/dto/response"
	"villa-reservation/internal/handler/httperr"
	"villa-reservation/internal/handler/middleware"
	"villa-reservation/internal/pkg/clock"
	"villa-reservation/internal/pkg/config"
	"villa-reservation/internal/pkg/cookie"
	"villa-reservation/internal/pkg/errs"
	"villa-reservation/internal/usecase/commands"
	"villa-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth      commands.AuthCommands
	accounts  queries.AccountQueries
	cookieCfg config.CookieConfig
	clock     clock.Clock
}

func NewAuthHandler(auth commands.AuthCommands, accounts queries.AccountQueries, cfg config.Config, clk clock.Clock) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		accounts:  accounts,
		cookieCfg: cfg.Cookie,
		clock:     clk,
	}
}

// @Summary Admin login
// @Description Login with email and password. The token is returned and set as a session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid request format")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errs.Is(err, commands.ErrAccountInactive) {
			httperr.AbortWithError(c, http.StatusForbidden, err, "Account is inactive",
				httperr.Detail{Kind: errs.KindForbidden})
			return
		}
		httperr.Respond(c, err)
		return
	}

	cookie.SetAdminSession(c, h.cookieCfg, result.Token, result.ExpiresAt.Sub(h.clock.Now()))
	c.JSON(http.StatusOK, resdto.FromLoginResult(result))
}

// @Summary Admin logout
// @Description Clear the session cookie. Tokens are stateless, so clients holding one should discard it.
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearAdminSession(c, h.cookieCfg)
	c.Status(http.StatusNoContent)
}

// @Summary Current admin
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.AdminResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Access token required",
			httperr.Detail{Kind: errs.KindUnauthenticated})
		return
	}

	account, err := h.accounts.Me(c.Request.Context(), adminID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAdminAccount(account))
}
