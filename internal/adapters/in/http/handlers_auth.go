package http

import (
	"net/http"

	"partnerdelivery/internal/core/application/auth"

	"github.com/labstack/echo/v4"
)

// SignUp handles POST /api/v1/auth/signup.
//
//	@Summary	Register a partner account
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		signUpRequest	true	"Registration form"
//	@Success	201		{object}	SessionResponse
//	@Failure	400		{object}	Error
//	@Failure	409		{object}	Error
//	@Router		/auth/signup [post]
func (s *Server) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	signedIn, err := s.deps.Auth.SignUp(c.Request().Context(), auth.SignUpInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    req.Password,
		VehicleType: req.VehicleType,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, toSessionResponse(signedIn))
}

// SignIn handles POST /api/v1/auth/signin.
//
//	@Summary	Sign in
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		signInRequest	true	"Credentials"
//	@Success	200		{object}	SessionResponse
//	@Failure	401		{object}	Error
//	@Failure	403		{object}	Error
//	@Router		/auth/signin [post]
func (s *Server) SignIn(c echo.Context) error {
	var req signInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	signedIn, err := s.deps.Auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(signedIn))
}
