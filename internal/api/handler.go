package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/garchcast/internal/domain/dto"
	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
	"github.com/guttosm/garchcast/internal/middleware"
	"github.com/guttosm/garchcast/internal/service"
)

// Handler provides HTTP handlers for the model lifecycle endpoints.
//
// Responsibilities:
//   - Bind and validate JSON request bodies
//   - Delegate to the lifecycle manager
//   - Echo the request in the response and map lifecycle errors to status codes
type Handler struct {
	svc service.Lifecycle
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.Lifecycle): Lifecycle used to fit, predict and list models.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.Lifecycle) *Handler {
	return &Handler{svc: svc}
}

// Fit handles POST /api/v1/fit.
//
// Responses:
//   - 200 OK: Model fitted and persisted; returns artifact id and diagnostics.
//   - 400 Bad Request: Malformed body or invalid p, q or n_observations.
//   - 404 Not Found: Ticker has no stored prices.
//   - 409 Conflict: A fit for the ticker is already running.
//   - 422 Unprocessable Entity: Not enough or bad data, or the optimizer failed.
//   - 502 Bad Gateway: The price store or upstream source failed.
//
// Fit godoc
// @Summary      Fit a GARCH(p,q) model
// @Description  Fits a GARCH model on the ticker's most recent returns and persists it
// @Tags         models
// @Accept       json
// @Produce      json
// @Param        request  body      dto.FitRequest   true  "Fit parameters"
// @Success      200      {object}  dto.FitResponse  "Success"
// @Failure      400      {object}  dto.FitResponse  "Bad Request"
// @Failure      404      {object}  dto.FitResponse  "Unknown ticker"
// @Failure      409      {object}  dto.FitResponse  "Fit in progress"
// @Failure      422      {object}  dto.FitResponse  "Fit failed"
// @Failure      502      {object}  dto.FitResponse  "Repository failure"
// @Router       /api/v1/fit [post]
func (h *Handler) Fit(c *gin.Context) {
	var req dto.FitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		err = fmt.Errorf("%v: %w", err, errs.ErrInvalidParameter)
		resp := dto.FitResponse{FitRequest: req, Message: err.Error(), ErrorCode: tagError(c, err)}
		c.JSON(statusFor(resp.ErrorCode), resp)
		return
	}
	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	resp := dto.FitResponse{FitRequest: req}

	res, err := h.svc.Fit(c.Request.Context(), service.FitParams{
		Ticker:        req.Ticker,
		UseNewData:    req.UseNewData,
		NObservations: req.NObservations,
		P:             req.P,
		Q:             req.Q,
	})
	if err != nil {
		resp.Message, resp.ErrorCode = err.Error(), tagError(c, err)
		c.JSON(statusFor(resp.ErrorCode), resp)
		return
	}

	d := res.Diagnostics
	resp.Success = true
	resp.ArtifactID = res.ArtifactID
	resp.Diagnostics = &d
	resp.Message = fmt.Sprintf("Trained and saved '%s'. Metrics AIC %g, BIC %g.", res.ArtifactID, d.AIC, d.BIC)
	c.JSON(http.StatusOK, resp)
}

// Predict handles POST /api/v1/predict.
//
// Predict godoc
// @Summary      Forecast volatility
// @Description  Forecasts n_days trading days of volatility from the latest model of the ticker
// @Tags         models
// @Accept       json
// @Produce      json
// @Param        request  body      dto.PredictRequest   true  "Forecast parameters"
// @Success      200      {object}  dto.PredictResponse  "Success"
// @Failure      400      {object}  dto.PredictResponse  "Invalid horizon"
// @Failure      404      {object}  dto.PredictResponse  "No model for ticker"
// @Failure      500      {object}  dto.PredictResponse  "Unreadable artifact"
// @Failure      502      {object}  dto.PredictResponse  "Repository failure"
// @Router       /api/v1/predict [post]
func (h *Handler) Predict(c *gin.Context) {
	var req dto.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		err = fmt.Errorf("%v: %w", err, errs.ErrInvalidParameter)
		resp := dto.PredictResponse{PredictRequest: req, Message: err.Error(), ErrorCode: tagError(c, err)}
		c.JSON(statusFor(resp.ErrorCode), resp)
		return
	}
	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	resp := dto.PredictResponse{PredictRequest: req}

	fc, err := h.svc.Predict(c.Request.Context(), req.Ticker, req.NDays)
	if err != nil {
		resp.Message, resp.ErrorCode = err.Error(), tagError(c, err)
		c.JSON(statusFor(resp.ErrorCode), resp)
		return
	}

	resp.Success = true
	resp.Forecast = fc.Map()
	c.JSON(http.StatusOK, resp)
}

// ModelHistory handles GET /api/v1/models/:ticker.
//
// ModelHistory godoc
// @Summary      List fitted models
// @Description  Lists the persisted models of a ticker, newest first
// @Tags         models
// @Produce      json
// @Param        ticker  path      string                    true  "Ticker" example(ABC)
// @Success      200     {object}  dto.ModelHistoryResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse         "Bad Request"
// @Failure      502     {object}  dto.ErrorResponse         "Repository failure"
// @Router       /api/v1/models/{ticker} [get]
func (h *Handler) ModelHistory(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	list, err := h.svc.History(c.Request.Context(), ticker)
	if err != nil {
		code := tagError(c, err)
		middleware.AbortWithError(c, statusFor(code), "failed to list models", err)
		return
	}
	if list == nil {
		list = []models.ArtifactInfo{}
	}
	c.JSON(http.StatusOK, dto.ModelHistoryResponse{Ticker: ticker, Models: list})
}

// Hello godoc
// @Summary      Greeting
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /hello [get]
func (h *Handler) Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from garchcast!"})
}

// tagError returns the error code of err and exposes it to the request logger.
func tagError(c *gin.Context, err error) string {
	code := errs.Code(err)
	c.Set(middleware.ErrorCodeKey, code)
	return code
}

func statusFor(code string) int {
	switch code {
	case errs.CodeInvalidParameter, errs.CodeInvalidHorizon:
		return http.StatusBadRequest
	case errs.CodeArtifactNotFound, errs.CodeTickerNotFound:
		return http.StatusNotFound
	case errs.CodeFitInProgress:
		return http.StatusConflict
	case errs.CodeInsufficientData, errs.CodeDataQuality, errs.CodeConvergence:
		return http.StatusUnprocessableEntity
	case errs.CodeRepository:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
