package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bj-service/internal/middleware"
	"bj-service/internal/service"
	"bj-service/internal/ws"
	appErr "bj-service/pkg/errors"
	"bj-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxPendingBatch = 1000

type Handler struct {
	services *service.Container
}

func RegisterRoutes(r *gin.Engine, services *service.Container, hub *ws.Hub) {
	handler := &Handler{services: services}
	wsHandler := ws.NewHandler(hub)

	r.Use(middleware.Metrics())

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/bjService/v1")
	v1.Use(middleware.AuditorRequired())
	{
		v1.POST("/settle/calculate", handler.Calculate)

		rounds := v1.Group("/rounds")
		{
			rounds.POST("", handler.CreateRound)
			rounds.POST("/settle-pending", handler.SettlePending)
			rounds.POST("/:tableRoundId/settle", handler.SettleTableRound)
			rounds.GET("/:tableRoundId/settlement", handler.GetSettlement)
		}
	}

	r.GET("/ws/settlements", wsHandler.HandleSettlementWS)
}

type createRoundBody struct {
	TableRoundID    string          `json:"tableRoundId" binding:"required"`
	PlayerRoundData json.RawMessage `json:"playerRoundData" binding:"required"`
}

func (h *Handler) Calculate(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err)
		return
	}

	report, err := h.services.Settlement.Calculate(c.Request.Context(), raw)
	if err != nil {
		response.Fail(c, statusFor(err), err)
		return
	}
	response.Success(c, report)
}

func (h *Handler) CreateRound(c *gin.Context) {
	var body createRoundBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Fail(c, http.StatusBadRequest, err)
		return
	}

	row, err := h.services.Round.Create(c.Request.Context(), body.TableRoundID, body.PlayerRoundData)
	if err != nil {
		response.Fail(c, statusFor(err), err)
		return
	}
	response.Created(c, gin.H{
		"id":           row.ID,
		"tableRoundId": row.TableRoundID,
	})
}

func (h *Handler) SettleTableRound(c *gin.Context) {
	tableRoundID := strings.TrimSpace(c.Param("tableRoundId"))

	reports, err := h.services.Settlement.SettleTableRound(c.Request.Context(), tableRoundID)
	if err != nil {
		response.Fail(c, statusFor(err), err)
		return
	}
	response.Success(c, gin.H{
		"tableRoundId": tableRoundID,
		"reports":      reports,
	})
}

func (h *Handler) GetSettlement(c *gin.Context) {
	tableRoundID := strings.TrimSpace(c.Param("tableRoundId"))

	reports, err := h.services.Settlement.GetSettlement(c.Request.Context(), tableRoundID)
	if err != nil {
		response.Fail(c, statusFor(err), err)
		return
	}
	response.Success(c, gin.H{
		"tableRoundId": tableRoundID,
		"reports":      reports,
	})
}

func (h *Handler) SettlePending(c *gin.Context) {
	limit, err := parsePositiveIntQuery(c, "limit", 100)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err)
		return
	}
	if limit > maxPendingBatch {
		limit = maxPendingBatch
	}

	settled, err := h.services.Settlement.SettlePending(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, statusFor(err), err)
		return
	}
	response.Success(c, gin.H{"settled": settled, "limit": limit})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, appErr.ErrInvalidTableRoundID), errors.Is(err, appErr.ErrInvalidRoundDocument):
		return http.StatusBadRequest
	case errors.Is(err, appErr.ErrRoundNotFound), errors.Is(err, appErr.ErrSettlementNotFound):
		return http.StatusNotFound
	case errors.Is(err, appErr.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func parsePositiveIntQuery(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return v, nil
}
