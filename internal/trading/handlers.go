package trading

import (
	"errors"

	"aurum-backend/internal/domain"
	"aurum-backend/internal/ledger"
	"aurum-backend/internal/middleware"
	"aurum-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Orchestrator *Orchestrator
}

type tradeBody struct {
	AssetType     string          `json:"assetType"`
	Quantity      decimal.Decimal `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentRef    string          `json:"paymentRef"`
}

// Buy POST /api/v1/trade/buy
func (h *Handlers) Buy(c *fiber.Ctx) error {
	req, err := h.parseTrade(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}

	trade, err := h.Orchestrator.Buy(c.Context(), *req)
	if err != nil {
		return tradeError(c, trade, err)
	}
	return response.Success(c, tradeMessage(trade, "Purchase successful"), tradeData(trade), nil)
}

// Sell POST /api/v1/trade/sell
func (h *Handlers) Sell(c *fiber.Ctx) error {
	req, err := h.parseTrade(c)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}

	trade, err := h.Orchestrator.Sell(c.Context(), *req)
	if err != nil {
		return tradeError(c, trade, err)
	}
	return response.Success(c, tradeMessage(trade, "Sale successful"), tradeData(trade), nil)
}

// History GET /api/v1/trade/history
func (h *Handlers) History(c *fiber.Ctx) error {
	tenant := middleware.GetTenant(c)
	user := middleware.GetUser(c)
	if tenant == nil || user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	filters := ledger.TransactionFilters{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Limit:  c.QueryInt("limit"),
	}
	if asset, ok := domain.ParseAssetType(c.Query("asset")); ok {
		filters.AssetType = asset
	}

	txs, err := h.Orchestrator.Ledger.GetTransactions(c.Context(), tenant.TenantID, user.UserID, filters)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Transactions", txs, fiber.Map{"count": len(txs)})
}

func (h *Handlers) parseTrade(c *fiber.Ctx) (*TradeRequest, error) {
	tenant := middleware.GetTenant(c)
	user := middleware.GetUser(c)
	if tenant == nil || user == nil {
		return nil, domain.ErrInvalidInput
	}

	var body tradeBody
	if err := c.BodyParser(&body); err != nil {
		return nil, domain.ErrInvalidInput
	}
	asset, ok := domain.ParseAssetType(body.AssetType)
	if !ok {
		return nil, domain.ErrInvalidAsset
	}

	return &TradeRequest{
		User:          user,
		TenantID:      tenant.TenantID,
		AssetType:     asset,
		Quantity:      body.Quantity,
		Price:         body.Price,
		PaymentMethod: body.PaymentMethod,
		PaymentRef:    body.PaymentRef,
	}, nil
}

func tradeError(c *fiber.Ctx, trade *domain.Transaction, err error) error {
	var details interface{}
	if trade != nil && trade.TxID != uuid.Nil {
		details = fiber.Map{"transaction_id": trade.TxID, "status": trade.Status}
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidAsset),
		errors.Is(err, domain.ErrInsufficientHoldings):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, details)
	case errors.Is(err, domain.ErrKycRequired), errors.Is(err, domain.ErrCrossTenant):
		return response.Error(c, err.Error(), fiber.StatusForbidden, details)
	case errors.Is(err, domain.ErrDuplicateReference):
		return response.Error(c, err.Error(), fiber.StatusConflict, details)
	case errors.Is(err, domain.ErrSettlementDeclined):
		return response.Error(c, err.Error(), fiber.StatusPaymentRequired, details)
	default:
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, details)
	}
}

func tradeData(trade *domain.Transaction) fiber.Map {
	return fiber.Map{
		"transaction_id": trade.TxID,
		"status":         trade.Status,
		"asset_type":     trade.AssetType,
		"quantity":       trade.Quantity,
		"total_value":    trade.TotalValue,
	}
}

// tradeMessage keeps the success message honest when a duplicate
// submission replays a prior transaction: a replay of one still in
// flight reports processing, a replay of a failed one reports the
// terminal state. The payload carries the status either way.
func tradeMessage(trade *domain.Transaction, completed string) string {
	switch trade.Status {
	case domain.TxCompleted:
		return completed
	case domain.TxPending:
		return "Trade still processing"
	default:
		return "Trade already processed"
	}
}
