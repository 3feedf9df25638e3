package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/app/store"
	"github.com/minhtvo/storefront-gateway/pkg/logger"
	"github.com/minhtvo/storefront-gateway/pkg/upstream"
	"github.com/xuri/excelize/v2"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderService interface {
	// List returns the session's order history, newest first
	List(ctx context.Context, sessionID string) ([]model.OrderRef, error)
	// Get fetches an order's full detail from the commerce API. Non-admin
	// sessions can only see orders from their own history.
	Get(ctx context.Context, sessionID, orderID string) (*upstream.Order, error)
	// Export renders the session's order history as an XLSX workbook
	Export(ctx context.Context, sessionID string) ([]byte, error)
}

type orderService struct {
	sessions *store.SessionStore
	orders   *store.OrderStore
	client   *upstream.Client
}

func NewOrderService(sessions *store.SessionStore, orders *store.OrderStore, client *upstream.Client) OrderService {
	return &orderService{sessions: sessions, orders: orders, client: client}
}

func (s *orderService) List(ctx context.Context, sessionID string) ([]model.OrderRef, error) {
	refs, err := s.orders.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Stored oldest first; the history page wants the latest on top
	for i, j := 0, len(refs)-1; i < j; i, j = i+1, j-1 {
		refs[i], refs[j] = refs[j], refs[i]
	}
	return refs, nil
}

func (s *orderService) Get(ctx context.Context, sessionID, orderID string) (*upstream.Order, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.SignedIn() {
		return nil, ErrNotSignedIn
	}

	if session.User.Role != model.RoleAdmin {
		known, err := s.orders.Contains(ctx, sessionID, orderID)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, ErrOrderNotFound
		}
	}

	order, err := s.client.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) Export(ctx context.Context, sessionID string) ([]byte, error) {
	refs, err := s.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("Failed to close workbook", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	const sheet = "Orders"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{"Order ID", "Total (VND)", "Payment Method", "Payment Status", "Placed At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, ref := range refs {
		values := []interface{}{
			ref.ID,
			ref.Total,
			string(ref.Method),
			string(ref.Payment),
			ref.PlacedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Order history exported", map[string]interface{}{
		"session_id": sessionID,
		"orders":     len(refs),
	})
	return buf.Bytes(), nil
}
