package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"momentum_backend/internal/gateway"
	"momentum_backend/internal/logger"
	"momentum_backend/internal/models"
	"momentum_backend/internal/repositories"
	"momentum_backend/pkg/apperrors"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, userID string, req *models.CreatePaymentRequest) (*models.CreatePaymentResponse, error)
	HandleWebhook(ctx context.Context, notification *gateway.WebhookNotification) error
	GatewayRevenue(ctx context.Context) float64
}

type PaymentServiceImpl struct {
	client      *gateway.Client
	users       repositories.UserRepository
	products    repositories.ProductRepository
	promos      PromoCodeService
	entitlement EntitlementService
}

func NewPaymentService(
	client *gateway.Client,
	users repositories.UserRepository,
	products repositories.ProductRepository,
	promos PromoCodeService,
	entitlement EntitlementService,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		client:      client,
		users:       users,
		products:    products,
		promos:      promos,
		entitlement: entitlement,
	}
}

// CreatePayment registers a payment with the gateway for the chosen plan.
// The price always comes from the stored product, and any promo discount is
// applied server-side, so the client never dictates the charge.
func (s *PaymentServiceImpl) CreatePayment(ctx context.Context, userID string, req *models.CreatePaymentRequest) (*models.CreatePaymentResponse, error) {
	if !s.client.Configured() {
		return nil, apperrors.UpstreamError("payment", errors.New("payment gateway is not configured"))
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.UserNotFound()
		}
		return nil, apperrors.InternalError(err)
	}

	product, err := s.products.FindByID(req.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, apperrors.ProductNotFound()
		}
		return nil, apperrors.InternalError(err)
	}

	price := product.Price
	if req.PromoCode != "" {
		quote, err := s.promos.Apply(&models.ApplyPromoCodeRequest{
			Code:          req.PromoCode,
			OriginalPrice: product.Price,
		})
		if err != nil {
			return nil, err
		}
		price = quote.DiscountedPrice
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Subscription: %s", product.Name)
	}

	params := gateway.CreatePaymentParams{
		Amount: gateway.Amount{
			Value:    gateway.FormatAmount(price),
			Currency: "RUB",
		},
		Capture:     true,
		Description: description,
		Metadata: map[string]string{
			"userId":    user.ID,
			"productId": product.ID,
		},
	}

	receipt := &gateway.Receipt{}
	receipt.Customer.Email = user.Email
	receipt.Items = []gateway.ReceiptItem{{
		Description: description,
		Quantity:    "1",
		Amount:      params.Amount,
		VATCode:     1,
	}}
	params.Receipt = receipt

	payment, err := s.client.CreatePayment(ctx, params)
	if err != nil {
		return nil, err
	}

	confirmationURL := ""
	if payment.Confirmation != nil {
		confirmationURL = payment.Confirmation.ConfirmationURL
	}

	logger.CtxInfo(ctx, "payment created",
		"payment_id", payment.ID,
		"user_id", user.ID,
		"product_id", product.ID,
		"amount", params.Amount.Value,
	)

	return &models.CreatePaymentResponse{
		PaymentID:       payment.ID,
		ConfirmationURL: confirmationURL,
		Amount:          price,
		Currency:        params.Amount.Currency,
	}, nil
}

// HandleWebhook reacts to gateway notifications. Activation runs on both
// payment.succeeded and payment.waiting_for_capture; because activation is
// an idempotent overwrite, seeing both events for one payment is harmless.
// Unknown events are acknowledged and ignored so the gateway stops retrying.
func (s *PaymentServiceImpl) HandleWebhook(ctx context.Context, notification *gateway.WebhookNotification) error {
	switch notification.Event {
	case gateway.EventPaymentSucceeded, gateway.EventPaymentWaitingForCapture:
	default:
		logger.CtxInfo(ctx, "ignoring webhook event", "event", notification.Event)
		return nil
	}

	payment := notification.Object
	userID := payment.Metadata["userId"]
	productID := payment.Metadata["productId"]

	if userID == "" || productID == "" {
		return apperrors.NewBadRequestError("payment metadata is missing userId or productId")
	}

	// A payment referencing rows that no longer exist cannot be applied, and
	// retrying will not change that. Log and acknowledge.
	if _, err := s.users.FindByID(userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			logger.CtxWarn(ctx, "webhook references unknown user", "user_id", userID, "payment_id", payment.ID)
			return nil
		}
		return apperrors.InternalError(err)
	}
	if _, err := s.products.FindByID(productID); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			logger.CtxWarn(ctx, "webhook references unknown product", "product_id", productID, "payment_id", payment.ID)
			return nil
		}
		return apperrors.InternalError(err)
	}

	return s.entitlement.ActivateFromPayment(ctx, userID, "yookassa", payment.ID, productID)
}

// GatewayRevenue sums succeeded payments reported by the gateway. Used by
// the admin dashboard; a gateway failure degrades to zero rather than
// failing the whole dashboard.
func (s *PaymentServiceImpl) GatewayRevenue(ctx context.Context) float64 {
	if !s.client.Configured() {
		return 0
	}

	payments, err := s.client.ListPayments(ctx, "succeeded", 100)
	if err != nil {
		logger.CtxWarn(ctx, "failed to list gateway payments", "error", err)
		return 0
	}

	var total float64
	for _, p := range payments {
		value, err := strconv.ParseFloat(p.Amount.Value, 64)
		if err != nil {
			continue
		}
		total += value
	}
	return total
}
