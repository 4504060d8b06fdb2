package payments

import (
	stripeinfra "divination-app/internal/infra/stripe"
	"divination-app/internal/repository"
)

type Handler struct {
	gateway stripeinfra.Gateway
	orders  repository.OrderRepository
}

func NewHandler(gateway stripeinfra.Gateway, orders repository.OrderRepository) *Handler {
	return &Handler{gateway: gateway, orders: orders}
}
