package ledger

import "github.com/go-chi/chi/v5"

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/transactions", h.PostTransaction)
	r.Post("/wallets", h.CreateWallet)
	r.Get("/wallets/{id}", h.GetWallet)
	r.Get("/wallets/{id}/transactions", h.ListWalletTransactions)
}
