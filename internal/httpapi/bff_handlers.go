package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/protik0939/foodhub-gateway/internal/audit"
	"github.com/protik0939/foodhub-gateway/internal/market"
	"github.com/protik0939/foodhub-gateway/internal/session"
)

// The /bff endpoints aggregate backend data into the shapes the storefront
// renders. They sit behind the gate, so every handler can assume a resolved,
// active, role-assigned session in context.

// handleMeals serves the catalog with the category list, filtered by the
// search box and category picker.
func (a *API) handleMeals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	cookie := r.Header.Get("Cookie")

	meals, err := a.market.Meals(r.Context(), cookie, "")
	if err != nil {
		writeBackendError(w, r, err)
		return
	}
	categories, err := a.market.Categories(r.Context(), cookie, "")
	if err != nil {
		writeBackendError(w, r, err)
		return
	}

	q := r.URL.Query()
	meals = market.SearchMeals(meals, q.Get("search"))
	meals = market.FilterMealsByCategory(meals, q.Get("category"))

	writeJSON(w, http.StatusOK, map[string]any{
		"meals":      meals,
		"categories": categories,
	})
}

// handleMealReviews serves GET /bff/meals/{id}/reviews with the review list
// and its summary stats.
func (a *API) handleMealReviews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	mealID, ok := subtreeID(r.URL.Path, "/bff/meals/", "reviews")
	if !ok {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	reviews, err := a.market.ReviewsByMeal(r.Context(), r.Header.Get("Cookie"), mealID)
	if err != nil {
		writeBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reviews": reviews,
		"stats":   market.Stats(reviews),
	})
}

// handleCategoryMeals serves GET /bff/categories/{id}/meals, the category
// detail page's meal list.
func (a *API) handleCategoryMeals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	categoryID, ok := subtreeID(r.URL.Path, "/bff/categories/", "meals")
	if !ok {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	meals, err := a.market.MealsByCategory(r.Context(), r.Header.Get("Cookie"), categoryID)
	if err != nil {
		writeBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meals": meals})
}

// handleBrandMeals serves GET /bff/brands/{id}/meals, the provider storefront
// page's meal list.
func (a *API) handleBrandMeals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	providerID, ok := subtreeID(r.URL.Path, "/bff/brands/", "meals")
	if !ok {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	meals, err := a.market.MealsByProvider(r.Context(), r.Header.Get("Cookie"), providerID)
	if err != nil {
		writeBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meals": meals})
}

// subtreeID extracts the id from paths shaped {prefix}{id}/{leaf}.
func subtreeID(path, prefix, leaf string) (string, bool) {
	parts := strings.Split(strings.TrimPrefix(path, prefix), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != leaf {
		return "", false
	}
	return parts[0], true
}

// handleYourOrders serves the caller's order history grouped by provider.
func (a *API) handleYourOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	state, ok := session.StateFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "sign in required")
		return
	}

	orders, err := a.market.OrdersByCustomer(r.Context(), r.Header.Get("Cookie"), state.User.ID)
	if err != nil {
		writeBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orders": market.GroupOrdersByProvider(orders),
	})
}

// handleTopBrands serves providers ranked by catalog size.
func (a *API) handleTopBrands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	brands, err := a.market.Brands(r.Context(), r.Header.Get("Cookie"))
	if err != nil {
		writeBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"brands": market.TopBrands(brands, limit),
	})
}

type placeOrderRequest struct {
	MealID        string `json:"mealId"`
	Quantity      int    `json:"quantity"`
	PaymentMethod string `json:"paymentMethod"`
}

// handlePlaceOrder submits a direct order for the calling customer. The user
// id always comes from the session, never from the client payload.
func (a *API) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	state, ok := session.StateFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "sign in required")
		return
	}

	var req placeOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.MealID == "" || req.Quantity < 1 {
		writeError(w, r, http.StatusBadRequest, "mealId and a positive quantity are required")
		return
	}
	method := market.PaymentMethod(strings.ToUpper(req.PaymentMethod))
	if method != market.PayCashOnDelivery && method != market.PayOther {
		writeError(w, r, http.StatusBadRequest, "paymentMethod must be CASHONDELIVERY or OTHERS")
		return
	}

	order, err := a.market.PlaceOrder(r.Context(), r.Header.Get("Cookie"), market.CreateOrder{
		MealID:        req.MealID,
		UserID:        state.User.ID,
		Quantity:      req.Quantity,
		PaymentMethod: method,
	})
	if err != nil {
		writeBackendError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "order_placed")
	writeJSON(w, http.StatusCreated, order)
}

// handleSubmitReview attaches a review to one of the caller's delivered
// orders. The backend validates order ownership and delivery state.
func (a *API) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req market.CreateReview
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.OrderID == "" {
		writeError(w, r, http.StatusBadRequest, "orderId is required")
		return
	}
	if req.ReviewPoint < 1 || req.ReviewPoint > 5 {
		writeError(w, r, http.StatusBadRequest, "reviewPoint must be between 1 and 5")
		return
	}

	review, err := a.market.SubmitReview(r.Context(), r.Header.Get("Cookie"), req)
	if err != nil {
		writeBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// handleProviderOrders serves the incoming orders for the calling provider.
// The provider guard has already run.
func (a *API) handleProviderOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	state, ok := session.StateFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "sign in required")
		return
	}

	orders, err := a.market.OrdersByProvider(r.Context(), r.Header.Get("Cookie"), state.User.ID)
	if err != nil {
		writeBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

// handleProviderOrderStatus serves PATCH /bff/provider/orders/{id}, moving an
// order along its lifecycle.
func (a *API) handleProviderOrderStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		methodNotAllowed(w, r, http.MethodPatch)
		return
	}
	orderID := strings.TrimPrefix(r.URL.Path, "/bff/provider/orders/")
	if orderID == "" || strings.Contains(orderID, "/") {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	var req orderStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	status := market.OrderStatus(strings.ToUpper(req.Status))
	switch status {
	case market.OrderPreparing, market.OrderReady, market.OrderDelivered, market.OrderCancelled:
	default:
		writeError(w, r, http.StatusBadRequest, "unknown order status")
		return
	}

	order, err := a.market.UpdateOrderStatus(r.Context(), r.Header.Get("Cookie"), orderID, status)
	if err != nil {
		writeBackendError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "order_status_updated")
	writeJSON(w, http.StatusOK, order)
}

func writeBackendError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, market.ErrBackend) {
		writeError(w, r, http.StatusBadGateway, "marketplace backend unavailable")
		return
	}
	writeError(w, r, http.StatusInternalServerError, "internal error")
}
