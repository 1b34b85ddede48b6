package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/pharmakit/pkg/jwt"
	"github.com/dmitrymomot/pharmakit/pkg/rbac"
	"github.com/dmitrymomot/pharmakit/pkg/requestid"
)

// SigningKey signs every token the fake backend issues.
const SigningKey = "pharmakit-test-signing-key"

// Account is a user known to the fake backend.
type Account struct {
	ID       string    `json:"_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"-"`
	Role     rbac.Role `json:"role"`
}

// Medicine is a catalog entry as the backend serves it.
type Medicine struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ExpiryDate  string  `json:"expiryDate,omitempty"`
	Image       string  `json:"image,omitempty"`
}

// OrderRequest is the place-order payload as received.
type OrderRequest struct {
	UserID string `json:"userId"`
	Items  []struct {
		Product  string  `json:"product"`
		Quantity int     `json:"quantity"`
		Price    float64 `json:"price"`
	} `json:"items"`
	TotalAmount float64 `json:"totalAmount"`
}

// PaymentRequest is the payment confirm payload as received.
type PaymentRequest struct {
	Method  string  `json:"method"`
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount"`
}

type storedOrder struct {
	ID        string
	CreatedAt time.Time
	Request   OrderRequest
}

type failure struct {
	status int
	body   map[string]any
}

// Backend is an in-process stand-in for the pharmacy REST API, served under /api.
type Backend struct {
	// URL is the API base, ending in /api.
	URL string

	server *httptest.Server
	signer *jwt.Service

	mu        sync.Mutex
	ttl       time.Duration
	accounts  map[string]*Account
	medicines []Medicine
	orders    []storedOrder
	payments  []PaymentRequest
	declined  bool
	calls     map[string]int
	failures  map[string]failure
	lastAuth  map[string]string
	requestID map[string][]string
}

// NewBackend starts a fake backend that is shut down with the test.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	signer, err := jwt.NewFromString(SigningKey)
	if err != nil {
		t.Fatalf("create signer: %v", err)
	}

	b := &Backend{
		signer:   signer,
		ttl:      time.Hour,
		accounts: make(map[string]*Account),
		calls:    make(map[string]int),
		failures: make(map[string]failure),
		lastAuth: make(map[string]string),

		requestID: make(map[string][]string),
	}

	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	b.URL = b.server.URL + "/api"

	return b
}

// Close shuts the server down early, turning later calls into network errors.
func (b *Backend) Close() {
	b.server.Close()
}

// SetTokenTTL changes the lifetime of tokens issued by login.
func (b *Backend) SetTokenTTL(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ttl = d
}

// AddAccount registers a user directly.
func (b *Backend) AddAccount(name, email, password string, role rbac.Role) Account {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc := &Account{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    strings.ToLower(email),
		Password: password,
		Role:     role,
	}
	b.accounts[acc.Email] = acc
	return *acc
}

// Account returns the user registered under email.
func (b *Backend) Account(email string) (Account, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc, ok := b.accounts[strings.ToLower(email)]
	if !ok {
		return Account{}, false
	}
	return *acc, true
}

// AddMedicine stores m, assigning an id when empty.
func (b *Backend) AddMedicine(m Medicine) Medicine {
	b.mu.Lock()
	defer b.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	b.medicines = append(b.medicines, m)
	return m
}

// Medicines returns the stored catalog.
func (b *Backend) Medicines() []Medicine {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Medicine(nil), b.medicines...)
}

// Orders returns every place-order payload received.
func (b *Backend) Orders() []OrderRequest {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]OrderRequest, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, o.Request)
	}
	return out
}

// Payments returns every payment confirm payload received.
func (b *Backend) Payments() []PaymentRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]PaymentRequest(nil), b.payments...)
}

// DeclinePayments makes payment confirm answer success=false.
func (b *Backend) DeclinePayments(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.declined = v
}

// Calls reports how often route was hit. Routes read "POST /auth/login".
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// LastAuthorization returns the Authorization header of the last call to route.
func (b *Backend) LastAuthorization(route string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastAuth[route]
}

// RequestIDs returns the X-Request-ID header of every call to route, oldest first.
func (b *Backend) RequestIDs(route string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requestID[route]...)
}

// Fail makes route answer status with {"error": message} until cleared with status 0.
func (b *Backend) Fail(route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if status == 0 {
		delete(b.failures, route)
		return
	}
	b.failures[route] = failure{status: status, body: map[string]any{"error": message}}
}

// Respond makes route answer status with body until cleared with Fail(route, 0, "").
func (b *Backend) Respond(route string, status int, body map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = failure{status: status, body: body}
}

// IssueToken signs a token for the given identity.
func (b *Backend) IssueToken(id string, role rbac.Role, exp time.Time) string {
	tok, err := b.signer.Generate(tokenClaims{
		StandardClaims: jwt.StandardClaims{Subject: id, ExpiresAt: exp.Unix(), IssuedAt: time.Now().Unix()},
		ID:             id,
		Role:           string(role),
	})
	if err != nil {
		panic(err)
	}
	return tok
}

// IssueToken signs a token with SigningKey without a running backend.
func IssueToken(t testing.TB, id string, role rbac.Role, exp time.Time) string {
	t.Helper()

	signer, err := jwt.NewFromString(SigningKey)
	if err != nil {
		t.Fatalf("create signer: %v", err)
	}
	tok, err := signer.Generate(tokenClaims{
		StandardClaims: jwt.StandardClaims{Subject: id, ExpiresAt: exp.Unix()},
		ID:             id,
		Role:           string(role),
	})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

type tokenClaims struct {
	jwt.StandardClaims
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", b.handle("POST /auth/login", b.login))
		r.Post("/auth/register", b.handle("POST /auth/register", b.register))
		r.Post("/auth/logout", b.handle("POST /auth/logout", b.requireRole(b.logout)))

		r.Get("/search", b.handle("GET /search", b.search))
		r.Get("/medicines", b.handle("GET /medicines", b.optionalAuth(b.listMedicines)))
		r.Post("/medicines", b.handle("POST /medicines", b.requireRole(b.createMedicine, rbac.Pharmacist, rbac.Admin)))
		r.Put("/medicines/{id}", b.handle("PUT /medicines/{id}", b.requireRole(b.updateMedicine, rbac.Pharmacist, rbac.Admin)))
		r.Delete("/medicines/{id}", b.handle("DELETE /medicines/{id}", b.requireRole(b.deleteMedicine, rbac.Pharmacist, rbac.Admin)))

		r.Get("/users", b.handle("GET /users", b.requireRole(b.listUsers, rbac.Admin)))
		r.Put("/users/{id}", b.handle("PUT /users/{id}", b.requireRole(b.updateUser, rbac.Admin)))
		r.Delete("/users/{id}", b.handle("DELETE /users/{id}", b.requireRole(b.deleteUser, rbac.Admin)))

		r.Post("/orders/place-order", b.handle("POST /orders/place-order", b.optionalAuth(b.placeOrder)))
		r.Get("/orders/my", b.handle("GET /orders/my", b.requireRole(b.myOrders)))
		r.Post("/payment/confirm", b.handle("POST /payment/confirm", b.confirmPayment))
	})

	return r
}

type identityHandler func(w http.ResponseWriter, r *http.Request, claims *tokenClaims)

// handle counts the call and applies any injected failure.
func (b *Backend) handle(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[route]++
		b.lastAuth[route] = r.Header.Get("Authorization")
		b.requestID[route] = append(b.requestID[route], r.Header.Get(requestid.Header))
		f, failing := b.failures[route]
		b.mu.Unlock()

		if failing {
			writeJSON(w, f.status, f.body)
			return
		}
		next(w, r)
	}
}

func (b *Backend) bearer(r *http.Request) (*tokenClaims, bool, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return nil, false, nil
	}
	tok, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return nil, true, jwt.ErrInvalidToken
	}
	var claims tokenClaims
	if err := b.signer.Parse(tok, &claims); err != nil {
		return nil, true, err
	}
	return &claims, true, nil
}

func (b *Backend) requireRole(next identityHandler, roles ...rbac.Role) http.HandlerFunc {
	allowed := rbac.NewSet(roles...)
	return func(w http.ResponseWriter, r *http.Request) {
		claims, present, err := b.bearer(r)
		if !present || err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
			return
		}
		if allowed.Len() > 0 && !allowed.Has(rbac.Role(claims.Role)) {
			writeJSON(w, http.StatusForbidden, map[string]any{"message": "Access denied"})
			return
		}
		next(w, r, claims)
	}
}

func (b *Backend) optionalAuth(next identityHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, present, err := b.bearer(r)
		if present && err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
			return
		}
		next(w, r, claims)
	}
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
		return
	}

	b.mu.Lock()
	acc, ok := b.accounts[strings.ToLower(in.Email)]
	ttl := b.ttl
	b.mu.Unlock()

	if !ok || acc.Password != in.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Invalid credentials"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": b.IssueToken(acc.ID, acc.Role, time.Now().Add(ttl)),
		"role":  acc.Role,
	})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string    `json:"name"`
		Email    string    `json:"email"`
		Password string    `json:"password"`
		Role     rbac.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
		return
	}
	if _, exists := b.Account(in.Email); exists {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "User already exists"})
		return
	}

	b.AddAccount(in.Name, in.Email, in.Password, in.Role)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "User registered successfully"})
}

func (b *Backend) logout(w http.ResponseWriter, _ *http.Request, _ *tokenClaims) {
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out"})
}

func (b *Backend) search(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	b.mu.Lock()
	out := make([]Medicine, 0)
	for _, m := range b.medicines {
		if q != "" && strings.Contains(strings.ToLower(m.Name), q) {
			out = append(out, m)
		}
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) listMedicines(w http.ResponseWriter, _ *http.Request, _ *tokenClaims) {
	writeJSON(w, http.StatusOK, b.Medicines())
}

func (b *Backend) createMedicine(w http.ResponseWriter, r *http.Request, _ *tokenClaims) {
	var m Medicine
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil || m.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "name is required"})
		return
	}
	m.ID = ""
	writeJSON(w, http.StatusCreated, b.AddMedicine(m))
}

func (b *Backend) updateMedicine(w http.ResponseWriter, r *http.Request, _ *tokenClaims) {
	id := chi.URLParam(r, "id")

	var m Medicine
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.medicines {
		if b.medicines[i].ID == id {
			m.ID = id
			b.medicines[i] = m
			writeJSON(w, http.StatusOK, m)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"message": "Medicine not found"})
}

func (b *Backend) deleteMedicine(w http.ResponseWriter, r *http.Request, _ *tokenClaims) {
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.medicines {
		if b.medicines[i].ID == id {
			b.medicines = append(b.medicines[:i], b.medicines[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{"message": "Medicine deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"message": "Medicine not found"})
}

func (b *Backend) listUsers(w http.ResponseWriter, _ *http.Request, _ *tokenClaims) {
	b.mu.Lock()
	out := make([]Account, 0, len(b.accounts))
	for _, acc := range b.accounts {
		out = append(out, *acc)
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) findAccount(id string) *Account {
	for _, acc := range b.accounts {
		if acc.ID == id {
			return acc
		}
	}
	return nil
}

func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request, _ *tokenClaims) {
	var in struct {
		Name  string    `json:"name"`
		Email string    `json:"email"`
		Role  rbac.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acc := b.findAccount(chi.URLParam(r, "id"))
	if acc == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "User not found"})
		return
	}
	if in.Name != "" {
		acc.Name = in.Name
	}
	if in.Role != "" {
		acc.Role = in.Role
	}
	if in.Email != "" && !strings.EqualFold(in.Email, acc.Email) {
		delete(b.accounts, acc.Email)
		acc.Email = strings.ToLower(in.Email)
		b.accounts[acc.Email] = acc
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "User updated successfully", "user": acc})
}

func (b *Backend) deleteUser(w http.ResponseWriter, r *http.Request, _ *tokenClaims) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc := b.findAccount(chi.URLParam(r, "id"))
	if acc == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "User not found"})
		return
	}
	delete(b.accounts, acc.Email)
	writeJSON(w, http.StatusOK, map[string]any{"message": "User deleted successfully"})
}

func (b *Backend) placeOrder(w http.ResponseWriter, r *http.Request, _ *tokenClaims) {
	var in OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false})
		return
	}
	if in.UserID == "" || len(in.Items) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
		return
	}

	order := storedOrder{ID: uuid.NewString(), CreatedAt: time.Now().UTC(), Request: in}

	b.mu.Lock()
	b.orders = append(b.orders, order)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "orderId": order.ID})
}

func (b *Backend) myOrders(w http.ResponseWriter, _ *http.Request, claims *tokenClaims) {
	type item struct {
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	}
	type placed struct {
		ID         string    `json:"_id"`
		CreatedAt  time.Time `json:"createdAt"`
		Status     string    `json:"status,omitempty"`
		TotalPrice float64   `json:"totalPrice"`
		Items      []item    `json:"items"`
	}

	b.mu.Lock()
	names := make(map[string]string, len(b.medicines))
	for _, m := range b.medicines {
		names[m.ID] = m.Name
	}
	out := make([]placed, 0)
	for _, o := range b.orders {
		if o.Request.UserID != claims.ID {
			continue
		}
		p := placed{ID: o.ID, CreatedAt: o.CreatedAt, TotalPrice: o.Request.TotalAmount}
		for _, it := range o.Request.Items {
			p.Items = append(p.Items, item{Name: names[it.Product], Price: it.Price, Quantity: it.Quantity})
		}
		out = append(out, p)
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) confirmPayment(w http.ResponseWriter, r *http.Request) {
	var in PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false})
		return
	}

	b.mu.Lock()
	b.payments = append(b.payments, in)
	declined := b.declined
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": !declined && in.Amount > 0})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
