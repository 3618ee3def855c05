// Package fakebackend is an in-memory stand-in for the auth, recipe and
// rating services, used by tests. It serves the same routes, status codes and
// {"detail": ...} error bodies as the real services and mints HS256 JWTs
// whose "sub" claim is the username.
package fakebackend

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const defaultSecret = "fakebackend-secret"

// RecordedRequest is what the backend saw of one request.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	ContentType   string
}

type user struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`

	hash []byte
}

type recipe struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	CookingTime  int       `json:"cooking_time"`
	UserID       int64     `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type rating struct {
	ID        int64     `json:"id"`
	RecipeID  int64     `json:"recipe_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Backend holds the state of all three services.
type Backend struct {
	secret []byte
	e      *echo.Echo

	mu       sync.Mutex
	nextID   int64
	users    map[string]*user
	recipes  map[int64]*recipe
	ratings  map[int64]*rating
	requests []RecordedRequest
}

// New builds an empty backend.
func New() *Backend {
	b := &Backend{
		secret:  []byte(defaultSecret),
		users:   map[string]*user{},
		recipes: map[int64]*recipe{},
		ratings: map[int64]*rating{},
	}
	b.e = b.router()
	return b
}

// Handler serves the routes of all three services at the root, as if each
// service had its own origin.
func (b *Backend) Handler() http.Handler {
	return b.e
}

// IngressHandler serves the services behind one ingress: auth under
// /api/users, recipes under /api/recipes and ratings under /api/ratings.
func (b *Backend) IngressHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/users/", http.StripPrefix("/api/users", b.e))
	mux.Handle("/api/ratings/", http.StripPrefix("/api/ratings", b.e))
	mux.Handle("/api/", http.StripPrefix("/api", b.e))
	return mux
}

// Start runs the backend on a test server closed at the end of the test.
func Start(t testing.TB) (*Backend, *httptest.Server) {
	t.Helper()
	b := New()
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return b, srv
}

// Requests returns a copy of the requests seen so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

// LastRequest returns the most recent request.
func (b *Backend) LastRequest() (RecordedRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return RecordedRequest{}, false
	}
	return b.requests[len(b.requests)-1], true
}

// Token mints a token for username without checking that the user exists.
func (b *Backend) Token(username string) string {
	t, err := b.mint(username)
	if err != nil {
		panic(err)
	}
	return t
}

func (b *Backend) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(b.record)

	e.POST("/token", b.login)
	e.POST("/register", b.register)
	e.GET("/users/me", b.me, b.auth)

	e.GET("/recipes", b.listRecipes)
	e.GET("/recipes/:id", b.getRecipe)
	e.POST("/recipes", b.createRecipe, b.auth)
	e.PUT("/recipes/:id", b.updateRecipe, b.auth)
	e.DELETE("/recipes/:id", b.deleteRecipe, b.auth)

	e.GET("/recipes/:id/ratings", b.listRatings)
	e.POST("/ratings", b.createRating, b.auth)
	e.PUT("/ratings/:id", b.updateRating, b.auth)
	e.DELETE("/ratings/:id", b.deleteRating, b.auth)

	return e
}

func (b *Backend) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			ContentType:   r.Header.Get("Content-Type"),
		})
		b.mu.Unlock()
		return next(c)
	}
}

// errorHandler renders every error the way FastAPI does: {"detail": ...}.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var detail any = "Internal Server Error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		detail = he.Message
	}
	_ = c.JSON(code, map[string]any{"detail": detail})
}

func (b *Backend) mint(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(30 * time.Minute).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
}

const userKey = "user"

// auth resolves the bearer token into the calling user.
func (b *Backend) auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header with Bearer token required")
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return b.secret, nil
		})
		if err != nil || !tkn.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}

		sub, _ := claims.GetSubject()
		b.mu.Lock()
		u, ok := b.users[sub]
		b.mu.Unlock()
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}

		c.Set(userKey, u)
		return next(c)
	}
}

func caller(c echo.Context) *user {
	return c.Get(userKey).(*user)
}

// missingField mimics a pydantic validation failure.
func missingField(name string) error {
	return echo.NewHTTPError(http.StatusUnprocessableEntity, []map[string]any{{
		"loc":  []string{"body", name},
		"msg":  "field required",
		"type": "value_error.missing",
	}})
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, []map[string]any{{
			"loc":  []string{"path", "id"},
			"msg":  "value is not a valid integer",
			"type": "type_error.integer",
		}})
	}
	return id, nil
}

func (b *Backend) newID() int64 {
	b.nextID++
	return b.nextID
}

// ---- auth service ----

func (b *Backend) login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	b.mu.Lock()
	u, ok := b.users[username]
	b.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect username or password")
	}

	token, err := b.mint(username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"access_token": token, "token_type": "bearer"})
}

func (b *Backend) register(c echo.Context) error {
	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}
	switch {
	case req.Username == nil:
		return missingField("username")
	case req.Email == nil:
		return missingField("email")
	case req.Password == nil:
		return missingField("password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.users[*req.Username]; exists {
		return echo.NewHTTPError(http.StatusBadRequest, "Username already registered")
	}
	for _, u := range b.users {
		if u.Email == *req.Email {
			return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
		}
	}

	u := &user{ID: b.newID(), Username: *req.Username, Email: *req.Email, IsActive: true, hash: hash}
	b.users[u.Username] = u
	return c.JSON(http.StatusOK, u)
}

func (b *Backend) me(c echo.Context) error {
	return c.JSON(http.StatusOK, caller(c))
}

// ---- recipe service ----

type recipeBody struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Ingredients  *string `json:"ingredients"`
	Instructions *string `json:"instructions"`
	CookingTime  *int    `json:"cooking_time"`
}

func (b *Backend) listRecipes(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*recipe, 0, len(b.recipes))
	for id := int64(1); id <= b.nextID; id++ {
		if r, ok := b.recipes[id]; ok {
			out = append(out, r)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (b *Backend) getRecipe(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.recipes[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
	}
	return c.JSON(http.StatusOK, r)
}

func (b *Backend) createRecipe(c echo.Context) error {
	var body recipeBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}
	for name, present := range map[string]bool{
		"title":        body.Title != nil,
		"description":  body.Description != nil,
		"ingredients":  body.Ingredients != nil,
		"instructions": body.Instructions != nil,
		"cooking_time": body.CookingTime != nil,
	} {
		if !present {
			return missingField(name)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	r := &recipe{
		ID:           b.newID(),
		Title:        *body.Title,
		Description:  *body.Description,
		Ingredients:  *body.Ingredients,
		Instructions: *body.Instructions,
		CookingTime:  *body.CookingTime,
		UserID:       caller(c).ID,
		CreatedAt:    time.Now().UTC(),
	}
	b.recipes[r.ID] = r
	return c.JSON(http.StatusOK, r)
}

func (b *Backend) updateRecipe(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var body recipeBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.recipes[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
	}
	if r.UserID != caller(c).ID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to update this recipe")
	}

	if body.Title != nil {
		r.Title = *body.Title
	}
	if body.Description != nil {
		r.Description = *body.Description
	}
	if body.Ingredients != nil {
		r.Ingredients = *body.Ingredients
	}
	if body.Instructions != nil {
		r.Instructions = *body.Instructions
	}
	if body.CookingTime != nil {
		r.CookingTime = *body.CookingTime
	}
	return c.JSON(http.StatusOK, r)
}

func (b *Backend) deleteRecipe(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.recipes[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
	}
	if r.UserID != caller(c).ID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this recipe")
	}
	delete(b.recipes, id)
	return c.JSON(http.StatusOK, map[string]string{"message": "Recipe deleted successfully"})
}

// ---- rating service ----

func (b *Backend) listRatings(c echo.Context) error {
	recipeID, err := pathID(c)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*rating, 0)
	for id := int64(1); id <= b.nextID; id++ {
		if r, ok := b.ratings[id]; ok && r.RecipeID == recipeID {
			out = append(out, r)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (b *Backend) createRating(c echo.Context) error {
	var body struct {
		RecipeID *int64  `json:"recipe_id"`
		Rating   *int    `json:"rating"`
		Comment  *string `json:"comment"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}
	switch {
	case body.RecipeID == nil:
		return missingField("recipe_id")
	case body.Rating == nil:
		return missingField("rating")
	case body.Comment == nil:
		return missingField("comment")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.recipes[*body.RecipeID]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Recipe not found")
	}
	uid := caller(c).ID
	for _, r := range b.ratings {
		if r.UserID == uid && r.RecipeID == *body.RecipeID {
			return echo.NewHTTPError(http.StatusBadRequest, "You have already rated this recipe")
		}
	}

	r := &rating{
		ID:        b.newID(),
		RecipeID:  *body.RecipeID,
		Rating:    *body.Rating,
		Comment:   *body.Comment,
		UserID:    uid,
		CreatedAt: time.Now().UTC(),
	}
	b.ratings[r.ID] = r
	return c.JSON(http.StatusOK, r)
}

func (b *Backend) updateRating(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var body struct {
		Rating  *int    `json:"rating"`
		Comment *string `json:"comment"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.ratings[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Rating not found")
	}
	if r.UserID != caller(c).ID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to update this rating")
	}
	if body.Rating != nil {
		r.Rating = *body.Rating
	}
	if body.Comment != nil {
		r.Comment = *body.Comment
	}
	return c.JSON(http.StatusOK, r)
}

func (b *Backend) deleteRating(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.ratings[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Rating not found")
	}
	if r.UserID != caller(c).ID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this rating")
	}
	delete(b.ratings, id)
	return c.JSON(http.StatusOK, map[string]string{"message": "Rating deleted successfully"})
}
