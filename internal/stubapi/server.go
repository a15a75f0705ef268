// Package stubapi is an in-memory marketplace API speaking the same wire
// contract as the hosted server: auth, paginated product search, owner-only
// mutations, and per-user favorites. It backs the marketd dev binary and
// the end-to-end tests; nothing survives a restart.
package stubapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const defaultLimit = 6

// Server is the stub marketplace API.
type Server struct {
	store   *memStore
	lim     *loginLimiter
	signKey []byte
	tokTTL  time.Duration
	log     *zap.Logger
	engine  *gin.Engine
}

// New builds the server with its routes registered.
func New(signKey []byte, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		store:   newMemStore(),
		lim:     newLoginLimiter(5, 15*time.Minute),
		signKey: signKey,
		tokTTL:  24 * time.Hour,
		log:     log,
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/auth/register", s.handleRegister)
	r.POST("/auth/login", s.handleLogin)

	r.GET("/products", s.handleListProducts)
	r.GET("/products/:id", s.handleGetProduct)

	authed := r.Group("/", s.requireAuth())
	authed.POST("/products", s.handleCreateProduct)
	authed.PUT("/products/:id", s.handleUpdateProduct)
	authed.DELETE("/products/:id", s.handleDeleteProduct)
	authed.GET("/favorites", s.handleListFavorites)
	authed.POST("/favorites/:id", s.handleAddFavorite)
	authed.DELETE("/favorites/:id", s.handleRemoveFavorite)

	s.engine = r
	return s
}

// Handler exposes the router for http.Server and httptest.
func (s *Server) Handler() http.Handler { return s.engine }

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// ---- auth ----

type credentialsBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
}

func (s *Server) authPayload(c *gin.Context, acc *account) {
	tok, err := s.issueToken(acc.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not issue token")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"_id":   acc.ID,
		"name":  acc.Name,
		"email": acc.Email,
		"token": tok,
	})
}

func (s *Server) handleRegister(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Name == "" || body.Email == "" || body.Password == "" {
		fail(c, http.StatusBadRequest, "name, email and password are required")
		return
	}
	acc, err := s.store.createUser(body.Name, body.Email, body.Password)
	if err != nil {
		fail(c, http.StatusBadRequest, "email already registered")
		return
	}
	s.log.Info("user registered", zap.String("email", acc.Email))
	s.authPayload(c, acc)
}

func (s *Server) handleLogin(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	ip := c.ClientIP()
	if !s.lim.allow(body.Email, ip) {
		fail(c, http.StatusTooManyRequests, "too many failed logins, try again later")
		return
	}
	acc, err := s.store.authenticate(body.Email, body.Password)
	if err != nil {
		s.lim.failure(body.Email, ip)
		fail(c, http.StatusUnauthorized, "invalid email or password")
		return
	}
	s.lim.success(body.Email, ip)
	s.authPayload(c, acc)
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			fail(c, http.StatusUnauthorized, "authentication required")
			return
		}
		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.signKey, nil
		})
		if err != nil || claims.Subject == "" {
			fail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if _, ok := s.store.user(claims.Subject); !ok {
			fail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		c.Set("user_id", claims.Subject)
		c.Next()
	}
}

// ---- products ----

type draftBody struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

func (b draftBody) check() string {
	switch {
	case b.Title == "":
		return "title is required"
	case b.Description == "":
		return "description is required"
	case b.Image == "":
		return "image is required"
	case b.Price < 0:
		return "price must not be negative"
	}
	return ""
}

// renderProduct embeds the owner profile the way the hosted API does.
func (s *Server) renderProduct(p *listing) gin.H {
	owner := gin.H{"_id": p.OwnerID}
	if acc, ok := s.store.user(p.OwnerID); ok {
		owner["name"] = acc.Name
	}
	return gin.H{
		"_id":         p.ID,
		"title":       p.Title,
		"description": p.Description,
		"price":       p.Price,
		"image":       p.Image,
		"user":        owner,
	}
}

func (s *Server) handleListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	items, pages := s.store.search(c.Query("search"), page, limit)
	out := make([]gin.H, 0, len(items))
	for _, p := range items {
		out = append(out, s.renderProduct(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out, "page": page, "pages": pages})
}

func (s *Server) handleGetProduct(c *gin.Context) {
	p, ok := s.store.product(c.Param("id"))
	if !ok {
		fail(c, http.StatusNotFound, "product not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": s.renderProduct(p)})
}

func (s *Server) handleCreateProduct(c *gin.Context) {
	var body draftBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := body.check(); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	p, err := s.store.createProduct(c.GetString("user_id"), body)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not create product")
		return
	}
	s.log.Info("product created", zap.String("id", p.ID), zap.String("owner", p.OwnerID))
	c.JSON(http.StatusCreated, gin.H{"product": s.renderProduct(p)})
}

func (s *Server) handleUpdateProduct(c *gin.Context) {
	var body draftBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := body.check(); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}
	p, err := s.store.updateProduct(c.GetString("user_id"), c.Param("id"), body)
	switch err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"product": s.renderProduct(p)})
	case errNoSuchItem:
		fail(c, http.StatusNotFound, "product not found")
	case errNotTheSeller:
		fail(c, http.StatusForbidden, "only the seller can modify this listing")
	default:
		fail(c, http.StatusInternalServerError, "could not update product")
	}
}

func (s *Server) handleDeleteProduct(c *gin.Context) {
	err := s.store.deleteProduct(c.GetString("user_id"), c.Param("id"))
	switch err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"message": "product removed"})
	case errNoSuchItem:
		fail(c, http.StatusNotFound, "product not found")
	case errNotTheSeller:
		fail(c, http.StatusForbidden, "only the seller can modify this listing")
	default:
		fail(c, http.StatusInternalServerError, "could not delete product")
	}
}

// ---- favorites ----

func (s *Server) handleListFavorites(c *gin.Context) {
	items := s.store.favoritesOf(c.GetString("user_id"))
	out := make([]gin.H, 0, len(items))
	for _, p := range items {
		out = append(out, s.renderProduct(p))
	}
	c.JSON(http.StatusOK, gin.H{"favorites": out})
}

func (s *Server) handleAddFavorite(c *gin.Context) {
	if err := s.store.addFavorite(c.GetString("user_id"), c.Param("id")); err != nil {
		fail(c, http.StatusNotFound, "product not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "added to favorites"})
}

func (s *Server) handleRemoveFavorite(c *gin.Context) {
	s.store.removeFavorite(c.GetString("user_id"), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "removed from favorites"})
}
