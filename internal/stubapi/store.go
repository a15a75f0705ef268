package stubapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
)

var (
	errEmailTaken   = errors.New("email already registered")
	errNoSuchUser   = errors.New("no such user")
	errBadPassword  = errors.New("bad password")
	errNoSuchItem   = errors.New("no such product")
	errNotTheSeller = errors.New("not the seller")
)

type account struct {
	ID       string
	Name     string
	Email    string
	PwdHash  []byte
	SaltAuth []byte
}

type listing struct {
	ID          string
	Title       string
	Description string
	Price       float64
	Image       string
	OwnerID     string
	CreatedAt   time.Time
}

// memStore holds all marketplace state in memory behind one mutex. Good
// enough for a dev fixture; restarts wipe everything.
type memStore struct {
	mu        sync.RWMutex
	users     map[string]*account          // by id
	byEmail   map[string]*account          // by email
	products  map[string]*listing          // by id
	favorites map[string]map[string]string // user id -> product id -> ""
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]*account{},
		byEmail:   map[string]*account{},
		products:  map[string]*listing{},
		favorites: map[string]map[string]string{},
	}
}

func (s *memStore) createUser(name, email, password string) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	if _, exists := s.byEmail[key]; exists {
		return nil, errEmailTaken
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	salt, err := randSalt()
	if err != nil {
		return nil, err
	}
	acc := &account{
		ID:       uid.String(),
		Name:     name,
		Email:    email,
		PwdHash:  hashPassword([]byte(password), salt),
		SaltAuth: salt,
	}
	s.users[acc.ID] = acc
	s.byEmail[key] = acc
	return acc, nil
}

func (s *memStore) authenticate(email, password string) (*account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, errNoSuchUser
	}
	if !verifyPassword([]byte(password), acc.SaltAuth, acc.PwdHash) {
		return nil, errBadPassword
	}
	return acc, nil
}

func (s *memStore) user(id string) (*account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.users[id]
	return acc, ok
}

func (s *memStore) createProduct(ownerID string, d draftBody) (*listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pid, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	p := &listing{
		ID:          pid.String(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Image:       d.Image,
		OwnerID:     ownerID,
		CreatedAt:   time.Now(),
	}
	s.products[p.ID] = p
	return p, nil
}

func (s *memStore) product(id string) (*listing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p, ok
}

func (s *memStore) updateProduct(userID, id string, d draftBody) (*listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, errNoSuchItem
	}
	if p.OwnerID != userID {
		return nil, errNotTheSeller
	}
	p.Title = d.Title
	p.Description = d.Description
	p.Price = d.Price
	p.Image = d.Image
	return p, nil
}

func (s *memStore) deleteProduct(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return errNoSuchItem
	}
	if p.OwnerID != userID {
		return errNotTheSeller
	}
	delete(s.products, id)
	for _, favs := range s.favorites {
		delete(favs, id)
	}
	return nil
}

// search returns one page of listings matching the query (case-insensitive
// substring on the title), newest first, plus the total page count.
func (s *memStore) search(query string, page, limit int) ([]*listing, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	query = strings.ToLower(strings.TrimSpace(query))

	matched := make([]*listing, 0, len(s.products))
	for _, p := range s.products {
		if query == "" || strings.Contains(strings.ToLower(p.Title), query) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	pages := (len(matched) + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		return nil, pages
	}
	lo := (page - 1) * limit
	hi := lo + limit
	if hi > len(matched) {
		hi = len(matched)
	}
	return matched[lo:hi], pages
}

func (s *memStore) addFavorite(userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		return errNoSuchItem
	}
	if s.favorites[userID] == nil {
		s.favorites[userID] = map[string]string{}
	}
	s.favorites[userID][productID] = ""
	return nil
}

func (s *memStore) removeFavorite(userID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.favorites[userID], productID)
}

func (s *memStore) favoritesOf(userID string) []*listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*listing, 0, len(s.favorites[userID]))
	for pid := range s.favorites[userID] {
		if p, ok := s.products[pid]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
