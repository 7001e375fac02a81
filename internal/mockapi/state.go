// Package mockapi is the local development backend: an in-memory
// rendition of the marketplace REST API, wire-compatible with the
// real one. cmd/mockd serves it so the storefront can run end to end
// on a laptop with no database and no deployed backend.
package mockapi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yudhapr/pasarloak/internal/model"
)

// userRecord is a user row plus the credential the real backend keeps
// out of its API responses.
type userRecord struct {
	model.User
	PasswordHash string
}

type cartRow struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int
}

// State is the whole backend dataset behind one mutex. Request volume
// is a single developer clicking around, so one lock is plenty.
type State struct {
	mu sync.Mutex

	users      map[int64]*userRecord
	emailIndex map[string]int64
	categories []model.Category
	products   map[int64]*model.Product
	cart       map[int64]*cartRow
	orders     map[int64]*model.Order

	nextUserID    int64
	nextProductID int64
	nextCartID    int64
	nextOrderID   int64
}

func NewState() *State {
	return &State{
		users:      map[int64]*userRecord{},
		emailIndex: map[string]int64{},
		products:   map[int64]*model.Product{},
		cart:       map[int64]*cartRow{},
		orders:     map[int64]*model.Order{},
	}
}

// Seed fills the dataset with a browsable catalog so the storefront
// has something to show before anyone registers.
func (s *State) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = []model.Category{
		{ID: 1, Name: "Elektronik"},
		{ID: 2, Name: "Fashion"},
		{ID: 3, Name: "Buku"},
		{ID: 4, Name: "Perabotan"},
	}

	// Demo seller logs in with "rahasia".
	hash, _ := bcrypt.GenerateFromPassword([]byte("rahasia"), bcrypt.MinCost)
	seller := s.addUserLocked("Toko Bekas Jaya", "seller@pasarloak.test", string(hash), true)

	seedProducts := []model.Product{
		{Name: "Kamera analog Yashica", Description: "Masih berfungsi normal, sudah dites dengan roll baru.", Price: 450000, Stock: 1, Condition: "good", CategoryID: 1},
		{Name: "Jaket denim", Description: "Ukuran L, jarang dipakai.", Price: 120000, Stock: 2, Condition: "like_new", CategoryID: 2},
		{Name: "Novel bekas paket 5 buku", Description: "Campur genre, kondisi baca.", Price: 60000, Stock: 3, Condition: "fair", CategoryID: 3},
		{Name: "Rak buku kayu", Description: "Ada bekas pemakaian di sudut.", Price: 200000, Stock: 1, Condition: "good", CategoryID: 4},
	}
	for i := range seedProducts {
		p := seedProducts[i]
		p.UserID = seller.ID
		p.SellerName = seller.Name
		s.addProductLocked(&p)
	}
}

func (s *State) addUserLocked(name, email, passwordHash string, isSeller bool) *userRecord {
	s.nextUserID++
	rec := &userRecord{
		User: model.User{
			ID:       s.nextUserID,
			Name:     name,
			Email:    email,
			IsSeller: model.BoolFlag(isSeller),
		},
		PasswordHash: passwordHash,
	}
	s.users[rec.ID] = rec
	s.emailIndex[email] = rec.ID
	return rec
}

func (s *State) addProductLocked(p *model.Product) {
	s.nextProductID++
	p.ID = s.nextProductID
	p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	if p.Image == "" && len(p.Images) > 0 {
		p.Image = p.Images[0]
	}
	s.products[p.ID] = p
}

// CreateUser registers a new account. Email uniqueness mirrors the
// real backend's constraint.
func (s *State) CreateUser(name, email, passwordHash string, phone *string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.emailIndex[email]; taken {
		return nil, fmt.Errorf("Email sudah terdaftar")
	}
	rec := s.addUserLocked(name, email, passwordHash, false)
	rec.Phone = phone
	u := rec.User
	return &u, nil
}

// Authenticate returns the user record for an email, or nil.
func (s *State) UserByEmail(email string) *userRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil
	}
	rec := *s.users[id]
	return &rec
}

func (s *State) User(id int64) (*model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return nil, false
	}
	u := rec.User
	return &u, true
}

func (s *State) UpdateUser(id int64, fields model.ProfileUpdate) (*model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return nil, false
	}
	if fields.Name != nil {
		rec.Name = strings.TrimSpace(*fields.Name)
	}
	if fields.Phone != nil {
		rec.Phone = fields.Phone
	}
	if fields.Avatar != nil {
		rec.Avatar = fields.Avatar
	}
	u := rec.User
	return &u, true
}

func (s *State) MakeSeller(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return false
	}
	rec.IsSeller = true
	return true
}

func (s *State) Categories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Products applies the catalog filters the real backend supports.
func (s *State) Products(search string, categoryID int64, sortOrder string) []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Product, 0, len(s.products))
	needle := strings.ToLower(search)
	for _, p := range s.products {
		if categoryID > 0 && p.CategoryID != categoryID {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		out = append(out, *p)
	}
	switch sortOrder {
	case "price_asc":
		sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case "price_desc":
		sort.Slice(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	default: // newest
		sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	}
	return out
}

func (s *State) Product(id int64) (*model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, false
	}
	dup := *p
	return &dup, true
}

func (s *State) ProductsByUser(userID int64) []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Product
	for _, p := range s.products {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *State) CreateProduct(userID int64, req model.NewProduct) *model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	sellerName := ""
	if rec, ok := s.users[userID]; ok {
		sellerName = rec.Name
	}
	p := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       float64(req.Price),
		Stock:       req.Stock,
		Condition:   req.Condition,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
		UserID:      userID,
		SellerName:  sellerName,
	}
	s.addProductLocked(p)
	dup := *p
	return &dup
}

// UpdateProduct edits a listing; only the owner may touch it.
func (s *State) UpdateProduct(userID, id int64, req model.NewProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return errNotFound("Produk tidak ditemukan")
	}
	if p.UserID != userID {
		return errForbidden("Bukan produk Anda")
	}
	p.Name = req.Name
	p.Description = req.Description
	p.Price = float64(req.Price)
	p.Stock = req.Stock
	p.Condition = req.Condition
	p.CategoryID = req.CategoryID
	if len(req.Images) > 0 {
		p.Images = req.Images
		p.Image = req.Images[0]
	}
	return nil
}

func (s *State) DeleteProduct(userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return errNotFound("Produk tidak ditemukan")
	}
	if p.UserID != userID {
		return errForbidden("Bukan produk Anda")
	}
	delete(s.products, id)
	return nil
}

// Cart returns the user's cart rows joined with product display
// fields, the same shape GET /cart serves in production.
func (s *State) Cart(userID int64) []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.CartItem
	for _, row := range s.cart {
		if row.UserID != userID {
			continue
		}
		item := model.CartItem{
			ID:        row.ID,
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
		}
		if p, ok := s.products[row.ProductID]; ok {
			item.Name = p.Name
			item.Price = p.Price
			item.Image = p.Image
			item.SellerID = p.UserID
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddToCart merges quantity into an existing row for the same product,
// matching the real backend's upsert behavior.
func (s *State) AddToCart(userID, productID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		return errNotFound("Produk tidak ditemukan")
	}
	for _, row := range s.cart {
		if row.UserID == userID && row.ProductID == productID {
			row.Quantity += quantity
			return nil
		}
	}
	s.nextCartID++
	s.cart[s.nextCartID] = &cartRow{ID: s.nextCartID, UserID: userID, ProductID: productID, Quantity: quantity}
	return nil
}

func (s *State) UpdateCartItem(userID, itemID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.cart[itemID]
	if !ok || row.UserID != userID {
		return errNotFound("Item keranjang tidak ditemukan")
	}
	row.Quantity = quantity
	return nil
}

func (s *State) RemoveCartItem(userID, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.cart[itemID]
	if !ok || row.UserID != userID {
		return errNotFound("Item keranjang tidak ditemukan")
	}
	delete(s.cart, itemID)
	return nil
}

// CreateOrder places a single-product order, decrements stock, and
// clears the buyer's matching cart row.
func (s *State) CreateOrder(buyerID, productID, sellerID int64, quantity int, paymentMethod, shippingAddress string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return 0, errNotFound("Produk tidak ditemukan")
	}
	if p.Stock < quantity {
		return 0, errConflict("Stok tidak cukup")
	}
	p.Stock -= quantity

	buyerName := ""
	if rec, ok := s.users[buyerID]; ok {
		buyerName = rec.Name
	}
	sellerName := p.SellerName
	if sellerID == 0 {
		sellerID = p.UserID
	}

	s.nextOrderID++
	s.orders[s.nextOrderID] = &model.Order{
		ID:              s.nextOrderID,
		Status:          model.StatusPending,
		TotalPrice:      p.Price * float64(quantity),
		PaymentMethod:   paymentMethod,
		ShippingAddress: shippingAddress,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		ProductID:       productID,
		ProductName:     p.Name,
		Quantity:        quantity,
		SellerID:        sellerID,
		SellerName:      sellerName,
		BuyerID:         buyerID,
		BuyerName:       buyerName,
	}

	for id, row := range s.cart {
		if row.UserID == buyerID && row.ProductID == productID {
			delete(s.cart, id)
		}
	}
	return s.nextOrderID, nil
}

// Orders lists the caller's purchases and, for sellers, incoming
// sales.
func (s *State) Orders(userID int64) []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range s.orders {
		if o.BuyerID == userID || o.SellerID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *State) Order(userID, id int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || (o.BuyerID != userID && o.SellerID != userID) {
		return nil, errNotFound("Pesanan tidak ditemukan")
	}
	dup := *o
	return &dup, nil
}

// SetOrderStatus enforces the forward transition chain and the
// role split: buyers pay and receive, sellers ship.
func (s *State) SetOrderStatus(userID, id int64, status model.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || (o.BuyerID != userID && o.SellerID != userID) {
		return errNotFound("Pesanan tidak ditemukan")
	}
	if !model.CanTransition(o.Status, status) {
		return errConflict(fmt.Sprintf("Status tidak bisa diubah dari %s ke %s", o.Status, status))
	}
	switch status {
	case model.StatusConfirmed, model.StatusDelivered:
		if userID != o.BuyerID {
			return errForbidden("Hanya pembeli yang bisa melakukan aksi ini")
		}
	case model.StatusShipped:
		if userID != o.SellerID {
			return errForbidden("Hanya penjual yang bisa melakukan aksi ini")
		}
	}
	o.Status = status
	return nil
}

// AddReview records the buyer's one-time review of a delivered order
// and folds the rating into the seller's average.
func (s *State) AddReview(userID, id int64, review model.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.BuyerID != userID {
		return errNotFound("Pesanan tidak ditemukan")
	}
	if o.Status != model.StatusDelivered {
		return errConflict("Pesanan belum selesai")
	}
	if o.Rating != nil {
		return errConflict("Pesanan sudah diulas")
	}
	rating := review.Rating
	comment := review.Comment
	o.Rating = &rating
	o.Review = &comment

	if seller, ok := s.users[o.SellerID]; ok {
		var sum, n float64
		for _, other := range s.orders {
			if other.SellerID == o.SellerID && other.Rating != nil {
				sum += float64(*other.Rating)
				n++
			}
		}
		if n > 0 {
			avg := sum / n
			seller.Rating = &avg
		}
	}
	return nil
}
