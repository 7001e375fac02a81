package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yudhapr/pasarloak/internal/api"
	"github.com/yudhapr/pasarloak/internal/cart"
	"github.com/yudhapr/pasarloak/internal/checkout"
	"github.com/yudhapr/pasarloak/internal/config"
	"github.com/yudhapr/pasarloak/internal/event"
	"github.com/yudhapr/pasarloak/internal/favorites"
	"github.com/yudhapr/pasarloak/internal/model"
	"github.com/yudhapr/pasarloak/internal/session"
	"github.com/yudhapr/pasarloak/internal/store"
)

const usage = `pasarloak storefront

auth:      login, register, logout, me, become-seller, update-profile
catalog:   products, product, categories
cart:      cart, cart-add, cart-update, cart-remove
orders:    checkout, buy, orders, order, pay, ship, receive, review
selling:   sell, my-products
favorites: favorites, favorite
`

// app bundles the wired components behind the subcommands.
type app struct {
	session   *session.Manager
	client    *api.Client
	cart      *cart.Service
	favorites *favorites.Manager
	orders    *checkout.Orchestrator
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	ctx := context.Background()

	st, err := newStore(cfg)
	if err != nil {
		log.Fatalf("storefront: open state store: %v", err)
	}

	var provider session.Provider
	if cfg.AuthURL != "" {
		provider = session.NewExternalProvider(cfg.AuthURL, cfg.AuthAnonKey, st)
	} else {
		provider = session.StoredTokenProvider{Store: st}
	}

	mgr := session.NewManager(st, provider)
	client := api.New(cfg.APIBaseURL, mgr, cfg.HTTPTimeout)
	mgr.Bind(client)
	// Session restore happens before any command reads the session.
	mgr.Restore(ctx)

	bus := event.NewBus()
	a := &app{
		session:   mgr,
		client:    client,
		cart:      cart.NewService(client, bus),
		favorites: favorites.NewManager(st, bus),
		orders:    checkout.New(client),
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("storefront: %v", err)
	}
}

// newStore picks the Redis-backed store when Redis is configured and
// reachable, otherwise the JSON file store.
func newStore(cfg config.Config) (store.Store, error) {
	if client := config.NewRedisClient(cfg.RedisAddr); client != nil {
		return store.NewRedisStore(client), nil
	}
	if cfg.RedisAddr != "" {
		log.Printf("storefront: redis %s unreachable, using file store", cfg.RedisAddr)
	}
	return store.NewFileStore(cfg.StatePath)
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "register":
		return a.cmdRegister(ctx, args)
	case "logout":
		if a.session.Logout(ctx, true) {
			fmt.Println("Berhasil keluar. Silakan login kembali.")
		}
		return nil
	case "me":
		return a.cmdMe()
	case "become-seller":
		return a.cmdBecomeSeller(ctx)
	case "update-profile":
		return a.cmdUpdateProfile(ctx, args)
	case "products":
		return a.cmdProducts(ctx, args)
	case "product":
		return a.cmdProduct(ctx, args)
	case "categories":
		return a.cmdCategories(ctx)
	case "cart":
		return a.cmdCart(ctx)
	case "cart-add":
		return a.cmdCartAdd(ctx, args)
	case "cart-update":
		return a.cmdCartUpdate(ctx, args)
	case "cart-remove":
		return a.cmdCartRemove(ctx, args)
	case "checkout":
		return a.cmdCheckout(ctx, args)
	case "buy":
		return a.cmdBuy(ctx, args)
	case "orders":
		return a.cmdOrders(ctx)
	case "order":
		return a.cmdOrder(ctx, args)
	case "pay":
		return a.cmdPay(ctx, args)
	case "ship":
		return a.cmdShip(ctx, args)
	case "receive":
		return a.cmdReceive(ctx, args)
	case "review":
		return a.cmdReview(ctx, args)
	case "sell":
		return a.cmdSell(ctx, args)
	case "my-products":
		return a.cmdMyProducts(ctx)
	case "favorites":
		return a.cmdFavorites(ctx)
	case "favorite":
		return a.cmdFavorite(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// ----- auth commands -----

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "login email")
	password := fs.String("password", "", "password")
	fs.Parse(args)
	if *email == "" || *password == "" {
		return fmt.Errorf("email dan password wajib diisi")
	}
	if err := a.session.Login(ctx, *email, *password); err != nil {
		return err
	}
	user := a.session.CurrentUser()
	fmt.Printf("Masuk sebagai %s <%s>\n", user.Name, user.Email)
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "login email")
	password := fs.String("password", "", "password")
	phone := fs.String("phone", "", "phone number (optional)")
	fs.Parse(args)
	if *name == "" || *email == "" || *password == "" {
		return fmt.Errorf("nama, email dan password wajib diisi")
	}
	var phonePtr *string
	if *phone != "" {
		phonePtr = phone
	}
	if err := a.session.Register(ctx, *name, *email, *password, phonePtr); err != nil {
		return err
	}
	fmt.Printf("Akun dibuat, masuk sebagai %s\n", *email)
	return nil
}

func (a *app) cmdMe() error {
	user := a.session.CurrentUser()
	if user == nil {
		if a.session.IsAuthenticated() {
			fmt.Println("Sesi aktif, profil belum termuat.")
			return nil
		}
		return fmt.Errorf("belum login")
	}
	fmt.Printf("#%d %s <%s>\n", user.ID, user.Name, user.Email)
	if user.Phone != nil {
		fmt.Printf("Telepon: %s\n", *user.Phone)
	}
	fmt.Printf("Penjual: %v\n", bool(user.IsSeller))
	return nil
}

func (a *app) cmdBecomeSeller(ctx context.Context) error {
	if a.session.CurrentUser() == nil {
		return fmt.Errorf("belum login")
	}
	if err := a.session.BecomeSeller(ctx); err != nil {
		return err
	}
	fmt.Println("Selamat, akun Anda kini berstatus penjual.")
	return nil
}

func (a *app) cmdUpdateProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update-profile", flag.ExitOnError)
	name := fs.String("name", "", "new display name")
	phone := fs.String("phone", "", "new phone number")
	avatar := fs.String("avatar", "", "new avatar path")
	fs.Parse(args)

	var fields model.ProfileUpdate
	if *name != "" {
		fields.Name = name
	}
	if *phone != "" {
		fields.Phone = phone
	}
	if *avatar != "" {
		fields.Avatar = avatar
	}
	updated, err := a.session.UpdateProfile(ctx, fields)
	if err != nil {
		return err
	}
	fmt.Printf("Profil diperbarui: %s <%s>\n", updated.Name, updated.Email)
	return nil
}

// ----- catalog commands -----

func (a *app) cmdProducts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	search := fs.String("search", "", "search keyword")
	category := fs.Int64("category", 0, "category id filter")
	sort := fs.String("sort", "", "newest | price_asc | price_desc")
	fs.Parse(args)

	products, err := a.client.Products(ctx, api.ProductQuery{Search: *search, CategoryID: *category, Sort: *sort})
	if err != nil {
		return err
	}
	for _, p := range products {
		fmt.Printf("#%-5d %-40s %12s  stok %d  %s\n",
			p.ID, p.Name, formatRupiah(p.Price), p.Stock, model.ConditionLabel(p.Condition))
	}
	return nil
}

func (a *app) cmdProduct(ctx context.Context, args []string) error {
	id, err := idArg("product", args)
	if err != nil {
		return err
	}
	p, err := a.client.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("#%d %s\n%s\nHarga %s, stok %d, kondisi %s\n",
		p.ID, p.Name, p.Description, formatRupiah(p.Price), p.Stock, model.ConditionLabel(p.Condition))
	if seller, err := a.client.GetUser(ctx, p.UserID); err == nil {
		fmt.Printf("Penjual: %s\n", seller.Name)
	}
	return nil
}

func (a *app) cmdCategories(ctx context.Context) error {
	categories, err := a.client.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		fmt.Printf("#%-4d %s\n", c.ID, c.Name)
	}
	return nil
}

// ----- cart commands -----

func (a *app) cmdCart(ctx context.Context) error {
	items, err := a.cart.Items(ctx)
	if err != nil {
		return err
	}
	return printCart(items)
}

func (a *app) cmdCartAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cart-add", flag.ExitOnError)
	product := fs.Int64("product", 0, "product id")
	qty := fs.Int("qty", 1, "quantity")
	fs.Parse(args)
	if *product == 0 {
		return fmt.Errorf("-product wajib diisi")
	}
	items, err := a.cart.Add(ctx, *product, *qty)
	if err != nil {
		return err
	}
	return printCart(items)
}

func (a *app) cmdCartUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cart-update", flag.ExitOnError)
	item := fs.Int64("item", 0, "cart item id")
	qty := fs.Int("qty", 1, "new quantity")
	fs.Parse(args)
	if *item == 0 {
		return fmt.Errorf("-item wajib diisi")
	}
	items, err := a.cart.UpdateQuantity(ctx, *item, *qty)
	if err != nil {
		return err
	}
	return printCart(items)
}

func (a *app) cmdCartRemove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cart-remove", flag.ExitOnError)
	item := fs.Int64("item", 0, "cart item id")
	fs.Parse(args)
	if *item == 0 {
		return fmt.Errorf("-item wajib diisi")
	}
	items, err := a.cart.Remove(ctx, *item)
	if err != nil {
		return err
	}
	return printCart(items)
}

func printCart(items []model.CartItem) error {
	if len(items) == 0 {
		fmt.Println("Keranjang kosong.")
		return nil
	}
	for _, item := range items {
		fmt.Printf("#%-5d %-40s x%-3d %12s\n", item.ID, item.DisplayName(), item.Quantity, formatRupiah(item.Subtotal()))
	}
	fmt.Printf("Subtotal %s + ongkir %s = %s\n",
		formatRupiah(cart.Subtotal(items)), formatRupiah(cart.ShippingCost), formatRupiah(cart.Total(items)))
	return nil
}

// ----- order commands -----

func (a *app) cmdCheckout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	payment := fs.String("payment", model.PaymentTransfer, "transfer | cod | ewallet")
	address := fs.String("address", "", "shipping address")
	fs.Parse(args)

	items, err := a.cart.Items(ctx)
	if err != nil {
		return fmt.Errorf("Gagal memuat keranjang: %w", err)
	}
	result, err := a.orders.Checkout(ctx, items, *payment, *address)
	if err != nil {
		return err
	}
	for _, id := range result.OrderIDs {
		fmt.Printf("Pesanan #%d dibuat\n", id)
	}
	if !result.Proceed() {
		return result.Err()
	}
	fmt.Println("Semua pesanan berhasil dibuat. Lihat daftar pesanan dengan: storefront orders")
	return nil
}

func (a *app) cmdBuy(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("buy", flag.ExitOnError)
	product := fs.Int64("product", 0, "product id")
	qty := fs.Int("qty", 1, "quantity")
	payment := fs.String("payment", model.PaymentTransfer, "transfer | cod | ewallet")
	address := fs.String("address", "", "shipping address")
	fs.Parse(args)
	if *product == 0 {
		return fmt.Errorf("-product wajib diisi")
	}
	p, err := a.client.GetProduct(ctx, *product)
	if err != nil {
		return err
	}
	_, notice, err := a.orders.BuyNow(ctx, p, *qty, *payment, *address)
	if err != nil {
		return err
	}
	fmt.Println(notice)
	return nil
}

func (a *app) cmdOrders(ctx context.Context) error {
	orders, err := a.client.Orders(ctx)
	if err != nil {
		return err
	}
	for _, o := range orders {
		fmt.Printf("#%-5d %-30s x%-3d %12s  %s\n",
			o.ID, o.ProductName, o.Quantity, formatRupiah(o.TotalPrice), o.Status)
	}
	return nil
}

func (a *app) cmdOrder(ctx context.Context, args []string) error {
	id, err := idArg("order", args)
	if err != nil {
		return err
	}
	o, err := a.client.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	printOrder(o)
	return nil
}

func printOrder(o *model.Order) {
	fmt.Printf("Pesanan #%d: %s x%d\n", o.ID, o.ProductName, o.Quantity)
	fmt.Printf("Status %s, total %s, pembayaran %s\n", o.Status, formatRupiah(o.TotalPrice), o.PaymentMethod)
	fmt.Printf("Penjual %s, pembeli %s\n", o.SellerName, o.BuyerName)
	if o.ShippingAddress != "" {
		fmt.Printf("Alamat: %s\n", o.ShippingAddress)
	}
	switch {
	case o.CanPay():
		fmt.Println("Aksi: pay -id", o.ID)
	case o.CanShip():
		fmt.Println("Aksi penjual: ship -id", o.ID)
	case o.CanReceive():
		fmt.Println("Aksi: receive -id", o.ID)
	case o.CanReview():
		fmt.Println("Aksi: review -id", o.ID, "-rating 5")
	}
}

// fetchForTransition loads the order and warns when the requested
// action does not match its current status. The request is still sent;
// the backend has the last word on stale statuses.
func (a *app) fetchForTransition(ctx context.Context, args []string, name string, offered func(*model.Order) bool) (*model.Order, error) {
	id, err := idArg(name, args)
	if err != nil {
		return nil, err
	}
	o, err := a.client.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !offered(o) {
		return nil, fmt.Errorf("aksi %s tidak tersedia untuk pesanan berstatus %s", name, o.Status)
	}
	return o, nil
}

func (a *app) cmdPay(ctx context.Context, args []string) error {
	o, err := a.fetchForTransition(ctx, args, "pay", (*model.Order).CanPay)
	if err != nil {
		return err
	}
	updated, err := a.orders.PayNow(ctx, o)
	if err != nil {
		return err
	}
	printOrder(updated)
	return nil
}

func (a *app) cmdShip(ctx context.Context, args []string) error {
	o, err := a.fetchForTransition(ctx, args, "ship", (*model.Order).CanShip)
	if err != nil {
		return err
	}
	updated, err := a.orders.MarkShipped(ctx, o)
	if err != nil {
		return err
	}
	printOrder(updated)
	return nil
}

func (a *app) cmdReceive(ctx context.Context, args []string) error {
	o, err := a.fetchForTransition(ctx, args, "receive", (*model.Order).CanReceive)
	if err != nil {
		return err
	}
	updated, err := a.orders.MarkReceived(ctx, o)
	if err != nil {
		return err
	}
	printOrder(updated)
	return nil
}

func (a *app) cmdReview(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	id := fs.Int64("id", 0, "order id")
	rating := fs.Int("rating", 5, "rating 1-5")
	comment := fs.String("comment", "", "review text")
	fs.Parse(args)
	if *id == 0 {
		return fmt.Errorf("-id wajib diisi")
	}
	updated, err := a.orders.SubmitReview(ctx, *id, *rating, *comment)
	if err != nil {
		return err
	}
	fmt.Println("Review berhasil dikirim!")
	printOrder(updated)
	return nil
}

// ----- seller commands -----

func (a *app) cmdSell(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sell", flag.ExitOnError)
	name := fs.String("name", "", "product name")
	desc := fs.String("desc", "", "description")
	price := fs.Int64("price", 0, "price in rupiah")
	stock := fs.Int("stock", 1, "stock")
	condition := fs.String("condition", "good", "like_new | good | fair | poor")
	category := fs.Int64("category", 0, "category id")
	images := fs.String("images", "", "comma-separated image file paths (max 5)")
	fs.Parse(args)

	user := a.session.CurrentUser()
	if user == nil {
		return fmt.Errorf("belum login")
	}
	if !user.IsSeller {
		return fmt.Errorf("akun belum berstatus penjual; jalankan become-seller dulu")
	}
	if *name == "" {
		return fmt.Errorf("Nama produk wajib diisi")
	}
	if *category == 0 {
		return fmt.Errorf("Kategori wajib dipilih")
	}
	if *price <= 0 {
		return fmt.Errorf("Harga harus berupa angka positif")
	}
	if *stock < 0 {
		return fmt.Errorf("Stok harus bilangan bulat >= 0")
	}

	var paths []string
	if *images != "" {
		files, err := readUploadFiles(strings.Split(*images, ","))
		if err != nil {
			return err
		}
		paths, err = a.client.UploadImages(ctx, files)
		if err != nil {
			return fmt.Errorf("Gagal mengunggah file gambar: %w", err)
		}
	}

	created, err := a.client.CreateProduct(ctx, model.NewProduct{
		Name:        *name,
		Description: *desc,
		Price:       *price,
		Stock:       *stock,
		Condition:   *condition,
		CategoryID:  *category,
		Images:      paths,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Produk #%d terdaftar: %s\n", created.ID, created.Name)
	return nil
}

func (a *app) cmdMyProducts(ctx context.Context) error {
	user := a.session.CurrentUser()
	if user == nil {
		return fmt.Errorf("belum login")
	}
	products, err := a.client.ProductsByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, p := range products {
		fmt.Printf("#%-5d %-40s %12s  stok %d\n", p.ID, p.Name, formatRupiah(p.Price), p.Stock)
	}
	return nil
}

func readUploadFiles(paths []string) ([]api.UploadFile, error) {
	files := make([]api.UploadFile, 0, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", path, err)
		}
		files = append(files, api.UploadFile{Name: filepath.Base(path), Data: data})
	}
	return files, nil
}

// ----- favorites commands -----

func (a *app) cmdFavorites(ctx context.Context) error {
	products, err := a.favorites.Products(ctx, a.client)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Println("Belum ada favorit.")
		return nil
	}
	fmt.Printf("Favorit (%d)\n", len(products))
	for _, p := range products {
		fmt.Printf("#%-5d %-40s %12s\n", p.ID, p.Name, formatRupiah(p.Price))
	}
	return nil
}

func (a *app) cmdFavorite(ctx context.Context, args []string) error {
	id, err := idArg("favorite", args)
	if err != nil {
		return err
	}
	favorited, err := a.favorites.Toggle(ctx, id)
	if err != nil {
		return err
	}
	if favorited {
		fmt.Printf("Produk #%d ditambahkan ke favorit\n", id)
	} else {
		fmt.Printf("Produk #%d dihapus dari favorit\n", id)
	}
	return nil
}

// ----- helpers -----

func idArg(name string, args []string) (int64, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	id := fs.Int64("id", 0, "numeric id")
	fs.Parse(args)
	if *id == 0 && fs.NArg() > 0 {
		if n, err := strconv.ParseInt(fs.Arg(0), 10, 64); err == nil {
			return n, nil
		}
	}
	if *id == 0 {
		return 0, fmt.Errorf("-id wajib diisi")
	}
	return *id, nil
}

// formatRupiah renders an amount as "Rp1.234.567", no decimals.
func formatRupiah(amount float64) string {
	n := int64(amount)
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	if neg {
		return "-Rp" + b.String()
	}
	return "Rp" + b.String()
}
