package scenario

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/adyen/storefront-e2e/internal/locate"
	"github.com/adyen/storefront-e2e/internal/locate/locatetest"
	"github.com/adyen/storefront-e2e/internal/models"
)

const baseURL = "http://shop.test"

type product struct {
	id     int
	name   string
	active bool
}

// storefront is an in-memory stand-in for the Next.js shop, rendering the
// markers the scenarios rely on
type storefront struct {
	site *locatetest.Site

	mu         sync.Mutex
	customer   models.Credential
	admin      models.Credential
	role       string
	registered string
	cart       int
	toast      string
	products   []*product
	nextID     int
	orders     int
	tab        string
	form       string
	editing    int

	// feature switches for degraded pages
	filters    bool
	finalize   bool
	orderAlert bool
	modify     bool
}

func newStorefront(customer, admin models.Credential) *storefront {
	sf := &storefront{
		site:     locatetest.NewSite(baseURL),
		customer: customer,
		admin:    admin,
		nextID:   1,
		tab:      "inventory",
		filters:  true,
		finalize:   true,
		orderAlert: true,
		modify:     true,
	}

	sf.site.
		Static("/", `<html><body><h1>New Season</h1></body></html>`).
		Static("/login", `<html><body><form>
			<input type="email"/>
			<input type="password"/>
			<button type="submit">Sign In</button>
		</form></body></html>`).
		Route("/register", sf.renderRegister).
		Route("/profile", sf.renderProfile).
		Route("/shop", sf.renderShop).
		Route("/cart", sf.renderCart).
		Route("/admin", sf.renderAdmin)

	sf.site.
		OnClick(signInButton, sf.signIn).
		OnClick(createAccountButton, sf.register).
		OnClick(logoutButton, sf.logout).
		OnClick(addToCartButton, sf.addToCart).
		OnClick(finalizeButton, sf.placeOrder).
		OnClick(locate.XPath("//nav//button").Containing("Orders"), sf.showTab("orders")).
		OnClick(locate.XPath("//nav//button").Containing("Inventory"), sf.showTab("inventory")).
		OnClick(newDesignButton, sf.openForm).
		OnClick(launchDesignButton, sf.createProduct).
		OnClick(modifyButton, sf.editProduct).
		OnClick(commitButton, sf.commitProduct).
		OnClick(expungeButton, sf.archiveProduct)

	return sf
}

func (sf *storefront) seedProduct(name string, active bool) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	sf.products = append(sf.products, &product{id: sf.nextID, name: name, active: active})
	sf.nextID++
}

func (sf *storefront) activeNamed(name string) int {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	n := 0
	for _, p := range sf.products {
		if p.active && p.name == name {
			n++
		}
	}
	return n
}

func (sf *storefront) productNamed(name string) *product {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	for _, p := range sf.products {
		if p.name == name {
			return p
		}
	}
	return nil
}

func page(body string) string {
	return "<html><body>" + body + "</body></html>"
}

func (sf *storefront) renderRegister() string {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	if sf.registered != "" {
		return page(fmt.Sprintf(`<h1>Confirm Email</h1><p>We sent a code to %s</p>`, html.EscapeString(sf.registered)))
	}
	return page(`<form>
		<input type="email"/>
		<input type="password"/>
		<input type="password"/>
		<button type="submit">Create Account</button>
	</form>`)
}

func (sf *storefront) renderProfile() string {
	return page(`<h1>My Account</h1>
		<button>Orders</button>
		<button>Settings</button>
		<button>Logout</button>`)
}

func (sf *storefront) renderShop() string {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	var b strings.Builder
	if sf.filters {
		for _, c := range []string{"All", "Women", "Men", "Accessories"} {
			fmt.Fprintf(&b, "<button>%s</button>", c)
		}
	}
	b.WriteString(`<div class="card"><span>Canvas Tote</span><button>Add to Cart</button></div>`)
	if sf.toast != "" {
		fmt.Fprintf(&b, `<div role="status">%s</div>`, html.EscapeString(sf.toast))
	}
	return page(b.String())
}

func (sf *storefront) renderCart() string {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	if sf.cart == 0 {
		return page(`<h1>Your Cart is Empty</h1>`)
	}
	var b strings.Builder
	b.WriteString(`<h1>Your Shopping Cart</h1>`)
	fmt.Fprintf(&b, `<h2>Manifest (%d)</h2>`, sf.cart)
	b.WriteString(`<section><p>Shipping Address</p><input name="street"/></section>`)
	if sf.finalize {
		b.WriteString(`<button>Finalize Acquisition</button>`)
	}
	return page(b.String())
}

func (sf *storefront) renderAdmin() string {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	var b strings.Builder
	b.WriteString(`<h1>Executive Overview</h1>
		<nav><button>Inventory</button><button>Orders</button><button>Personnel</button></nav>`)

	switch sf.form {
	case "new":
		b.WriteString(`<form><input name="name"/><input name="price"/><input name="stock"/>
			<textarea name="description"></textarea>
			<button type="submit">Launch Design</button></form>`)
	case "edit":
		name := ""
		for _, p := range sf.products {
			if p.id == sf.editing {
				name = p.name
			}
		}
		fmt.Fprintf(&b, `<form><input name="name" value="%s"/><input name="price" value="150"/>
			<button type="submit">Commit Changes</button></form>`, html.EscapeString(name))
	}

	switch sf.tab {
	case "orders":
		b.WriteString(`<h2>Manifest List</h2>`)
		for i := 0; i < sf.orders; i++ {
			b.WriteString(`<div><select><option>pending</option><option>shipped</option></select></div>`)
		}
	default:
		b.WriteString(`<button>+ New Design</button><table>`)
		for _, p := range sf.products {
			status := "Active"
			if !p.active {
				status = "Archived"
			}
			fmt.Fprintf(&b, `<tr><td><span>%s</span></td><td><span>%s</span></td><td>`, html.EscapeString(p.name), status)
			if sf.modify {
				fmt.Fprintf(&b, `<button data-id="%d">Modify</button>`, p.id)
			}
			fmt.Fprintf(&b, `<button data-id="%d">Expunge</button></td></tr>`, p.id)
		}
		b.WriteString(`</table>`)
	}
	return page(b.String())
}

func (sf *storefront) signIn(s *locatetest.Site, _ *locatetest.Element) {
	email := s.Value(emailInput)
	password := s.Value(passwordInput)

	sf.mu.Lock()
	target := ""
	switch {
	case email == sf.customer.Email && password == sf.customer.Password:
		sf.role, target = "customer", "/"
	case email == sf.admin.Email && password == sf.admin.Password:
		sf.role, target = "admin", "/admin"
	}
	sf.mu.Unlock()

	if target != "" {
		s.Goto(target)
	}
}

func (sf *storefront) register(s *locatetest.Site, _ *locatetest.Element) {
	email := s.Value(emailInput)
	passwords := s.Values(passwordInput)
	if email == "" || len(passwords) != 2 || passwords[0] == "" || passwords[0] != passwords[1] {
		return
	}
	sf.mu.Lock()
	sf.registered = email
	sf.mu.Unlock()
	s.Render()
}

func (sf *storefront) logout(s *locatetest.Site, _ *locatetest.Element) {
	sf.mu.Lock()
	sf.role = ""
	sf.mu.Unlock()
	s.Goto("/")
}

func (sf *storefront) addToCart(s *locatetest.Site, _ *locatetest.Element) {
	sf.mu.Lock()
	sf.cart++
	sf.toast = "Canvas Tote added to cart"
	sf.mu.Unlock()
	s.After(10*time.Millisecond, (*locatetest.Site).Render)
}

func (sf *storefront) placeOrder(s *locatetest.Site, _ *locatetest.Element) {
	if !sf.orderAlert {
		return
	}
	sf.mu.Lock()
	sf.cart = 0
	sf.orders++
	sf.mu.Unlock()
	s.Raise("alert", "Order placed successfully! Check your email.")
}

func (sf *storefront) showTab(tab string) func(*locatetest.Site, *locatetest.Element) {
	return func(s *locatetest.Site, _ *locatetest.Element) {
		sf.mu.Lock()
		sf.tab = tab
		sf.mu.Unlock()
		s.Render()
	}
}

func (sf *storefront) openForm(s *locatetest.Site, _ *locatetest.Element) {
	sf.mu.Lock()
	sf.form = "new"
	sf.mu.Unlock()
	s.Render()
}

func (sf *storefront) createProduct(s *locatetest.Site, _ *locatetest.Element) {
	name := s.Value(nameField)
	if name == "" {
		return
	}
	sf.mu.Lock()
	sf.products = append(sf.products, &product{id: sf.nextID, name: name, active: true})
	sf.nextID++
	sf.form = ""
	sf.mu.Unlock()
	// the listing refreshes after the API round trip
	s.After(15*time.Millisecond, (*locatetest.Site).Render)
}

func (sf *storefront) editProduct(s *locatetest.Site, el *locatetest.Element) {
	id, err := strconv.Atoi(el.Attr("data-id"))
	if err != nil {
		return
	}
	sf.mu.Lock()
	sf.editing = id
	sf.form = "edit"
	sf.mu.Unlock()
	s.Render()
}

func (sf *storefront) commitProduct(s *locatetest.Site, _ *locatetest.Element) {
	name := s.Value(nameField)
	sf.mu.Lock()
	for _, p := range sf.products {
		if p.id == sf.editing {
			p.name = name
		}
	}
	sf.form = ""
	sf.mu.Unlock()
	s.After(15*time.Millisecond, (*locatetest.Site).Render)
}

func (sf *storefront) archiveProduct(s *locatetest.Site, el *locatetest.Element) {
	id, err := strconv.Atoi(el.Attr("data-id"))
	if err != nil {
		return
	}
	s.Raise("confirm", "Are you sure?")
	sf.mu.Lock()
	for _, p := range sf.products {
		if p.id == id {
			p.active = false
		}
	}
	sf.mu.Unlock()
	s.Render()
}
