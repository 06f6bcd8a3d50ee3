package scenario

import (
	"fmt"

	"github.com/adyen/storefront-e2e/internal/locate"
)

// Rendered markers the storefront commits to

var (
	emailInput    = locate.XPath("//input[@type='email']")
	passwordInput = locate.XPath("//input[@type='password']")

	createAccountButton = button("Create Account")
	confirmEmailPrompt  = anyText("Confirm Email")

	signInButton = button("Sign In")
	logoutButton = button("Logout")

	categoryFilter   = button("Men")
	addToCartButton  = button("Add to Cart")
	addedToCartToast = anyText("added to cart")
	cartHeading      = locate.Tag("h1").Containing("Cart")
	cartContents     = locate.Tag("h2").Containing("Manifest")
	shippingSection  = anyText("Shipping")
	finalizeButton   = button("Finalize")

	anyHeading    = locate.Tag("h1")
	ordersTab     = button("Orders")
	settingsTab   = button("Settings")
	inventoryTab  = button("Inventory")
	personnelTab  = button("Personnel")
	dashboardHead = locate.Tag("h1").Containing("Executive Overview")

	newDesignButton    = button("New Design")
	launchDesignButton = button("Launch Design")
	modifyButton       = button("Modify")
	commitButton       = button("Commit")
	expungeButton      = button("Expunge")
	nameField          = locate.Name("name")
	priceField         = locate.Name("price")
	stockField         = locate.Name("stock")
	descriptionField   = locate.Tag("textarea")

	ordersList    = locate.Tag("h2").Containing("Manifest")
	statusControl = locate.Tag("select")
)

func button(label string) locate.Locator {
	return locate.Tag("button").Containing(label)
}

func anyText(s string) locate.Locator {
	return locate.XPath("//*").Containing(s)
}

// activeProductRow is the inventory row for an exact product name that is not archived
func activeProductRow(name string) locate.Locator {
	return locate.XPath(fmt.Sprintf(
		"//tr[.//span[normalize-space(.)=%s]][.//span[normalize-space(.)='Active']]",
		locate.Literal(name),
	))
}
