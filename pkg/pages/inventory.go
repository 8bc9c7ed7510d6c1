package pages

import (
	"fmt"

	"github.com/entrhq/anvil/pkg/browser"
	"github.com/entrhq/anvil/pkg/harness"
)

// InventoryPage models the product listing shown after login.
type InventoryPage struct {
	sctx *harness.Context
	act  *Actions

	list      browser.Locator
	title     browser.Locator
	cartBadge browser.Locator
	spinner   browser.Locator
}

// NewInventoryPage builds the page object over a scenario context.
func NewInventoryPage(sctx *harness.Context) *InventoryPage {
	return &InventoryPage{
		sctx: sctx,
		act:  NewActions(sctx.Engine),

		list:      browser.CSS(".inventory_list", "inventory listing"),
		title:     browser.CSS(".title", "inventory title"),
		cartBadge: browser.CSS(".shopping_cart_badge", "cart badge"),
		spinner:   browser.CSS(".loading_spinner", "loading spinner"),
	}
}

// Root returns the listing container locator, the readiness anchor other
// pages wait on when navigation lands here.
func (p *InventoryPage) Root() browser.Locator {
	return p.list
}

// AwaitLoaded blocks until any loading spinner is gone and the page title
// has rendered text, which is the page's readiness signal.
func (p *InventoryPage) AwaitLoaded() error {
	if p.sctx.Session != nil {
		if err := p.sctx.Session.WaitForOverlayGone(p.spinner, p.sctx.Config.PageLoadTimeout()); err != nil {
			return fmt.Errorf("inventory page stuck loading: %w", err)
		}
	}
	if err := p.act.WaitForPopulated(p.title); err != nil {
		return fmt.Errorf("inventory page never loaded: %w", err)
	}
	p.sctx.Report.Step("inventory page loaded")
	return nil
}

// LoadAllItems sweeps the viewport down the listing so lazily loaded
// products render before any item lookup.
func (p *InventoryPage) LoadAllItems() error {
	if err := p.sctx.Session.ScrollThroughPage(0); err != nil {
		return fmt.Errorf("failed to sweep inventory listing: %w", err)
	}
	p.sctx.Report.Step("swept inventory listing")
	return nil
}

// Title returns the page heading text.
func (p *InventoryPage) Title() (string, error) {
	return p.act.ReadText(p.title)
}

// ExpectTitle waits until the heading satisfies the expectation.
func (p *InventoryPage) ExpectTitle(expected string) error {
	return p.act.WaitForText(p.title, expected)
}

func (p *InventoryPage) itemName(name string) browser.Locator {
	return browser.XPath(
		fmt.Sprintf(`//div[contains(@class,"inventory_item_name") and normalize-space(text())=%q]`, name),
		fmt.Sprintf("item %q", name),
	)
}

func (p *InventoryPage) addToCartButton(name string) browser.Locator {
	return browser.XPath(
		fmt.Sprintf(`//div[contains(@class,"inventory_item") and .//div[normalize-space(text())=%q]]//button`, name),
		fmt.Sprintf("add-to-cart for %q", name),
	)
}

// OpenItem clicks through to a product's detail page.
func (p *InventoryPage) OpenItem(name string) error {
	if err := p.act.Click(p.itemName(name)); err != nil {
		return fmt.Errorf("failed to open item %q: %w", name, err)
	}
	p.sctx.Report.Step("opened item %q", name)
	return nil
}

// AddToCart adds a product to the cart and waits for the badge to update.
func (p *InventoryPage) AddToCart(name string) error {
	if err := p.act.Click(p.addToCartButton(name)); err != nil {
		return fmt.Errorf("failed to add %q to cart: %w", name, err)
	}
	if err := p.act.WaitForPopulated(p.cartBadge); err != nil {
		return fmt.Errorf("cart badge never updated after adding %q: %w", name, err)
	}
	p.sctx.Report.Step("added %q to cart", name)
	return nil
}

// CartCount returns the cart badge text.
func (p *InventoryPage) CartCount() (string, error) {
	return p.act.ReadText(p.cartBadge)
}
