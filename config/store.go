package config

import (
	"time"

	"sosgog-storefront/cart"
	"sosgog-storefront/pricing"
)

// StoreSettings are the storefront's commercial defaults.
type StoreSettings struct {
	Currency       pricing.Currency
	ShippingFee    float64
	TaxRate        float64
	CartSessionTTL time.Duration
}

func LoadStoreSettings() StoreSettings {
	return StoreSettings{
		Currency:       pricing.LookupCurrency(GetEnv("STORE_CURRENCY", "PKR")),
		ShippingFee:    GetEnvAsFloat("SHIPPING_FEE", pricing.DefaultShippingFee),
		TaxRate:        GetEnvAsFloat("TAX_RATE", pricing.DefaultTaxRate),
		CartSessionTTL: GetEnvAsDuration("CART_SESSION_TTL", cart.DefaultSessionTTL),
	}
}

// Queues names the broker queues events are published to.
type Queues struct {
	Orders       string
	Applications string
}

func LoadQueues() Queues {
	return Queues{
		Orders:       GetEnv("ORDERS_QUEUE", "storefront_orders"),
		Applications: GetEnv("APPLICATIONS_QUEUE", "designer_applications"),
	}
}
