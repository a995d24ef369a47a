package models

// CommonCategories returns the suggested category list shown by clients.
// It is a UI hint only, any 2-50 character text is accepted as a category.
func CommonCategories() []string {
	return []string{
		"Streaming",
		"Music",
		"Software",
		"Cloud Storage",
		"News & Media",
		"Gaming",
		"Fitness",
		"Education",
		"Productivity",
		"Security",
		"Communication",
		"Other",
	}
}

// CommonPaymentMethods returns the suggested payment method list shown by
// clients. A UI hint only, like CommonCategories.
func CommonPaymentMethods() []string {
	return []string{
		"Credit Card",
		"Debit Card",
		"PayPal",
		"Bank Transfer",
		"Apple Pay",
		"Google Pay",
		"Cryptocurrency",
		"Other",
	}
}
