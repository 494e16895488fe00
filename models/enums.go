package models

// Category classifies the kind of software a project contains. Values are
// the wire format; labels are the canonical display mapping owned by the API.
type Category string

const (
	CategoryWebApplication     Category = "web_application"
	CategoryMobileApplication  Category = "mobile_application"
	CategoryDesktopApplication Category = "desktop_application"
	CategoryGame               Category = "game"
	CategoryLibrary            Category = "library"
	CategoryAPI                Category = "api"
	CategoryScript             Category = "script"
	CategoryOther              Category = "other"
)

var categoryLabels = map[Category]string{
	CategoryWebApplication:     "Web Application",
	CategoryMobileApplication:  "Mobile Application",
	CategoryDesktopApplication: "Desktop Application",
	CategoryGame:               "Game",
	CategoryLibrary:            "Library",
	CategoryAPI:                "API",
	CategoryScript:             "Script",
	CategoryOther:              "Other",
}

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryWebApplication,
		CategoryMobileApplication,
		CategoryDesktopApplication,
		CategoryGame,
		CategoryLibrary,
		CategoryAPI,
		CategoryScript,
		CategoryOther,
	}
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string {
	return categoryLabels[c]
}

// Permission is the moderation state of a project.
type Permission string

const (
	PermissionPending  Permission = "pending"
	PermissionApproved Permission = "approved"
	PermissionRejected Permission = "rejected"
)

var permissionLabels = map[Permission]string{
	PermissionPending:  "Pending",
	PermissionApproved: "Approved",
	PermissionRejected: "Rejected",
}

func (p Permission) Valid() bool {
	_, ok := permissionLabels[p]
	return ok
}

func (p Permission) Label() string {
	return permissionLabels[p]
}

// PaymentMethod identifies how a transaction was paid.
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodPaypal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodPaypal, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "pending"
	TransactionSuccess TransactionStatus = "success"
	TransactionFailed  TransactionStatus = "failed"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionSuccess, TransactionFailed:
		return true
	}
	return false
}
