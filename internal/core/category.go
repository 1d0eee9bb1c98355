package core

// Income categories.
const (
	CategorySalary      = "বেতন"
	CategoryBusiness    = "ব্যবসা"
	CategoryFreelancing = "ফ্রিল্যান্সিং"
	CategoryGift        = "উপহার"
)

// Expense categories.
const (
	CategoryFood          = "খাবার"
	CategoryTransport     = "যাতায়াত"
	CategoryRent          = "ভাড়া"
	CategoryBills         = "বিল"
	CategoryShopping      = "কেনাকাটা"
	CategoryHealth        = "স্বাস্থ্য"
	// Entertainment has a default colour and icon in the app palette though
	// the expense picker never listed it.
	CategoryEntertainment = "বিনোদন"
)

// CategoryOther is the fallback label shared by both vocabularies.
const CategoryOther = "অন্যান্য"

var (
	incomeCategories = []string{
		CategorySalary, CategoryBusiness, CategoryFreelancing, CategoryGift, CategoryOther,
	}
	expenseCategories = []string{
		CategoryFood, CategoryTransport, CategoryRent, CategoryBills,
		CategoryShopping, CategoryHealth, CategoryEntertainment, CategoryOther,
	}
)

// Categories returns the vocabulary for a transaction type, in display order.
func Categories(t TransactionType) []string {
	var src []string
	switch t {
	case Income:
		src = incomeCategories
	case Expense:
		src = expenseCategories
	}
	return append([]string(nil), src...)
}

// DefaultCategory is the category preselected when adding a transaction.
func DefaultCategory(t TransactionType) string {
	if t == Income {
		return CategorySalary
	}
	return CategoryFood
}

// IsKnownCategory reports whether label belongs to t's vocabulary.
func IsKnownCategory(t TransactionType, label string) bool {
	for _, c := range Categories(t) {
		if c == label {
			return true
		}
	}
	return false
}

// NormalizeCategory maps label into t's vocabulary. An empty label selects
// the type's default; anything unknown falls back to CategoryOther.
func NormalizeCategory(t TransactionType, label string) string {
	if label == "" {
		return DefaultCategory(t)
	}
	if IsKnownCategory(t, label) {
		return label
	}
	return CategoryOther
}

// DefaultCategoryColors are the chart colours used until the user picks their own.
var DefaultCategoryColors = map[string]string{
	CategoryFood:          "#f87171",
	CategoryTransport:     "#fb923c",
	CategoryRent:          "#fbbf24",
	CategoryBills:         "#a855f7",
	CategoryShopping:      "#ec4899",
	CategoryEntertainment: "#6366f1",
	CategoryHealth:        "#14b8a6",
	CategoryOther:         "#94a3b8",
	CategorySalary:        "#22c55e",
	CategoryFreelancing:   "#3b82f6",
	CategoryBusiness:      "#06b6d4",
	CategoryGift:          "#f59e0b",
}
