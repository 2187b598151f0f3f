package model

// CategoryType groups destination categories by their place in the income
// statement.
type CategoryType string

const (
	CategoryRevenue       CategoryType = "revenue"
	CategoryExpense       CategoryType = "expense"
	CategoryDistribution  CategoryType = "distribution"
	CategoryTransfer      CategoryType = "transfer"
	CategoryUncategorized CategoryType = "uncategorized"
)

// Category is one destination a bank transaction can be booked to.
type Category struct {
	Name        string       `json:"name"`
	Type        CategoryType `json:"type"`
	Description string       `json:"description,omitempty"`
}

// Uncategorized is the destination of transactions no rule recognizes.
const Uncategorized = "Uncategorized"
